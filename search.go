package ldapwire

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// SearchRequest is RFC 4511 §4.5.1's SearchRequest:
//
//	SearchRequest ::= [APPLICATION 3] SEQUENCE {
//	    baseObject      LDAPDN,
//	    scope           ENUMERATED { baseObject(0), singleLevel(1), wholeSubtree(2) },
//	    derefAliases    ENUMERATED { ... },
//	    sizeLimit       INTEGER (0 .. maxInt),
//	    timeLimit       INTEGER (0 .. maxInt),
//	    typesOnly       BOOLEAN,
//	    filter          Filter,
//	    attributes      AttributeSelection
//	}
type SearchRequest struct {
	BaseDN     string
	Scope      SearchScope
	Aliases    DerefAliases
	SizeLimit  int32
	TimeLimit  int32
	TypesOnly  bool
	Filter     Filter
	Attributes []string
}

func (SearchRequest) applicationTag() int          { return tagSearchRequest }
func (SearchRequest) applicationConstructed() bool { return true }

func (r SearchRequest) encodeBody(enc *ber.BEREncoder) error {
	if err := enc.WriteOctetString([]byte(r.BaseDN)); err != nil {
		return err
	}
	if err := enc.WriteEnumerated(int64(r.Scope)); err != nil {
		return err
	}
	if err := enc.WriteEnumerated(int64(r.Aliases)); err != nil {
		return err
	}
	if err := enc.WriteInteger(int64(r.SizeLimit)); err != nil {
		return err
	}
	if err := enc.WriteInteger(int64(r.TimeLimit)); err != nil {
		return err
	}
	if err := enc.WriteBoolean(r.TypesOnly); err != nil {
		return err
	}
	if r.Filter == nil {
		return &OperationError{Op: "SearchRequest", Message: "filter is required"}
	}
	if err := r.Filter.encodeFilter(enc); err != nil {
		return err
	}
	pos := enc.BeginSequence()
	for _, attr := range r.Attributes {
		if err := enc.WriteOctetString([]byte(attr)); err != nil {
			return err
		}
	}
	return enc.EndSequence(pos)
}

// decodeSearchRequest decodes a SearchRequest body. When strict is false
// (the default), two interop tolerances apply: the scope and
// derefAliases ENUMERATED values are accepted regardless of their tag
// class/constructed bits (some clients send them as plain INTEGERs),
// and a missing or malformed attributes SEQUENCE is treated as an empty
// attribute list rather than a decode error.
func decodeSearchRequest(data []byte, strict bool) (Operation, error) {
	dec := ber.NewBERDecoder(data)

	baseDN, err := dec.ReadOctetString()
	if err != nil {
		return nil, &OperationError{Op: "SearchRequest", Offset: dec.Offset(), Message: "failed to read baseObject", Err: err}
	}

	scope, err := readScopeLike(dec, strict)
	if err != nil {
		return nil, &OperationError{Op: "SearchRequest", Offset: dec.Offset(), Message: "failed to read scope", Err: err}
	}

	aliases, err := readScopeLike(dec, strict)
	if err != nil {
		return nil, &OperationError{Op: "SearchRequest", Offset: dec.Offset(), Message: "failed to read derefAliases", Err: err}
	}

	sizeLimit, err := dec.ReadInteger()
	if err != nil {
		return nil, &OperationError{Op: "SearchRequest", Offset: dec.Offset(), Message: "failed to read sizeLimit", Err: err}
	}
	timeLimit, err := dec.ReadInteger()
	if err != nil {
		return nil, &OperationError{Op: "SearchRequest", Offset: dec.Offset(), Message: "failed to read timeLimit", Err: err}
	}
	typesOnly, err := dec.ReadBoolean()
	if err != nil {
		return nil, &OperationError{Op: "SearchRequest", Offset: dec.Offset(), Message: "failed to read typesOnly", Err: err}
	}

	filter, err := decodeFilter(dec)
	if err != nil {
		return nil, &OperationError{Op: "SearchRequest", Offset: dec.Offset(), Message: "failed to read filter", Err: err}
	}

	var attrs []string
	attrsDec, err := dec.ReadSequenceContents()
	if err != nil {
		if strict {
			return nil, &OperationError{Op: "SearchRequest", Offset: dec.Offset(), Message: "failed to read attributes", Err: err}
		}
		// Lenient: treat a missing/malformed attribute selection as empty.
	} else {
		for attrsDec.Remaining() > 0 {
			a, err := attrsDec.ReadOctetString()
			if err != nil {
				if strict {
					return nil, &OperationError{Op: "SearchRequest", Offset: attrsDec.Offset(), Message: "failed to read attribute", Err: err}
				}
				break
			}
			attrs = append(attrs, string(a))
		}
	}

	return SearchRequest{
		BaseDN:     string(baseDN),
		Scope:      SearchScope(scope),
		Aliases:    DerefAliases(aliases),
		SizeLimit:  int32(sizeLimit),
		TimeLimit:  int32(timeLimit),
		TypesOnly:  typesOnly,
		Filter:     filter,
		Attributes: attrs,
	}, nil
}

// readScopeLike reads an ENUMERATED-shaped integer. In strict mode the
// tag's class and number must be the universal ENUMERATED tag; in
// lenient mode any tag's content is read as a big-endian integer
// regardless of its class/number, tolerating peers that send scope or
// derefAliases mistagged, per SPEC_FULL.md §4.C.
func readScopeLike(dec *ber.BERDecoder, strict bool) (int64, error) {
	if strict {
		return dec.ReadEnumerated()
	}
	if _, _, _, err := dec.ReadTag(); err != nil {
		return 0, err
	}
	length, err := dec.ReadLength()
	if err != nil {
		return 0, err
	}
	value, err := dec.ReadBytes(length)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, b := range value {
		n = (n << 8) | int64(b)
	}
	return n, nil
}

// SearchResultEntry is RFC 4511 §4.5.2's SearchResultEntry:
//
//	SearchResultEntry ::= [APPLICATION 4] SEQUENCE {
//	    objectName      LDAPDN,
//	    attributes      PartialAttributeList
//	}
type SearchResultEntry struct {
	DN         string
	Attributes []PartialAttribute
}

func (SearchResultEntry) applicationTag() int          { return tagSearchResultEntry }
func (SearchResultEntry) applicationConstructed() bool { return true }

func (r SearchResultEntry) encodeBody(enc *ber.BEREncoder) error {
	if err := enc.WriteOctetString([]byte(r.DN)); err != nil {
		return err
	}
	listPos := enc.BeginSequence()
	for _, attr := range r.Attributes {
		attrPos := enc.BeginSequence()
		if err := enc.WriteOctetString([]byte(attr.Type)); err != nil {
			return err
		}
		setPos := enc.BeginSet()
		for _, v := range attr.Values {
			if err := enc.WriteOctetString(v); err != nil {
				return err
			}
		}
		if err := enc.EndSet(setPos); err != nil {
			return err
		}
		if err := enc.EndSequence(attrPos); err != nil {
			return err
		}
	}
	return enc.EndSequence(listPos)
}

func decodeSearchResultEntry(data []byte) (Operation, error) {
	dec := ber.NewBERDecoder(data)

	dn, err := dec.ReadOctetString()
	if err != nil {
		return nil, &OperationError{Op: "SearchResultEntry", Offset: dec.Offset(), Message: "failed to read objectName", Err: err}
	}

	listDec, err := dec.ReadSequenceContents()
	if err != nil {
		return nil, &OperationError{Op: "SearchResultEntry", Offset: dec.Offset(), Message: "failed to read attributes", Err: err}
	}

	var attrs []PartialAttribute
	for listDec.Remaining() > 0 {
		attrDec, err := listDec.ReadSequenceContents()
		if err != nil {
			return nil, &OperationError{Op: "SearchResultEntry", Offset: listDec.Offset(), Message: "failed to read PartialAttribute", Err: err}
		}
		attrType, err := attrDec.ReadOctetString()
		if err != nil {
			return nil, &OperationError{Op: "SearchResultEntry", Offset: attrDec.Offset(), Message: "failed to read attribute type", Err: err}
		}
		valsDec, err := attrDec.ReadSetContents()
		if err != nil {
			return nil, &OperationError{Op: "SearchResultEntry", Offset: attrDec.Offset(), Message: "failed to read attribute values", Err: err}
		}
		var values [][]byte
		for valsDec.Remaining() > 0 {
			v, err := valsDec.ReadOctetString()
			if err != nil {
				return nil, &OperationError{Op: "SearchResultEntry", Offset: valsDec.Offset(), Message: "failed to read attribute value", Err: err}
			}
			values = append(values, v)
		}
		attrs = append(attrs, PartialAttribute{Type: string(attrType), Values: values})
	}

	return SearchResultEntry{DN: string(dn), Attributes: attrs}, nil
}

// SearchResultDone is RFC 4511 §4.5.2's SearchResultDone: COMPONENTS OF
// LDAPResult, under APPLICATION 5. Its decode is handled inline by
// decodeResult in message.go; only the Operation and Encode side live
// here.
type SearchResultDone struct {
	Result Result
}

func (SearchResultDone) applicationTag() int          { return tagSearchResultDone }
func (SearchResultDone) applicationConstructed() bool { return true }

func (r SearchResultDone) encodeBody(enc *ber.BEREncoder) error {
	return encodeResult(enc, r.Result)
}
