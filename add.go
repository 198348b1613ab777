package ldapwire

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// AddRequest is RFC 4511 §4.7's AddRequest:
//
//	AddRequest ::= [APPLICATION 8] SEQUENCE {
//	    entry           LDAPDN,
//	    attributes      AttributeList
//	}
type AddRequest struct {
	DN         string
	Attributes []PartialAttribute
}

func (AddRequest) applicationTag() int          { return tagAddRequest }
func (AddRequest) applicationConstructed() bool { return true }

func (r AddRequest) encodeBody(enc *ber.BEREncoder) error {
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

func decodeAddRequest(data []byte) (Operation, error) {
	dec := ber.NewBERDecoder(data)

	dn, err := dec.ReadOctetString()
	if err != nil {
		return nil, &OperationError{Op: "AddRequest", Offset: dec.Offset(), Message: "failed to read entry", Err: err}
	}

	listDec, err := dec.ReadSequenceContents()
	if err != nil {
		return nil, &OperationError{Op: "AddRequest", Offset: dec.Offset(), Message: "failed to read attributes", Err: err}
	}

	var attrs []PartialAttribute
	for listDec.Remaining() > 0 {
		attrDec, err := listDec.ReadSequenceContents()
		if err != nil {
			return nil, &OperationError{Op: "AddRequest", Offset: listDec.Offset(), Message: "failed to read attribute", Err: err}
		}
		attrType, err := attrDec.ReadOctetString()
		if err != nil {
			return nil, &OperationError{Op: "AddRequest", Offset: attrDec.Offset(), Message: "failed to read attribute type", Err: err}
		}
		valsDec, err := attrDec.ReadSetContents()
		if err != nil {
			return nil, &OperationError{Op: "AddRequest", Offset: attrDec.Offset(), Message: "failed to read attribute values", Err: err}
		}
		var values [][]byte
		for valsDec.Remaining() > 0 {
			v, err := valsDec.ReadOctetString()
			if err != nil {
				return nil, &OperationError{Op: "AddRequest", Offset: valsDec.Offset(), Message: "failed to read attribute value", Err: err}
			}
			values = append(values, v)
		}
		attrs = append(attrs, PartialAttribute{Type: string(attrType), Values: values})
	}

	return AddRequest{DN: string(dn), Attributes: attrs}, nil
}

// AddResponse is RFC 4511 §4.7's AddResponse: COMPONENTS OF LDAPResult
// under APPLICATION 9.
type AddResponse struct {
	Result Result
}

func (AddResponse) applicationTag() int          { return tagAddResponse }
func (AddResponse) applicationConstructed() bool { return true }

func (r AddResponse) encodeBody(enc *ber.BEREncoder) error {
	return encodeResult(enc, r.Result)
}
