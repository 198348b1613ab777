package ldapwire

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// ModifyRequest is RFC 4511 §4.6's ModifyRequest:
//
//	ModifyRequest ::= [APPLICATION 6] SEQUENCE {
//	    object          LDAPDN,
//	    changes         SEQUENCE OF change SEQUENCE {
//	        operation       ENUMERATED { add(0), delete(1), replace(2) },
//	        modification    PartialAttribute
//	    }
//	}
type ModifyRequest struct {
	DN      string
	Changes []Modification
}

func (ModifyRequest) applicationTag() int          { return tagModifyRequest }
func (ModifyRequest) applicationConstructed() bool { return true }

func (r ModifyRequest) encodeBody(enc *ber.BEREncoder) error {
	if err := enc.WriteOctetString([]byte(r.DN)); err != nil {
		return err
	}
	changesPos := enc.BeginSequence()
	for _, c := range r.Changes {
		changePos := enc.BeginSequence()
		if err := enc.WriteEnumerated(int64(c.Operation)); err != nil {
			return err
		}
		attrPos := enc.BeginSequence()
		if err := enc.WriteOctetString([]byte(c.Modification.Type)); err != nil {
			return err
		}
		setPos := enc.BeginSet()
		for _, v := range c.Modification.Values {
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
		if err := enc.EndSequence(changePos); err != nil {
			return err
		}
	}
	return enc.EndSequence(changesPos)
}

func decodeModifyRequest(data []byte) (Operation, error) {
	dec := ber.NewBERDecoder(data)

	dn, err := dec.ReadOctetString()
	if err != nil {
		return nil, &OperationError{Op: "ModifyRequest", Offset: dec.Offset(), Message: "failed to read object", Err: err}
	}

	changesDec, err := dec.ReadSequenceContents()
	if err != nil {
		return nil, &OperationError{Op: "ModifyRequest", Offset: dec.Offset(), Message: "failed to read changes", Err: err}
	}

	var changes []Modification
	for changesDec.Remaining() > 0 {
		changeDec, err := changesDec.ReadSequenceContents()
		if err != nil {
			return nil, &OperationError{Op: "ModifyRequest", Offset: changesDec.Offset(), Message: "failed to read change", Err: err}
		}
		op, err := changeDec.ReadEnumerated()
		if err != nil {
			return nil, &OperationError{Op: "ModifyRequest", Offset: changeDec.Offset(), Message: "failed to read operation", Err: err}
		}
		attrDec, err := changeDec.ReadSequenceContents()
		if err != nil {
			return nil, &OperationError{Op: "ModifyRequest", Offset: changeDec.Offset(), Message: "failed to read modification", Err: err}
		}
		attrType, err := attrDec.ReadOctetString()
		if err != nil {
			return nil, &OperationError{Op: "ModifyRequest", Offset: attrDec.Offset(), Message: "failed to read attribute type", Err: err}
		}
		valsDec, err := attrDec.ReadSetContents()
		if err != nil {
			return nil, &OperationError{Op: "ModifyRequest", Offset: attrDec.Offset(), Message: "failed to read attribute values", Err: err}
		}
		var values [][]byte
		for valsDec.Remaining() > 0 {
			v, err := valsDec.ReadOctetString()
			if err != nil {
				return nil, &OperationError{Op: "ModifyRequest", Offset: valsDec.Offset(), Message: "failed to read attribute value", Err: err}
			}
			values = append(values, v)
		}
		changes = append(changes, Modification{
			Operation:    ModifyOp(op),
			Modification: PartialAttribute{Type: string(attrType), Values: values},
		})
	}

	return ModifyRequest{DN: string(dn), Changes: changes}, nil
}

// ModifyResponse is RFC 4511 §4.6's ModifyResponse: COMPONENTS OF
// LDAPResult under APPLICATION 7.
type ModifyResponse struct {
	Result Result
}

func (ModifyResponse) applicationTag() int          { return tagModifyResponse }
func (ModifyResponse) applicationConstructed() bool { return true }

func (r ModifyResponse) encodeBody(enc *ber.BEREncoder) error {
	return encodeResult(enc, r.Result)
}
