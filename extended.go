package ldapwire

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

const (
	extendedRequestTagName  = 0
	extendedRequestTagValue = 1

	extendedResponseTagName  = 10
	extendedResponseTagValue = 11
)

// ExtendedRequest is RFC 4511 §4.12's ExtendedRequest:
//
//	ExtendedRequest ::= [APPLICATION 23] SEQUENCE {
//	    requestName     [0] LDAPOID,
//	    requestValue    [1] OCTET STRING OPTIONAL
//	}
//
// PasswordModify and WhoAmI are built on top of this as convenience
// constructors — see convenience.go.
type ExtendedRequest struct {
	Name  string
	Value []byte
}

func (ExtendedRequest) applicationTag() int          { return tagExtendedRequest }
func (ExtendedRequest) applicationConstructed() bool { return true }

func (r ExtendedRequest) encodeBody(enc *ber.BEREncoder) error {
	if err := enc.WriteTaggedValue(extendedRequestTagName, false, []byte(r.Name)); err != nil {
		return err
	}
	if r.Value != nil {
		return enc.WriteTaggedValue(extendedRequestTagValue, false, r.Value)
	}
	return nil
}

func decodeExtendedRequest(data []byte) (Operation, error) {
	dec := ber.NewBERDecoder(data)

	tagNum, _, name, err := dec.ReadTaggedValue()
	if err != nil {
		return nil, &OperationError{Op: "ExtendedRequest", Offset: dec.Offset(), Message: "failed to read requestName", Err: err}
	}
	if tagNum != extendedRequestTagName {
		return nil, &OperationError{Op: "ExtendedRequest", Offset: dec.Offset(), Message: "requestName has unexpected tag"}
	}

	req := ExtendedRequest{Name: string(name)}
	if dec.Remaining() > 0 {
		tagNum, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return nil, &OperationError{Op: "ExtendedRequest", Offset: dec.Offset(), Message: "failed to read requestValue", Err: err}
		}
		if tagNum == extendedRequestTagValue {
			req.Value = value
		}
	}

	return req, nil
}

// ExtendedResponse is RFC 4511 §4.12's ExtendedResponse:
//
//	ExtendedResponse ::= [APPLICATION 24] SEQUENCE {
//	    COMPONENTS OF LDAPResult,
//	    responseName     [10] LDAPOID OPTIONAL,
//	    responseValue    [11] OCTET STRING OPTIONAL
//	}
type ExtendedResponse struct {
	Result Result
	Name   *string
	Value  []byte
}

func (ExtendedResponse) applicationTag() int          { return tagExtendedResponse }
func (ExtendedResponse) applicationConstructed() bool { return true }

func (r ExtendedResponse) encodeBody(enc *ber.BEREncoder) error {
	if err := encodeResult(enc, r.Result); err != nil {
		return err
	}
	if r.Name != nil {
		if err := enc.WriteTaggedValue(extendedResponseTagName, false, []byte(*r.Name)); err != nil {
			return err
		}
	}
	if r.Value != nil {
		if err := enc.WriteTaggedValue(extendedResponseTagValue, false, r.Value); err != nil {
			return err
		}
	}
	return nil
}

func decodeExtendedResponse(data []byte) (Operation, error) {
	dec := ber.NewBERDecoder(data)

	result, err := decodeResult(dec)
	if err != nil {
		return nil, &OperationError{Op: "ExtendedResponse", Offset: dec.Offset(), Message: "failed to decode result", Err: err}
	}

	resp := ExtendedResponse{Result: result}
	for dec.Remaining() > 0 {
		tagNum, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return nil, &OperationError{Op: "ExtendedResponse", Offset: dec.Offset(), Message: "failed to read optional field", Err: err}
		}
		switch tagNum {
		case extendedResponseTagName:
			s := string(value)
			resp.Name = &s
		case extendedResponseTagValue:
			resp.Value = value
		}
	}

	return resp, nil
}
