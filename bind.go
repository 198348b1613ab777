package ldapwire

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// protocolVersion is the only LDAP protocol version this codec speaks.
// BindRequest's encodeBody always writes 3; decode rejects anything else.
const protocolVersion = 3

// authTagSimple is the context tag for the Simple authentication choice.
// The SASL alternative ([3] SaslCredentials) is a Non-goal and is never
// produced on decode; a BindRequest bearing it is an OperationError.
const authTagSimple = 0

// BindCredential is the authentication choice carried by a BindRequest.
// SimpleCredential is the only implementation — SASL credentials are not
// supported.
type BindCredential interface {
	isBindCredential()
}

// SimpleCredential is RFC 4511's AuthenticationChoice.simple: a bare
// cleartext password carried as an OCTET STRING. Its String/GoString
// forms redact Password — see redact.go.
type SimpleCredential struct {
	Password string
}

func (SimpleCredential) isBindCredential() {}

// BindRequest is RFC 4511 §4.2's BindRequest:
//
//	BindRequest ::= [APPLICATION 0] SEQUENCE {
//	    version                 INTEGER (1 .. 127),
//	    name                    LDAPDN,
//	    authentication          AuthenticationChoice
//	}
//
// version is fixed at 3 on encode; decode rejects any other value.
type BindRequest struct {
	DN   string
	Cred BindCredential
}

func (BindRequest) applicationTag() int           { return tagBindRequest }
func (BindRequest) applicationConstructed() bool  { return true }

func (r BindRequest) encodeBody(enc *ber.BEREncoder) error {
	if err := enc.WriteInteger(protocolVersion); err != nil {
		return err
	}
	if err := enc.WriteOctetString([]byte(r.DN)); err != nil {
		return err
	}
	switch cred := r.Cred.(type) {
	case SimpleCredential:
		return enc.WriteTaggedValue(authTagSimple, false, []byte(cred.Password))
	default:
		return &OperationError{Op: "BindRequest", Message: "unsupported credential type (SASL is not implemented)"}
	}
}

func decodeBindRequest(data []byte) (Operation, error) {
	dec := ber.NewBERDecoder(data)

	version, err := dec.ReadInteger()
	if err != nil {
		return nil, &OperationError{Op: "BindRequest", Offset: dec.Offset(), Message: "failed to read version", Err: err}
	}
	if version != protocolVersion {
		return nil, &OperationError{Op: "BindRequest", Offset: dec.Offset(), Message: "unsupported protocol version (only 3 is supported)"}
	}

	dnBytes, err := dec.ReadOctetString()
	if err != nil {
		return nil, &OperationError{Op: "BindRequest", Offset: dec.Offset(), Message: "failed to read name", Err: err}
	}

	tagNum, _, authData, err := dec.ReadTaggedValue()
	if err != nil {
		return nil, &OperationError{Op: "BindRequest", Offset: dec.Offset(), Message: "failed to read authentication choice", Err: err}
	}
	if tagNum != authTagSimple {
		return nil, &OperationError{Op: "BindRequest", Offset: dec.Offset(), Message: "SASL authentication is not supported"}
	}

	return BindRequest{
		DN:   string(dnBytes),
		Cred: SimpleCredential{Password: string(authData)},
	}, nil
}

// BindResponse is RFC 4511 §4.2.2's BindResponse.
//
//	BindResponse ::= [APPLICATION 1] SEQUENCE {
//	    COMPONENTS OF LDAPResult,
//	    serverSaslCreds    [7] OCTET STRING OPTIONAL
//	}
type BindResponse struct {
	Result    Result
	SASLCreds *string
}

func (BindResponse) applicationTag() int          { return tagBindResponse }
func (BindResponse) applicationConstructed() bool { return true }

func (r BindResponse) encodeBody(enc *ber.BEREncoder) error {
	if err := encodeResult(enc, r.Result); err != nil {
		return err
	}
	if r.SASLCreds != nil {
		return enc.WriteTaggedValue(7, false, []byte(*r.SASLCreds))
	}
	return nil
}

func decodeBindResponse(data []byte) (Operation, error) {
	dec := ber.NewBERDecoder(data)
	result, err := decodeResult(dec)
	if err != nil {
		return nil, &OperationError{Op: "BindResponse", Offset: dec.Offset(), Message: "failed to decode result", Err: err}
	}
	resp := BindResponse{Result: result}
	if dec.Remaining() > 0 {
		_, _, value, err := dec.ReadTaggedValue()
		if err == nil {
			s := string(value)
			resp.SASLCreds = &s
		}
	}
	return resp, nil
}

// UnbindRequest is RFC 4511 §4.3's UnbindRequest: an empty,
// primitive-encoded APPLICATION 2 tag.
type UnbindRequest struct{}

func (UnbindRequest) applicationTag() int                       { return tagUnbindRequest }
func (UnbindRequest) applicationConstructed() bool              { return false }
func (UnbindRequest) encodeBody(enc *ber.BEREncoder) error       { return nil }
