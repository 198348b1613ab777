package ldapwire

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// DelRequest is RFC 4511 §4.8's DelRequest: a primitive-encoded
// APPLICATION 10 OCTET STRING carrying the DN to remove.
type DelRequest struct {
	DN string
}

func (DelRequest) applicationTag() int          { return tagDelRequest }
func (DelRequest) applicationConstructed() bool { return false }

func (r DelRequest) encodeBody(enc *ber.BEREncoder) error {
	enc.WriteRaw([]byte(r.DN))
	return nil
}

func decodeDelRequest(data []byte) (Operation, error) {
	return DelRequest{DN: string(data)}, nil
}

// DelResponse is RFC 4511 §4.8's DelResponse: COMPONENTS OF LDAPResult
// under APPLICATION 11.
type DelResponse struct {
	Result Result
}

func (DelResponse) applicationTag() int          { return tagDelResponse }
func (DelResponse) applicationConstructed() bool { return true }

func (r DelResponse) encodeBody(enc *ber.BEREncoder) error {
	return encodeResult(enc, r.Result)
}
