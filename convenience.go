package ldapwire

import "github.com/oba-ldap/ldapwire/internal/ber"

// WhoAmI OID, per RFC 4532.
const whoAmIOID = "1.3.6.1.4.1.4203.1.11.3"

// NewWhoAmIRequest builds the WhoAmI extended operation request: an
// ExtendedRequest with no value.
func NewWhoAmIRequest() ExtendedRequest {
	return ExtendedRequest{Name: whoAmIOID}
}

// DecodeWhoAmIResponse interprets resp's value as the authenticated DN
// string RFC 4532 specifies. It errors if resp's result is unsuccessful
// or the name (when present) is not the WhoAmI OID.
func DecodeWhoAmIResponse(resp ExtendedResponse) (string, error) {
	if resp.Name != nil && *resp.Name != whoAmIOID {
		return "", &ExtendedDecodeError{Want: whoAmIOID, Message: "unexpected responseName"}
	}
	if !resp.Result.Code.IsSuccess() {
		return "", &ExtendedDecodeError{Want: whoAmIOID, Message: "operation did not succeed: " + resp.Result.Code.String()}
	}
	return string(resp.Value), nil
}

// PasswordModify OID, per RFC 3062.
const passwordModifyOID = "1.3.6.1.4.1.4203.1.11.1"

const (
	passwordModifyTagUserIdentity = 0
	passwordModifyTagOldPassword  = 1
	passwordModifyTagNewPassword  = 2
	passwordModifyTagGenPassword  = 0
)

// PasswordModifyRequest is RFC 3062's passwdModifyRequestValue, carried
// as an ExtendedRequest's value. Every field is optional; String/GoString
// redact OldPassword and NewPassword (see redact.go).
type PasswordModifyRequest struct {
	UserIdentity string
	OldPassword  string
	NewPassword  string

	hasUserIdentity bool
	hasOldPassword  bool
	hasNewPassword  bool
}

// NewPasswordModifyRequest builds a PasswordModifyRequest. Pass an empty
// string for any field that should be omitted from the wire value; this
// constructor has no way to mark an empty string as a present value.
func NewPasswordModifyRequest(userIdentity, oldPassword, newPassword string) PasswordModifyRequest {
	r := PasswordModifyRequest{}
	if userIdentity != "" {
		r.UserIdentity, r.hasUserIdentity = userIdentity, true
	}
	if oldPassword != "" {
		r.OldPassword, r.hasOldPassword = oldPassword, true
	}
	if newPassword != "" {
		r.NewPassword, r.hasNewPassword = newPassword, true
	}
	return r
}

// ToExtendedRequest encodes r as the ExtendedRequest wire form.
func (r PasswordModifyRequest) ToExtendedRequest() (ExtendedRequest, error) {
	enc := ber.NewBEREncoder(32)
	if r.hasUserIdentity {
		if err := enc.WriteTaggedValue(passwordModifyTagUserIdentity, false, []byte(r.UserIdentity)); err != nil {
			return ExtendedRequest{}, err
		}
	}
	if r.hasOldPassword {
		if err := enc.WriteTaggedValue(passwordModifyTagOldPassword, false, []byte(r.OldPassword)); err != nil {
			return ExtendedRequest{}, err
		}
	}
	if r.hasNewPassword {
		if err := enc.WriteTaggedValue(passwordModifyTagNewPassword, false, []byte(r.NewPassword)); err != nil {
			return ExtendedRequest{}, err
		}
	}
	return ExtendedRequest{Name: passwordModifyOID, Value: enc.Bytes()}, nil
}

// DecodePasswordModifyRequest interprets an ExtendedRequest's value as a
// PasswordModifyRequest.
func DecodePasswordModifyRequest(req ExtendedRequest) (PasswordModifyRequest, error) {
	if req.Name != passwordModifyOID {
		return PasswordModifyRequest{}, &ExtendedDecodeError{Want: passwordModifyOID, Message: "unexpected requestName"}
	}
	dec := ber.NewBERDecoder(req.Value)
	r := PasswordModifyRequest{}
	for dec.Remaining() > 0 {
		tag, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return PasswordModifyRequest{}, &ExtendedDecodeError{Want: passwordModifyOID, Message: "failed to read field", Err: err}
		}
		switch tag {
		case passwordModifyTagUserIdentity:
			r.UserIdentity, r.hasUserIdentity = string(value), true
		case passwordModifyTagOldPassword:
			r.OldPassword, r.hasOldPassword = string(value), true
		case passwordModifyTagNewPassword:
			r.NewPassword, r.hasNewPassword = string(value), true
		}
	}
	return r, nil
}

// PasswordModifyResponse is RFC 3062's passwdModifyResponseValue: an
// optional server-generated password.
type PasswordModifyResponse struct {
	GeneratedPassword    string
	hasGeneratedPassword bool
}

// NewPasswordModifyResponse builds a response carrying a server-generated
// password.
func NewPasswordModifyResponse(generatedPassword string) PasswordModifyResponse {
	return PasswordModifyResponse{GeneratedPassword: generatedPassword, hasGeneratedPassword: true}
}

// ToExtendedResponse encodes r as the ExtendedResponse wire form, given
// the common Result to report.
func (r PasswordModifyResponse) ToExtendedResponse(result Result) (ExtendedResponse, error) {
	resp := ExtendedResponse{Result: result}
	if r.hasGeneratedPassword {
		enc := ber.NewBEREncoder(16)
		if err := enc.WriteTaggedValue(passwordModifyTagGenPassword, false, []byte(r.GeneratedPassword)); err != nil {
			return ExtendedResponse{}, err
		}
		resp.Value = enc.Bytes()
	}
	return resp, nil
}

// DecodePasswordModifyResponse interprets an ExtendedResponse's value as
// a PasswordModifyResponse.
func DecodePasswordModifyResponse(resp ExtendedResponse) (PasswordModifyResponse, error) {
	if resp.Value == nil {
		return PasswordModifyResponse{}, nil
	}
	dec := ber.NewBERDecoder(resp.Value)
	r := PasswordModifyResponse{}
	if dec.Remaining() > 0 {
		tag, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return PasswordModifyResponse{}, &ExtendedDecodeError{Want: passwordModifyOID, Message: "failed to read genPassword", Err: err}
		}
		if tag == passwordModifyTagGenPassword {
			r.GeneratedPassword, r.hasGeneratedPassword = string(value), true
		}
	}
	return r, nil
}

// Result builders. Every Result produced here has an empty Referral
// list, matching the canonical "fresh result" shape callers expect when
// they haven't populated referrals themselves.

// NewSuccess builds a successful Result carrying message as the
// diagnostic text.
func NewSuccess(message string) Result {
	return Result{Code: ResultSuccess, Message: message}
}

// NewInvalidCredentials builds an invalidCredentials Result for a failed
// bind, with matchedDN left as provided (commonly empty).
func NewInvalidCredentials(matchedDN, message string) Result {
	return Result{Code: ResultInvalidCredentials, MatchedDN: matchedDN, Message: message}
}

// NewOperationsError builds an operationsError Result.
func NewOperationsError(message string) Result {
	return Result{Code: ResultOperationsError, Message: message}
}

// NewNoSuchObject builds a noSuchObject Result naming the nearest
// matched ancestor DN.
func NewNoSuchObject(matchedDN, message string) Result {
	return Result{Code: ResultNoSuchObject, MatchedDN: matchedDN, Message: message}
}

// NewProtocolError builds a protocolError Result.
func NewProtocolError(message string) Result {
	return Result{Code: ResultProtocolError, Message: message}
}
