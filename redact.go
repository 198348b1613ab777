package ldapwire

import "fmt"

// redactedPlaceholder stands in for secret bytes in every String/GoString
// form below. It deliberately carries no length or content hint.
const redactedPlaceholder = "<redacted>"

// String implements fmt.Stringer, redacting Password so it never leaks
// through %v, %s, error messages, or logging.
func (c SimpleCredential) String() string {
	return fmt.Sprintf("SimpleCredential{Password: %s}", redactedPlaceholder)
}

// GoString implements fmt.GoStringer for the same reason String does.
func (c SimpleCredential) GoString() string {
	return fmt.Sprintf("ldapwire.SimpleCredential{Password: %q}", redactedPlaceholder)
}

// String redacts Values when Type names the userPassword attribute
// (case-insensitive, per LDAP attribute-description matching), and
// otherwise renders only the number of Values rather than their raw
// content — attribute values are not guaranteed to be printable text.
func (a PartialAttribute) String() string {
	if isUserPasswordAttr(a.Type) {
		return fmt.Sprintf("PartialAttribute{Type: %q, Values: [%s]}", a.Type, redactedPlaceholder)
	}
	return fmt.Sprintf("PartialAttribute{Type: %q, Values: %d value(s)}", a.Type, len(a.Values))
}

// GoString implements fmt.GoStringer so that %#v redacts the same way
// String does — without it, %#v would print Values' raw bytes directly.
func (a PartialAttribute) GoString() string {
	if isUserPasswordAttr(a.Type) {
		return fmt.Sprintf("ldapwire.PartialAttribute{Type:%q, Values:%s}", a.Type, redactedPlaceholder)
	}
	return fmt.Sprintf("ldapwire.PartialAttribute{Type:%q, Values: %d value(s)}", a.Type, len(a.Values))
}

func isUserPasswordAttr(attrType string) bool {
	return equalFoldASCII(attrType, "userPassword")
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// String redacts Value, since an ExtendedRequest's payload can carry a
// credential (e.g. PasswordModify's nested old/new password fields).
func (r ExtendedRequest) String() string {
	valueRepr := "<nil>"
	if r.Value != nil {
		valueRepr = redactedPlaceholder
	}
	return fmt.Sprintf("ExtendedRequest{Name: %q, Value: %s}", r.Name, valueRepr)
}

// GoString redacts Value for the same reason String does.
func (r ExtendedRequest) GoString() string {
	valueRepr := "<nil>"
	if r.Value != nil {
		valueRepr = redactedPlaceholder
	}
	return fmt.Sprintf("ldapwire.ExtendedRequest{Name:%q, Value:%s}", r.Name, valueRepr)
}

// String redacts OldPassword and NewPassword, leaving UserIdentity
// visible since it is not a secret.
func (r PasswordModifyRequest) String() string {
	oldRepr, newRepr := "<absent>", "<absent>"
	if r.hasOldPassword {
		oldRepr = redactedPlaceholder
	}
	if r.hasNewPassword {
		newRepr = redactedPlaceholder
	}
	userIdentity := "<absent>"
	if r.hasUserIdentity {
		userIdentity = r.UserIdentity
	}
	return fmt.Sprintf("PasswordModifyRequest{UserIdentity: %q, OldPassword: %s, NewPassword: %s}", userIdentity, oldRepr, newRepr)
}

// GoString redacts OldPassword and NewPassword for the same reason
// String does.
func (r PasswordModifyRequest) GoString() string {
	oldRepr, newRepr := "<absent>", "<absent>"
	if r.hasOldPassword {
		oldRepr = redactedPlaceholder
	}
	if r.hasNewPassword {
		newRepr = redactedPlaceholder
	}
	userIdentity := "<absent>"
	if r.hasUserIdentity {
		userIdentity = r.UserIdentity
	}
	return fmt.Sprintf("ldapwire.PasswordModifyRequest{UserIdentity:%q, OldPassword:%s, NewPassword:%s}", userIdentity, oldRepr, newRepr)
}

// String redacts GeneratedPassword, since a server-chosen password is as
// sensitive as a client-chosen one.
func (r PasswordModifyResponse) String() string {
	if !r.hasGeneratedPassword {
		return "PasswordModifyResponse{GeneratedPassword: <absent>}"
	}
	return fmt.Sprintf("PasswordModifyResponse{GeneratedPassword: %s}", redactedPlaceholder)
}

// GoString redacts GeneratedPassword for the same reason String does.
func (r PasswordModifyResponse) GoString() string {
	if !r.hasGeneratedPassword {
		return "ldapwire.PasswordModifyResponse{GeneratedPassword: <absent>}"
	}
	return fmt.Sprintf("ldapwire.PasswordModifyResponse{GeneratedPassword:%s}", redactedPlaceholder)
}
