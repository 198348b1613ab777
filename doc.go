// Package ldapwire implements a BER/DER codec for LDAPv3 protocol messages
// as defined by RFC 4511, plus the RFC 4533 content-synchronization
// controls, the RFC 3062 password-modify extended operation, and the
// Active Directory DirSync control.
//
// The package exposes three things: a Codec that frames and translates a
// byte stream to and from typed Message values, a ParseFilterString
// function that compiles RFC 4515 textual filters into a Filter tree, and
// the message model types themselves (Operation variants, Control
// variants, IntermediateResponse variants).
//
// # Scope
//
// Supported operations: Bind (simple authentication only — no SASL),
// Unbind, Search, Modify, Add, Delete, Abandon, Extended, Intermediate.
// Compare and ModifyDN are not implemented. Supported filter kinds are
// And, Or, Not, Equality, Substring, and Present; greater-or-equal,
// less-or-equal, approximate-match, and extensible-match filters are
// rejected on decode.
//
// This package has no opinion on transport, connection management,
// authentication, or directory storage — embedders own the byte stream
// and dispatch decoded messages themselves.
//
// # Framing
//
//	codec := &ldapwire.Codec{}
//	msg, n, err := codec.Decode(buf)
//	if err != nil {
//	    // framing or operation error, close the connection
//	}
//	if msg == nil {
//	    // need more bytes; read more and retry
//	}
//	buf = buf[n:]
//
// # Encoding
//
//	data, err := codec.Encode(msg)
package ldapwire
