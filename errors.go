package ldapwire

import (
	"errors"
	"fmt"
)

// ErrNeedMoreBytes-adjacent sentinels. NeedMoreBytes itself is not an
// error returned from Decode — a nil Message with a nil error is the
// framer's "read more and retry" signal (see Codec.Decode). The sentinel
// below exists for callers and internal helpers that want to express the
// condition as an error value, e.g. when wrapping Decode in an io.Reader
// loop.
var ErrNeedMoreBytes = errors.New("ldapwire: need more bytes")

// FramingError is returned when the outer LDAPMessage SEQUENCE cannot be
// parsed, or violates the envelope grammar (wrong child count, non-BER
// data, truncated length). The message layer does not support resyncing
// a stream after a FramingError; the caller should close the connection.
type FramingError struct {
	Offset  int
	Message string
	Err     error
}

func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ldapwire: framing error at offset %d: %s: %v", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("ldapwire: framing error at offset %d: %s", e.Offset, e.Message)
}

func (e *FramingError) Unwrap() error { return e.Err }

// OperationError is returned when the outer frame parses but the
// operation tag is unknown, mis-classed, or its fields violate the
// per-operation grammar (wrong type, missing mandatory child, malformed
// enum, non-UTF-8 where text is required).
type OperationError struct {
	Op      string
	Offset  int
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ldapwire: %s: %s (offset %d): %v", e.Op, e.Message, e.Offset, e.Err)
	}
	return fmt.Sprintf("ldapwire: %s: %s (offset %d)", e.Op, e.Message, e.Offset)
}

func (e *OperationError) Unwrap() error { return e.Err }

// ControlError describes why a single control failed to decode. Per
// RFC 4511 peer tolerance, ControlErrors are not surfaced as Decode
// failures — Codec drops the offending control and continues (optionally
// logging it, see Codec.Logger). The type is exported so that hook can
// report something more specific than "a control was dropped".
type ControlError struct {
	OID     string
	Message string
	Err     error
}

func (e *ControlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ldapwire: control %q: %s: %v", e.OID, e.Message, e.Err)
	}
	return fmt.Sprintf("ldapwire: control %q: %s", e.OID, e.Message)
}

func (e *ControlError) Unwrap() error { return e.Err }

// ExtendedDecodeError is returned by the convenience wrappers (WhoAmI,
// PasswordModify) when the underlying ExtendedRequest/Response does not
// match the expected OID or payload shape.
type ExtendedDecodeError struct {
	Want    string
	Message string
	Err     error
}

func (e *ExtendedDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ldapwire: extended op %s: %s: %v", e.Want, e.Message, e.Err)
	}
	return fmt.Sprintf("ldapwire: extended op %s: %s", e.Want, e.Message)
}

func (e *ExtendedDecodeError) Unwrap() error { return e.Err }

// FilterStringError is returned by ParseFilterString when the input
// violates RFC 4515 presentation syntax.
type FilterStringError struct {
	Input   string
	Offset  int
	Message string
}

func (e *FilterStringError) Error() string {
	return fmt.Sprintf("ldapwire: filter string error at offset %d: %s (in %q)", e.Offset, e.Message, e.Input)
}

// Sentinel errors used where no extra context is needed, matching the
// teacher codebase's convention of bare sentinels for signal-only
// conditions.
var (
	ErrInvalidMessageID  = errors.New("ldapwire: message ID out of valid range (0 to 2147483647)")
	ErrMissingOperation  = errors.New("ldapwire: missing protocol operation")
	ErrUnknownResultCode = errors.New("ldapwire: unknown result code")
	ErrUnsupportedFilter = errors.New("ldapwire: unsupported filter kind")
)
