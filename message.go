package ldapwire

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oba-ldap/ldapwire/internal/ber"
)

// Message is the LDAPMessage envelope, per RFC 4511 §4.1.1:
//
//	LDAPMessage ::= SEQUENCE {
//	    messageID       MessageID,
//	    protocolOp      CHOICE { ... },
//	    controls        [0] Controls OPTIONAL
//	}
type Message struct {
	MessageID int32
	Operation Operation
	Controls  []Control
}

// Operation is implemented by every protocol-operation variant
// (BindRequest, SearchRequest, ModifyResponse, ...). It is a closed set —
// callers type-switch on the concrete type to dispatch.
type Operation interface {
	// applicationTag returns the APPLICATION-class tag number identifying
	// this operation's wire encoding.
	applicationTag() int
	// applicationConstructed reports whether the operation's outer tag
	// is constructed (true for all but UnbindRequest, DelRequest, and
	// AbandonRequest, which are primitive-encoded).
	applicationConstructed() bool
	// encodeBody writes the operation's content (without the
	// APPLICATION tag/length header) to enc.
	encodeBody(enc *ber.BEREncoder) error
}

// Codec frames and translates a byte stream to and from Message values.
// A zero-value Codec is ready to use in lenient mode.
type Codec struct {
	// Strict disables two tolerances the wire format accepts by default:
	// SearchRequest.Scope tag-class/id mismatches, and a missing or
	// malformed SearchRequest attrs sequence (treated as empty when
	// lenient). Default false, matching the permissive source behavior.
	Strict bool

	// Logger, if non-nil, receives a Debug-level record each time a
	// control fails to decode and is silently dropped from a Message
	// (see DESIGN.md — this is a deliberate interoperability behavior,
	// not a bug, but it should be observable).
	Logger *slog.Logger
}

// Decode attempts to parse one complete Message from the head of buf.
//
// Three outcomes:
//   - (msg, n, nil): a complete message was parsed; the caller must
//     advance its buffer by n bytes.
//   - (nil, 0, nil): buf is a strict prefix of a valid frame — read more
//     bytes and call Decode again with the larger buffer.
//   - (nil, 0, err): buf will never become valid (FramingError) or the
//     frame parsed but violated operation-level constraints
//     (OperationError). The caller should close the connection.
func (c *Codec) Decode(buf []byte) (*Message, int, error) {
	if len(buf) == 0 {
		return nil, 0, nil
	}

	dec := ber.NewBERDecoder(buf)

	class, constructed, number, err := dec.ReadTag()
	if err != nil {
		return nil, 0, nil // truncated tag byte(s): need more data
	}
	if class != ber.ClassUniversal || constructed != ber.TypeConstructed || number != ber.TagSequence {
		return nil, 0, &FramingError{Offset: 0, Message: "expected SEQUENCE for LDAPMessage"}
	}

	lengthStart := dec.Offset()
	seqLength, err := dec.ReadLength()
	if err != nil {
		// A length whose bytes run past the end of buf (including a
		// long-form length cut off mid-way) may still be completed by more
		// input; any other length error is permanent.
		if errors.Is(err, ber.ErrUnexpectedEOF) {
			return nil, 0, nil
		}
		return nil, 0, &FramingError{Offset: lengthStart, Message: "invalid length encoding", Err: err}
	}

	frameEnd := dec.Offset() + seqLength
	if frameEnd > len(buf) {
		return nil, 0, nil // have the header, not the whole body yet
	}

	msg, err := decodeMessageBody(buf[dec.Offset():frameEnd], c.Strict, c.Logger)
	if err != nil {
		return nil, 0, err
	}

	return msg, frameEnd, nil
}

// decodeMessageBody decodes the SEQUENCE content (messageID, protocolOp,
// optional controls) once the framer has established the frame is
// complete.
func decodeMessageBody(content []byte, strict bool, logger *slog.Logger) (*Message, error) {
	dec := ber.NewBERDecoder(content)

	msgIDRaw, err := dec.ReadInteger()
	if err != nil {
		return nil, &FramingError{Offset: dec.Offset(), Message: "failed to read messageID", Err: err}
	}
	// Wire values outside int32 range are truncated by the i64->i32
	// cast rather than rejected, matching the source's ber_integer_to_i64
	// ... as i32 behavior: the library trusts peers here.
	msgID := int32(msgIDRaw)

	opOffset := dec.Offset()
	class, constructed, opTag, err := dec.ReadTag()
	if err != nil {
		return nil, &FramingError{Offset: opOffset, Message: "failed to read protocolOp tag", Err: err}
	}
	if class != ber.ClassApplication {
		return nil, &OperationError{Op: "protocolOp", Offset: opOffset, Message: "protocolOp must be APPLICATION-tagged"}
	}
	opLength, err := dec.ReadLength()
	if err != nil {
		return nil, &OperationError{Op: "protocolOp", Offset: dec.Offset(), Message: "failed to read protocolOp length", Err: err}
	}
	opStart := dec.Offset()
	opEnd := opStart + opLength
	if opEnd > len(content) {
		return nil, &OperationError{Op: "protocolOp", Offset: opStart, Message: "truncated protocolOp", Err: ber.ErrUnexpectedEOF}
	}
	_ = constructed

	op, err := decodeOperation(opTag, content[opStart:opEnd], strict)
	if err != nil {
		return nil, err
	}
	dec.SetOffset(opEnd)

	msg := &Message{
		MessageID: msgID,
		Operation: op,
	}

	if dec.Remaining() > 0 && dec.IsContextTag(tagControls) {
		controls, err := decodeControlsField(dec, logger)
		if err != nil {
			return nil, &OperationError{Op: "controls", Offset: dec.Offset(), Message: "failed to read controls", Err: err}
		}
		msg.Controls = controls
	}

	if dec.Remaining() > 0 {
		return nil, &FramingError{Offset: dec.Offset(), Message: "unexpected element after protocolOp and controls"}
	}

	return msg, nil
}

// decodeOperation dispatches on the APPLICATION tag id per the table in
// SPEC_FULL.md §4.C/D. strict controls the SearchRequest tolerances
// documented on Codec.Strict.
func decodeOperation(tag int, data []byte, strict bool) (Operation, error) {
	switch tag {
	case tagBindRequest:
		return decodeBindRequest(data)
	case tagBindResponse:
		return decodeBindResponse(data)
	case tagUnbindRequest:
		return UnbindRequest{}, nil
	case tagSearchRequest:
		return decodeSearchRequest(data, strict)
	case tagSearchResultEntry:
		return decodeSearchResultEntry(data)
	case tagSearchResultDone:
		r, err := decodeResult(ber.NewBERDecoder(data))
		if err != nil {
			return nil, &OperationError{Op: "SearchResultDone", Message: "failed to decode result", Err: err}
		}
		return SearchResultDone{Result: r}, nil
	case tagModifyRequest:
		return decodeModifyRequest(data)
	case tagModifyResponse:
		r, err := decodeResult(ber.NewBERDecoder(data))
		if err != nil {
			return nil, &OperationError{Op: "ModifyResponse", Message: "failed to decode result", Err: err}
		}
		return ModifyResponse{Result: r}, nil
	case tagAddRequest:
		return decodeAddRequest(data)
	case tagAddResponse:
		r, err := decodeResult(ber.NewBERDecoder(data))
		if err != nil {
			return nil, &OperationError{Op: "AddResponse", Message: "failed to decode result", Err: err}
		}
		return AddResponse{Result: r}, nil
	case tagDelRequest:
		return decodeDelRequest(data)
	case tagDelResponse:
		r, err := decodeResult(ber.NewBERDecoder(data))
		if err != nil {
			return nil, &OperationError{Op: "DelResponse", Message: "failed to decode result", Err: err}
		}
		return DelResponse{Result: r}, nil
	case tagAbandonRequest:
		return decodeAbandonRequest(data)
	case tagExtendedRequest:
		return decodeExtendedRequest(data)
	case tagExtendedResponse:
		return decodeExtendedResponse(data)
	case tagIntermediateResponse:
		return decodeIntermediateResponse(data)
	default:
		return nil, &OperationError{Op: "protocolOp", Message: "unknown operation tag"}
	}
}

// Encode renders msg to a complete, well-formed BER-encoded byte slice.
// It returns ErrInvalidMessageID when MessageID is outside
// MinMessageID..MaxMessageID, ErrMissingOperation when Operation is nil,
// and an *OperationError when an operation cannot be encoded (a
// SearchRequest without a Filter, a BindRequest whose Cred is not a
// SimpleCredential); any other error comes from the BER writer.
func (c *Codec) Encode(msg *Message) ([]byte, error) {
	if msg.MessageID < MinMessageID || msg.MessageID > MaxMessageID {
		return nil, ErrInvalidMessageID
	}
	if msg.Operation == nil {
		return nil, ErrMissingOperation
	}

	enc := ber.NewBEREncoder(256)
	seqPos := enc.BeginSequence()

	if err := enc.WriteInteger(int64(msg.MessageID)); err != nil {
		return nil, err
	}

	appPos := enc.WriteApplicationTag(msg.Operation.applicationTag(), msg.Operation.applicationConstructed())
	if err := msg.Operation.encodeBody(enc); err != nil {
		return nil, err
	}
	if err := enc.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	if len(msg.Controls) > 0 {
		if err := encodeControlsField(enc, msg.Controls); err != nil {
			return nil, err
		}
	}

	if err := enc.EndSequence(seqPos); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// decodeResult reads the common LDAPResult fields (resultCode, matchedDN,
// diagnosticMessage, optional [3] referral) from dec, per RFC 4511
// §4.1.9. Referral contents are intentionally discarded — see
// types.go's Result.Referral doc and SPEC_FULL.md §9.
func decodeResult(dec *ber.BERDecoder) (Result, error) {
	var r Result

	code, err := dec.ReadEnumerated()
	if err != nil {
		return r, err
	}
	if _, known := resultCodeNames[ResultCode(code)]; !known {
		return r, &OperationError{Op: "LDAPResult", Offset: dec.Offset(), Message: fmt.Sprintf("unknown result code %d", code), Err: ErrUnknownResultCode}
	}
	r.Code = ResultCode(code)

	matchedDN, err := dec.ReadOctetString()
	if err != nil {
		return r, err
	}
	r.MatchedDN = string(matchedDN)

	message, err := dec.ReadOctetString()
	if err != nil {
		return r, err
	}
	r.Message = string(message)

	if dec.Remaining() > 0 && dec.IsContextTag(3) {
		if err := dec.Skip(); err != nil {
			return r, err
		}
	}

	return r, nil
}

// encodeResult writes the common LDAPResult fields to enc.
func encodeResult(enc *ber.BEREncoder, r Result) error {
	if err := enc.WriteEnumerated(int64(r.Code)); err != nil {
		return err
	}
	if err := enc.WriteOctetString([]byte(r.MatchedDN)); err != nil {
		return err
	}
	if err := enc.WriteOctetString([]byte(r.Message)); err != nil {
		return err
	}
	if len(r.Referral) > 0 {
		pos := enc.WriteContextTag(3, true)
		for _, uri := range r.Referral {
			if err := enc.WriteOctetString([]byte(uri)); err != nil {
				return err
			}
		}
		if err := enc.EndContextTag(pos); err != nil {
			return err
		}
	}
	return nil
}
