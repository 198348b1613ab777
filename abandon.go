package ldapwire

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// AbandonRequest is RFC 4511 §4.11's AbandonRequest: a primitive-encoded
// APPLICATION 16 INTEGER naming the MessageID to abandon.
type AbandonRequest struct {
	MessageID int32
}

func (AbandonRequest) applicationTag() int          { return tagAbandonRequest }
func (AbandonRequest) applicationConstructed() bool { return false }

func (r AbandonRequest) encodeBody(enc *ber.BEREncoder) error {
	enc.WriteRaw(encodeRawInteger(int64(r.MessageID)))
	return nil
}

func decodeAbandonRequest(data []byte) (Operation, error) {
	// Wire values outside int32 range are truncated rather than rejected,
	// matching decodeMessageBody's handling of the same MessageID type.
	n := decodeRawInteger(data)
	return AbandonRequest{MessageID: int32(n)}, nil
}

// encodeRawInteger renders v as a minimal two's-complement big-endian
// byte sequence, matching what BEREncoder.WriteInteger would emit as
// the content of an INTEGER — used here because AbandonRequest's
// content is a bare INTEGER value with no universal tag/length of its
// own (the APPLICATION tag already supplies that framing).
func encodeRawInteger(v int64) []byte {
	if v == 0 {
		return []byte{0x00}
	}

	var b []byte
	neg := v < 0
	for {
		b = append([]byte{byte(v)}, b...)
		v >>= 8
		if neg {
			if v == -1 && b[0]&0x80 != 0 {
				break
			}
		} else {
			if v == 0 && b[0]&0x80 == 0 {
				break
			}
		}
	}
	return b
}

// decodeRawInteger parses a minimal two's-complement big-endian byte
// sequence as produced by encodeRawInteger.
func decodeRawInteger(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	var result int64
	if data[0]&0x80 != 0 {
		result = -1
	}
	for _, b := range data {
		result = (result << 8) | int64(b)
	}
	return result
}
