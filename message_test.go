package ldapwire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildBytes turns a sequence of decimal octet values and strings
// (concatenated as their ASCII bytes) into a single []byte, matching
// the "spaces are decimal octet separators" literal notation used by
// the seed scenarios.
func buildBytes(parts ...interface{}) []byte {
	var out []byte
	for _, p := range parts {
		switch v := p.(type) {
		case int:
			out = append(out, byte(v))
		case string:
			out = append(out, []byte(v)...)
		default:
			panic("buildBytes: unsupported part type")
		}
	}
	return out
}

func TestDecode_ModifyRequestFromRawBytes(t *testing.T) {
	data := buildBytes(
		0x30, 69, 0x02, 1, 2, 0x66, 64,
		0x04, 39, "uid=bjensen,ou=People,dc=example,dc=com",
		0x30, 21,
		0x30, 19,
		0x0A, 1, 2,
		0x30, 14,
		0x04, 2, "sn",
		0x31, 8,
		0x04, 6, "Morris",
	)

	codec := &Codec{}
	msg, n, err := codec.Decode(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NotNil(t, msg)

	require.Equal(t, int32(2), msg.MessageID)
	mr, ok := msg.Operation.(ModifyRequest)
	require.True(t, ok)
	require.Equal(t, "uid=bjensen,ou=People,dc=example,dc=com", mr.DN)
	require.Len(t, mr.Changes, 1)
	require.Equal(t, ModifyReplace, mr.Changes[0].Operation)
	require.Equal(t, "sn", mr.Changes[0].Modification.Type)
	require.Equal(t, [][]byte{[]byte("Morris")}, mr.Changes[0].Modification.Values)
}

func TestDecode_SyncReplErrorResult(t *testing.T) {
	data := buildBytes(
		0x30, 35, 0x02, 1, 2, 0x65, 30,
		0x0A, 2, 16, 0,
		0x04, 0,
		0x04, 22, "Invalid session cookie",
	)

	codec := &Codec{}
	msg, n, err := codec.Decode(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	done, ok := msg.Operation.(SearchResultDone)
	require.True(t, ok)
	require.Equal(t, ResultEsyncRefreshRequired, done.Result.Code)
	require.Equal(t, "", done.Result.MatchedDN)
	require.Equal(t, "Invalid session cookie", done.Result.Message)
}

func TestRoundTrip_SimpleBindEmptyCredentials(t *testing.T) {
	msg := &Message{
		MessageID: 1,
		Operation: BindRequest{DN: "", Cred: SimpleCredential{Password: ""}},
	}
	assertRoundTrips(t, msg)
}

func TestRoundTrip_UnbindLargeMessageID(t *testing.T) {
	msg := &Message{
		MessageID: 65536,
		Operation: UnbindRequest{},
	}
	assertRoundTrips(t, msg)
}

func TestRoundTrip_SearchRequestWithSyncRequestControl(t *testing.T) {
	msg := &Message{
		MessageID: 1,
		Operation: SearchRequest{
			BaseDN:     "dc=example,dc=com",
			Scope:      ScopeWholeSubtree,
			Aliases:    NeverDerefAliases,
			SizeLimit:  0,
			TimeLimit:  0,
			TypesOnly:  false,
			Filter:     FilterPresent{Attr: "objectClass"},
			Attributes: nil,
		},
		Controls: []Control{
			SyncRequestControl{Criticality: false, Mode: SyncRequestModeRefreshOnly},
		},
	}
	assertRoundTrips(t, msg)
}

// assertRoundTrips encodes msg, decodes the result, and asserts the
// decoded value equals msg and consumes every encoded byte.
func assertRoundTrips(t *testing.T, msg *Message) {
	t.Helper()
	codec := &Codec{}

	encoded, err := codec.Encode(msg)
	require.NoError(t, err)

	decoded, n, err := codec.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.Equal(t, msg, decoded)
}

func TestFramer_IncrementalSplit(t *testing.T) {
	msg := &Message{
		MessageID: 7,
		Operation: DelRequest{DN: "cn=foo,dc=example,dc=com"},
	}
	codec := &Codec{}
	encoded, err := codec.Encode(msg)
	require.NoError(t, err)
	require.True(t, len(encoded) > 4)

	split := len(encoded) / 2

	partial, n, err := codec.Decode(encoded[:split])
	require.NoError(t, err)
	require.Nil(t, partial)
	require.Equal(t, 0, n)

	full, n, err := codec.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.Equal(t, msg, full)
}

func TestFramer_FrameBoundaryConcatenation(t *testing.T) {
	msg1 := &Message{MessageID: 1, Operation: UnbindRequest{}}
	msg2 := &Message{MessageID: 2, Operation: AbandonRequest{MessageID: 1}}

	codec := &Codec{}
	e1, err := codec.Encode(msg1)
	require.NoError(t, err)
	e2, err := codec.Encode(msg2)
	require.NoError(t, err)

	buf := append(append([]byte{}, e1...), e2...)

	got1, n1, err := codec.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, len(e1), n1)
	require.Equal(t, msg1, got1)

	buf = buf[n1:]
	got2, n2, err := codec.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, len(e2), n2)
	require.Equal(t, msg2, got2)

	buf = buf[n2:]
	require.Len(t, buf, 0)
}

func TestDecode_NeedsMoreBytesOnEmptyBuffer(t *testing.T) {
	codec := &Codec{}
	msg, n, err := codec.Decode(nil)
	require.NoError(t, err)
	require.Nil(t, msg)
	require.Equal(t, 0, n)
}

func TestEncode_RejectsMissingOperation(t *testing.T) {
	codec := &Codec{}
	_, err := codec.Encode(&Message{MessageID: 1})
	require.ErrorIs(t, err, ErrMissingOperation)
}

func TestEncode_RejectsMessageIDOutOfRange(t *testing.T) {
	codec := &Codec{}
	_, err := codec.Encode(&Message{MessageID: -1, Operation: UnbindRequest{}})
	require.ErrorIs(t, err, ErrInvalidMessageID)
}
