package ldapwire

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func encodeDecodeIntermediate(t *testing.T, r IntermediateResponse) IntermediateResponse {
	t.Helper()
	msg := &Message{MessageID: 1, Operation: r}
	codec := &Codec{}

	encoded, err := codec.Encode(msg)
	require.NoError(t, err)

	decoded, n, err := codec.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)

	ir, ok := decoded.Operation.(IntermediateResponse)
	require.True(t, ok)
	return ir
}

func TestIntermediateResponse_SyncInfoNewCookieRoundTrip(t *testing.T) {
	in := IntermediateResponse{SyncInfo: SyncInfoNewCookie{Cookie: []byte("cookie-1")}}
	out := encodeDecodeIntermediate(t, in)

	require.NotNil(t, out.Name)
	require.Equal(t, syncInfoOID, *out.Name)
	require.Equal(t, SyncInfoNewCookie{Cookie: []byte("cookie-1")}, out.SyncInfo)
}

func TestIntermediateResponse_SyncInfoRefreshDeleteDefaultsDoneTrue(t *testing.T) {
	in := IntermediateResponse{SyncInfo: SyncInfoRefreshDelete{Cookie: []byte("c"), Done: true}}
	out := encodeDecodeIntermediate(t, in)
	require.Equal(t, SyncInfoRefreshDelete{Cookie: []byte("c"), Done: true}, out.SyncInfo)
}

func TestIntermediateResponse_SyncInfoRefreshPresentDoneFalse(t *testing.T) {
	in := IntermediateResponse{SyncInfo: SyncInfoRefreshPresent{Cookie: []byte("c"), Done: false}}
	out := encodeDecodeIntermediate(t, in)
	require.Equal(t, SyncInfoRefreshPresent{Cookie: []byte("c"), Done: false}, out.SyncInfo)
}

func TestIntermediateResponse_SyncInfoIdSetRoundTrip(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	in := IntermediateResponse{SyncInfo: SyncInfoIdSet{
		Cookie:         []byte("c"),
		RefreshDeletes: true,
		SyncUUIDs:      []uuid.UUID{id1, id2},
	}}
	out := encodeDecodeIntermediate(t, in)
	require.Equal(t, SyncInfoIdSet{
		Cookie:         []byte("c"),
		RefreshDeletes: true,
		SyncUUIDs:      []uuid.UUID{id1, id2},
	}, out.SyncInfo)
}

func TestIntermediateResponse_NonSyncPayloadRoundTrip(t *testing.T) {
	name := "1.2.3.4.5"
	msg := &Message{
		MessageID: 1,
		Operation: IntermediateResponse{Name: &name, Value: []byte("opaque")},
	}
	assertRoundTrips(t, msg)
}
