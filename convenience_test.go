package ldapwire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordModify_RoundTripThroughExtendedRequest(t *testing.T) {
	req := NewPasswordModifyRequest("william", "abcd", "dcba")

	ext, err := req.ToExtendedRequest()
	require.NoError(t, err)
	require.Equal(t, passwordModifyOID, ext.Name)

	decoded, err := DecodePasswordModifyRequest(ext)
	require.NoError(t, err)
	require.Equal(t, req, decoded)
}

func TestPasswordModify_RoundTripThroughCodec(t *testing.T) {
	req := NewPasswordModifyRequest("william", "abcd", "dcba")
	ext, err := req.ToExtendedRequest()
	require.NoError(t, err)

	msg := &Message{MessageID: 3, Operation: ext}
	assertRoundTrips(t, msg)
}

func TestPasswordModify_ServerGeneratedPasswordResponse(t *testing.T) {
	resp := NewPasswordModifyResponse("n3wP@ss")
	ext, err := resp.ToExtendedResponse(NewSuccess(""))
	require.NoError(t, err)

	decoded, err := DecodePasswordModifyResponse(ext)
	require.NoError(t, err)
	require.Equal(t, resp, decoded)
}

func TestPasswordModify_NoFieldsOmitsValue(t *testing.T) {
	req := NewPasswordModifyRequest("", "", "")
	ext, err := req.ToExtendedRequest()
	require.NoError(t, err)
	require.Empty(t, ext.Value)

	decoded, err := DecodePasswordModifyRequest(ext)
	require.NoError(t, err)
	require.Equal(t, req, decoded)
}

func TestWhoAmI_RequestHasNoValue(t *testing.T) {
	req := NewWhoAmIRequest()
	require.Equal(t, whoAmIOID, req.Name)
	require.Nil(t, req.Value)
}

func TestWhoAmI_DecodeResponseReturnsAuthzID(t *testing.T) {
	resp := ExtendedResponse{
		Result: NewSuccess(""),
		Value:  []byte("dn:uid=william,dc=example,dc=com"),
	}
	authzID, err := DecodeWhoAmIResponse(resp)
	require.NoError(t, err)
	require.Equal(t, "dn:uid=william,dc=example,dc=com", authzID)
}

func TestWhoAmI_DecodeResponseFailsOnUnsuccessfulResult(t *testing.T) {
	resp := ExtendedResponse{Result: NewOperationsError("nope")}
	_, err := DecodeWhoAmIResponse(resp)
	require.Error(t, err)
}

func TestResultBuilders(t *testing.T) {
	require.Equal(t, Result{Code: ResultSuccess, Message: "ok"}, NewSuccess("ok"))
	require.Equal(t, Result{Code: ResultInvalidCredentials, MatchedDN: "dc=example,dc=com", Message: "bad"}, NewInvalidCredentials("dc=example,dc=com", "bad"))
	require.Equal(t, Result{Code: ResultNoSuchObject, MatchedDN: "dc=example,dc=com", Message: "gone"}, NewNoSuchObject("dc=example,dc=com", "gone"))
	require.Equal(t, Result{Code: ResultOperationsError, Message: "oops"}, NewOperationsError("oops"))
	require.Equal(t, Result{Code: ResultProtocolError, Message: "bad framing"}, NewProtocolError("bad framing"))
}
