package http

import (
	"net/http"
	"testing"

	"mediagate/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStream_OwnerGetsToken(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedResource(t, "res_movie", "alice", false)
	auth := map[string]string{"Authorization": f.bearer(t, "alice")}

	rec := f.do(t, http.MethodGet, "/api/v1/resources/res_movie/stream", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	token := decodeBody(t, rec)["stream_token"].(string)
	require.NotEmpty(t, token)

	// A valid token passes segment checks untouched.
	rec = f.do(t, http.MethodGet, "/api/v1/resources/res_movie/stream/segments/0?token="+token, nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, token, body["stream_token"])
	assert.Equal(t, float64(0), body["segment"])
}

func TestStartStream_AnonymousDeniedOnPrivate(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedResource(t, "res_hidden", "alice", false)

	rec := f.do(t, http.MethodGet, "/api/v1/resources/res_hidden/stream", nil, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(domain.DenyNoCredentials), decodeBody(t, rec)["reason"])
}

func TestFetchSegment_RejectsBadSequence(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedResource(t, "res_seq", "alice", true)

	for _, seq := range []string{"abc", "-1"} {
		rec := f.do(t, http.MethodGet, "/api/v1/resources/res_seq/stream/segments/"+seq, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "seq %q", seq)
	}
}

func TestFetchSegment_MissingTokenReissues(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedResource(t, "res_open", "alice", true)

	rec := f.do(t, http.MethodGet, "/api/v1/resources/res_open/stream/segments/3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["stream_token"])
}

func TestFetchSegment_RevokedCodeEndsStream(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedResource(t, "res_live", "alice", false)
	f.seedCode(t, "viewercode", domain.CodeScope{Kind: domain.ScopeResource, ResourceID: "res_live"}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/resources/res_live/stream?code=viewercode", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["stream_token"].(string)

	// Creator pulls the code mid-stream.
	rec = f.do(t, http.MethodDelete, "/api/v1/codes/viewercode", nil, map[string]string{
		"Authorization": f.bearer(t, "alice"),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The outstanding token no longer clears segment checks.
	rec = f.do(t, http.MethodGet, "/api/v1/resources/res_live/stream/segments/4?code=viewercode&token="+token, nil, nil)
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, string(domain.DenyCodeRevoked), decodeBody(t, rec)["reason"])
}

func TestFetchSegment_TokenBoundToResource(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedResource(t, "res_a", "alice", true)
	f.seedResource(t, "res_b", "alice", true)

	rec := f.do(t, http.MethodGet, "/api/v1/resources/res_a/stream", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tokenA := decodeBody(t, rec)["stream_token"].(string)

	// Presenting res_a's token on res_b falls back to a fresh check and
	// a fresh token; the stale one is not echoed back.
	rec = f.do(t, http.MethodGet, "/api/v1/resources/res_b/stream/segments/0?token="+tokenA, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, tokenA, decodeBody(t, rec)["stream_token"])
}
