package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellsheli/pobboard/internal/auth"
)

const secret = "test-secret"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func doRequest(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	h := auth.RequireToken(secret)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/trips", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireToken_ValidToken(t *testing.T) {
	token, err := auth.IssueServiceToken(secret, "pob-board", time.Hour)
	require.NoError(t, err)

	rec := doRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireToken_MissingHeader(t *testing.T) {
	rec := doRequest(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestRequireToken_NotBearer(t *testing.T) {
	rec := doRequest(t, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireToken_Garbage(t *testing.T) {
	rec := doRequest(t, "Bearer not.a.jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireToken_WrongSecret(t *testing.T) {
	token, err := auth.IssueServiceToken("some-other-secret", "pob-board", time.Hour)
	require.NoError(t, err)

	rec := doRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireToken_ExpiredToken(t *testing.T) {
	token, err := auth.IssueServiceToken(secret, "pob-board", -time.Minute)
	require.NoError(t, err)

	rec := doRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A token signed with alg "none" must be rejected even though its
// claims are well formed — only the HMAC family is accepted.
func TestRequireToken_NoneAlgorithmRejected(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "pob-board",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	rec := doRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIssueServiceToken_CarriesSubject(t *testing.T) {
	token, err := auth.IssueServiceToken(secret, "pob-board", time.Hour)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte(secret), nil })
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "pob-board", sub)
}
