package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/collection", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestAuthenticatorRoundTrip(t *testing.T) {
	auth := NewAuthenticator("secret")
	addr := common.FlowAddressFromString("0x1cf0e2f2f715450")

	token, err := auth.Token(addr, time.Minute)
	require.NoError(t, err)

	caller, err := auth.Caller(requestWithToken(token))
	require.NoError(t, err)
	assert.Equal(t, addr, caller)
}

func TestAuthenticatorRejects(t *testing.T) {
	auth := NewAuthenticator("secret")
	addr := common.FlowAddressFromString("0x1")

	_, err := auth.Caller(requestWithToken(""))
	assert.Error(t, err, "missing token")

	r := requestWithToken("")
	r.Header.Set("Authorization", "Basic abc")
	_, err = auth.Caller(r)
	assert.Error(t, err, "not a bearer token")

	other, err := NewAuthenticator("other").Token(addr, 0)
	require.NoError(t, err)
	_, err = auth.Caller(requestWithToken(other))
	assert.Error(t, err, "wrong secret")

	claims := jwt.RegisteredClaims{
		Subject:   addr.Hex(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = auth.Caller(requestWithToken(expired))
	assert.Error(t, err, "expired")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: addr.Hex()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.Caller(requestWithToken(none))
	assert.Error(t, err, "unsigned")

	empty, err := auth.Token(common.EmptyAddress, 0)
	require.NoError(t, err)
	_, err = auth.Caller(requestWithToken(empty))
	assert.Error(t, err, "empty address")
}

func TestRequireCaller(t *testing.T) {
	auth := NewAuthenticator("secret")
	addr := common.FlowAddressFromString("0x3")

	var got common.FlowAddress
	h := RequireCaller(nil, auth, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		got = callerFromContext(r.Context())
		rw.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, requestWithToken(""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := auth.Token(addr, 0)
	require.NoError(t, err)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, requestWithToken(token))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, addr, got)
}
