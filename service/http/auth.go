package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/flow-hydraulics/flow-mint/service/common"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

type contextKey int

const callerKey contextKey = iota

// Authenticator resolves the caller of a request from an HS256 bearer
// token whose subject is the caller's address.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{[]byte(secret)}
}

// Token issues a caller token for address. A zero ttl never expires.
func (a *Authenticator) Token(address common.FlowAddress, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  address.Hex(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) Caller(r *http.Request) (common.FlowAddress, error) {
	header := r.Header.Get("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if header == "" || raw == header {
		return common.EmptyAddress, fmt.Errorf("missing bearer token")
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return common.EmptyAddress, err
	}

	caller, err := common.ParseFlowAddress(claims.Subject)
	if err != nil {
		return common.EmptyAddress, err
	}
	if caller.IsEmpty() {
		return common.EmptyAddress, fmt.Errorf("empty caller address")
	}

	return caller, nil
}

// RequireCaller rejects requests without a valid caller token and puts the
// caller into the request context.
func RequireCaller(logger *log.Logger, auth *Authenticator, h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		caller, err := auth.Caller(r)
		if err != nil {
			if logger != nil {
				logger.WithError(err).Debug("Unauthenticated request")
			}
			http.Error(rw, "unauthenticated", http.StatusUnauthorized)
			return
		}
		h.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
	})
}

func callerFromContext(ctx context.Context) common.FlowAddress {
	caller, _ := ctx.Value(callerKey).(common.FlowAddress)
	return caller
}
