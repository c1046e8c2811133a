// Package auth verifies the optional bearer token sent by the mobile client.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken    = errors.New("missing bearer token")
	ErrSubjectMismatch = errors.New("token subject does not match user")
)

// Verifier checks HS256 access tokens. A Verifier with an empty secret is
// disabled and accepts every request.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Enabled reports whether tokens are checked.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// VerifyRequest extracts the bearer token from r and checks it belongs to userID.
func (v *Verifier) VerifyRequest(r *http.Request, userID string) error {
	if !v.Enabled() {
		return nil
	}
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return ErrMissingToken
	}
	return v.Verify(token, userID)
}

// Verify parses tokenStr and requires its sub claim to equal userID.
func (v *Verifier) Verify(tokenStr, userID string) error {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("parsing access token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid access token claims")
	}
	if claims.Subject == "" || claims.Subject != userID {
		return ErrSubjectMismatch
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
