package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySubject is returned when a token carries no "sub" claim.
var ErrEmptySubject = errors.New("token subject is empty")

// Token wraps a JWT with the claims this service relies on.
//
// The "sub" claim is the opaque identifier of the user that owns the
// devices and sync states addressed by the request.
type Token struct {
	*jwt.Token `json:"-"`
	jwt.RegisteredClaims

	// SignedString is the compact JWS form of the token.
	SignedString string `json:"-"`

	// UserID caches the subject after parsing.
	UserID string `json:"-"`
}

// GetUserID returns the token subject.
func (t *Token) GetUserID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting UserID from token: %w", err)
	}
	if sub == "" {
		return "", ErrEmptySubject
	}
	return sub, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
