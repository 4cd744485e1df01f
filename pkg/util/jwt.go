package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("token is not a JWT")

// TokenExpiry reads the exp claim without verifying the signature; the
// backend that issued the token is the one that verifies it. ok is false when
// the token carries no exp claim.
func TokenExpiry(token string) (expiresAt time.Time, ok bool, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, ErrMalformedToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, ErrMalformedToken
	}
	if exp == nil {
		return time.Time{}, false, nil
	}
	return exp.Time, true, nil
}

// IsTokenExpired reports whether token is a JWT whose exp is not after now.
// Opaque tokens and tokens without exp are never considered expired.
func IsTokenExpired(token string, now time.Time) bool {
	expiresAt, ok, err := TokenExpiry(token)
	if err != nil || !ok {
		return false
	}
	return !now.Before(expiresAt)
}
