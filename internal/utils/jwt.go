package utils // package utils provides helper functions for session token creation

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed JWT session along with its expiry.  The
// Token field contains the JWT string; Exp stores the expiration timestamp.
// Sessions are minted after a successful Google sign-in exchange and are
// encoded in the Authorization header on protected endpoints.  There is no
// refresh flow: when the session lapses the client simply signs in with
// Google again.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the backend user id, the user's email and name, and a TTL
// in minutes.  The claims are: subject (sub, backend user id), email, name,
// expiration (exp) and issued at (iat).  The email claim is what ties a
// session to its persisted draft and its registration status.
func NewSessionToken(secret string, userID uint64, email, name string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"name":  name,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
