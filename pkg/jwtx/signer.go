package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeySize is the minimum accepted HMAC key length in bytes. Anything
// shorter than the hash output weakens the scheme below its design strength.
const MinKeySize = 32

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Validate() error
}

// HS256Signer implements the Signer interface using HMAC-SHA256 with a
// shared symmetric key.
type HS256Signer struct {
	kid string
	key []byte
	alg string
}

// NewSignerHS256 creates an HS256 signer from raw key bytes.
func NewSignerHS256(kid string, key []byte) (*HS256Signer, error) {
	if len(key) < MinKeySize {
		return nil, errors.New("jwtx: HS256 key must be at least 32 bytes")
	}
	return &HS256Signer{
		kid: kid,
		key: key,
		alg: jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }
func (s *HS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// Validate does a quick sanity check to make sure we actually have a key.
func (s *HS256Signer) Validate() error {
	if len(s.key) < MinKeySize {
		return errors.New("jwtx: HS256 key too short")
	}
	return nil
}
