// Package sessiontoken signs and verifies the value of the session cookie.
// The value is an HS256 JWT whose jti is the session ID and whose sub is the user ID.
package sessiontoken

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer creates and verifies session tokens with a shared secret.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner creates a Signer. issuer may be empty.
func NewSigner(secret, issuer string) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer}
}

// Sign returns a signed token that expires at expiresAt.
func (s *Signer) Sign(sessionID string, userID uint, expiresAt time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("session secret is empty")
	}
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm and expiry, and returns the session and user IDs.
func (s *Signer) Parse(tokenStr string) (string, uint, error) {
	claims := &jwt.RegisteredClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return "", 0, err
	}
	if !token.Valid {
		return "", 0, errors.New("invalid token")
	}

	if claims.ID == "" {
		return "", 0, errors.New("token has no session id")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return "", 0, errors.New("token has no valid subject")
	}
	return claims.ID, uint(userID), nil
}
