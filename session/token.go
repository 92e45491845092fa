package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL bounds the lifetime of host session tokens.
const DefaultTokenTTL = 24 * time.Hour

// TokenCodec signs and verifies host session tokens. A token carries only the
// host id; the session credentials stay in the backend.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// hostClaims is the claim set of a host session token.
type hostClaims struct {
	HostID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewTokenCodec creates a codec signing with secret (HS256).
func NewTokenCodec(secret []byte, issuer string, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("%w: token secret must be at least 16 bytes", ErrInvalidConfig)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for hostID.
func (c *TokenCodec) Issue(hostID string) (string, error) {
	now := c.now()
	claims := hostClaims{
		HostID: hostID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies token and returns the host id it carries.
func (c *TokenCodec) Parse(token string) (string, error) {
	var claims hostClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: expired", ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.HostID == "" {
		return "", ErrInvalidToken
	}
	return claims.HostID, nil
}
