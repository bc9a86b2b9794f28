// Package token issues and verifies the HS256 bearer tokens handed out at login.
//
// Tokens are stateless: nothing is persisted, and a token stays valid until its
// expiry instant.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	platformclock "github.com/Overland-East-Bay/traffic-manager-api/internal/platform/clock"
	clockport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/clock"
)

func init() {
	// exp and iat are encoded with millisecond fractions so a token issued
	// mid-second lives for its full TTL instead of being cut to the second.
	jwt.TimePrecision = time.Millisecond
}

// DefaultTTL is the lifetime of a token issued without an explicit TTL.
const DefaultTTL = 60 * time.Minute

var (
	// ErrUnauthorized is returned for every verification failure: bad signature,
	// malformed token, wrong algorithm, missing claims, or expiry.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMissingSecret is returned by New when no signing secret is configured.
	ErrMissingSecret = errors.New("token signing secret is empty")
)

// Claims is the verified content of a token.
type Claims struct {
	Subject   domain.NationalID
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// wireClaims is the JWT payload. The role travels as "type", the claim name the
// mobile client reads.
type wireClaims struct {
	Role string `json:"type"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a symmetric secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	clock  clockport.Clock
}

func New(secret string, ttl time.Duration) (*Service, error) {
	return NewWithOptions(secret, ttl, nil)
}

func NewWithOptions(secret string, ttl time.Duration, clock clockport.Clock) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = platformclock.NewSystemClock()
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
	}, nil
}

// TTL is the lifetime applied when Issue is called with ttl <= 0.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject and role that expires ttl from now.
// A non-positive ttl uses the service default.
func (s *Service) Issue(subject domain.NationalID, role domain.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.clock.Now()
	claims := wireClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(subject),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
// The token is valid only while now is strictly before its expiry.
func (s *Service) Verify(raw string) (Claims, error) {
	var wc wireClaims
	tok, err := jwt.ParseWithClaims(raw, &wc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrUnauthorized
	}
	if wc.Subject == "" || wc.ExpiresAt == nil {
		return Claims{}, ErrUnauthorized
	}

	out := Claims{
		Subject:   domain.NationalID(wc.Subject),
		Role:      domain.Role(wc.Role),
		ExpiresAt: wc.ExpiresAt.Time,
		ID:        wc.ID,
	}
	if wc.IssuedAt != nil {
		out.IssuedAt = wc.IssuedAt.Time
	}
	return out, nil
}
