package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/internal/errors"
	"github.com/rs/zerolog/log"
)

// DefaultSessionDuration is the lifetime of an admin session token when
// none is configured.
const DefaultSessionDuration = time.Hour

// SessionClaims are the claims carried by an admin session token.
type SessionClaims struct {
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Remaining returns how long the session has left at the given time.
func (c SessionClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// SessionConfig is the immutable configuration of a SessionService.
type SessionConfig struct {
	Secret   []byte
	Duration time.Duration
}

// SessionService issues and verifies stateless admin session tokens. The
// only state is the signing secret, so a single service can verify any
// number of requests concurrently.
type SessionService struct {
	signer   Signer
	duration time.Duration
	nowFunc  func() time.Time
	parser   *jwt.Parser
}

type SessionOption func(*SessionService)

// WithNowFunc overrides the clock used for issuing and verifying tokens.
func WithNowFunc(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		s.nowFunc = now
	}
}

// NewSessionService returns an error if no secret is configured.
func NewSessionService(cfg SessionConfig, opts ...SessionOption) (*SessionService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.ErrMissingSecret
	}

	s := &SessionService{
		signer:   NewHMACSigner(cfg.Secret),
		duration: cfg.Duration,
		nowFunc:  time.Now,
	}
	if s.duration <= 0 {
		s.duration = DefaultSessionDuration
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{s.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.nowFunc),
	)
	return s, nil
}

// Duration is the configured session lifetime.
func (s *SessionService) Duration() time.Duration {
	return s.duration
}

// Now returns the service clock's current time.
func (s *SessionService) Now() time.Time {
	return s.nowFunc()
}

// Issue creates a signed admin token valid for the given duration. A
// non-positive duration uses the configured lifetime.
func (s *SessionService) Issue(duration time.Duration) (string, error) {
	if duration <= 0 {
		duration = s.duration
	}
	now := s.nowFunc()
	claims := SessionClaims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	signed, err := s.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("issuing session token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry. Any failure, whether the
// token is empty, malformed, signed with another key or algorithm, or
// expired, yields the same false result with zero claims.
func (s *SessionService) Verify(raw string) (SessionClaims, bool) {
	if raw == "" {
		return SessionClaims{}, false
	}

	claims := &SessionClaims{}
	tok, err := s.parser.ParseWithClaims(raw, claims, s.signer.GetVerificationKey)
	if err != nil || !tok.Valid || !claims.IsAdmin {
		log.Debug().Err(err).Msg("Session token rejected")
		return SessionClaims{}, false
	}
	return *claims, true
}
