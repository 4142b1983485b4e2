package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod is the only algorithm accepted by Service.
var SigningMethod = gojwt.SigningMethodHS256

// Claims is implemented by every payload the Service can sign.
// Embed StandardClaims to satisfy it.
type Claims interface {
	gojwt.Claims
	Standard() *gojwt.RegisteredClaims
}

// StandardClaims wraps the RFC 7519 registered claims.
type StandardClaims struct {
	gojwt.RegisteredClaims
}

// Standard exposes the registered claims so the Service can stamp them.
func (c *StandardClaims) Standard() *gojwt.RegisteredClaims {
	return &c.RegisteredClaims
}

// Service signs and verifies HS256 tokens of one kind.
// Each token kind gets its own Service with its own key and lifetime.
type Service struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer sets the "iss" claim on generated tokens and requires it on parse.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service signing with key and stamping tokens valid for ttl.
func New(signingKey []byte, ttl time.Duration, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	s := &Service{
		signingKey: signingKey,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// NewFromString is New for string keys loaded from configuration.
func NewFromString(signingKey string, ttl time.Duration, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), ttl, opts...)
}

// TTL returns the lifetime applied to generated tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Generate stamps iat, exp and jti on claims and returns the signed token.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	now := s.now()
	std := claims.Standard()
	std.IssuedAt = gojwt.NewNumericDate(now)
	std.ExpiresAt = gojwt.NewNumericDate(now.Add(s.ttl))
	if std.ID == "" {
		std.ID = uuid.NewString()
	}
	if s.issuer != "" {
		std.Issuer = s.issuer
	}

	token, err := gojwt.NewWithClaims(SigningMethod, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("jwt: failed to sign token: %w", err)
	}

	return token, nil
}

// Parse verifies the signature of token, then its temporal claims, and
// decodes the payload into claims.
// A token with a valid signature past its exp yields ErrExpiredToken.
func (s *Service) Parse(token string, claims Claims) error {
	if token == "" {
		return ErrMissingToken
	}
	if claims == nil {
		return ErrMissingClaims
	}

	opts := []gojwt.ParserOption{
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	_, err := gojwt.NewParser(opts...).ParseWithClaims(token, claims, s.keyFunc)
	return mapError(err)
}

// ParseUnverified decodes token into claims without checking the signature
// or any claim. Never trust the result without a subsequent Parse.
func ParseUnverified(token string, claims Claims) error {
	if token == "" {
		return ErrMissingToken
	}
	if claims == nil {
		return ErrMissingClaims
	}

	if _, _, err := gojwt.NewParser().ParseUnverified(token, claims); err != nil {
		return errors.Join(ErrInvalidToken, err)
	}

	return nil
}

func (s *Service) keyFunc(t *gojwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != SigningMethod.Alg() {
		return nil, ErrUnexpectedSigningMethod
	}
	return s.signingKey, nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnexpectedSigningMethod):
		return ErrUnexpectedSigningMethod
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, gojwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
