package account

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/pkg/jwt"
)

const (
	activationCodeMin   = 1000
	activationCodeRange = 9000
)

// Issuer mints and verifies every token kind. It holds one codec per kind,
// each with its own secret and lifetime.
type Issuer struct {
	activation *jwt.Service
	access     *jwt.Service
	refresh    *jwt.Service
	reset      *jwt.Service
	clientURL  string
	now        func() time.Time
	newCode    func() (string, error)
}

type issuerOptions struct {
	now     func() time.Time
	newCode func() (string, error)
}

// IssuerOption configures an Issuer.
type IssuerOption func(*issuerOptions)

// WithClock sets the time source for issuing and verifying tokens.
func WithClock(now func() time.Time) IssuerOption {
	return func(o *issuerOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCodeGenerator replaces the activation code generator.
func WithCodeGenerator(fn func() (string, error)) IssuerOption {
	return func(o *issuerOptions) {
		if fn != nil {
			o.newCode = fn
		}
	}
}

// NewIssuer builds the four codecs from cfg.
func NewIssuer(cfg Config, opts ...IssuerOption) (*Issuer, error) {
	o := issuerOptions{now: time.Now, newCode: GenerateActivationCode}
	for _, opt := range opts {
		opt(&o)
	}

	codecOpts := []jwt.Option{jwt.WithClock(o.now), jwt.WithIssuer(cfg.TokenIssuer)}

	activation, err := jwt.NewFromString(cfg.ActivationSecret, cfg.ActivationTTL, codecOpts...)
	if err != nil {
		return nil, fmt.Errorf("activation token codec: %w", err)
	}
	access, err := jwt.NewFromString(cfg.AccessTokenSecret, cfg.AccessTTL, codecOpts...)
	if err != nil {
		return nil, fmt.Errorf("access token codec: %w", err)
	}
	refresh, err := jwt.NewFromString(cfg.RefreshTokenSecret, cfg.RefreshTTL, codecOpts...)
	if err != nil {
		return nil, fmt.Errorf("refresh token codec: %w", err)
	}
	reset, err := jwt.NewFromString(cfg.ForgotPasswordSecret, cfg.ResetTTL, codecOpts...)
	if err != nil {
		return nil, fmt.Errorf("reset token codec: %w", err)
	}

	return &Issuer{
		activation: activation,
		access:     access,
		refresh:    refresh,
		reset:      reset,
		clientURL:  strings.TrimRight(cfg.ClientURL, "/"),
		now:        o.now,
		newCode:    o.newCode,
	}, nil
}

// GenerateActivationCode returns a 4-digit code drawn uniformly from [1000, 9999].
func GenerateActivationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(activationCodeRange))
	if err != nil {
		return "", fmt.Errorf("failed to generate activation code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+activationCodeMin, 10), nil
}

// IssueActivation signs the pending user together with a fresh code.
func (i *Issuer) IssueActivation(pending PendingUser) (token, code string, err error) {
	code, err = i.newCode()
	if err != nil {
		return "", "", err
	}

	token, err = i.activation.Generate(&ActivationClaims{
		Kind:           KindActivation,
		User:           pending,
		ActivationCode: code,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to sign activation token: %w", err)
	}

	return token, code, nil
}

// VerifyActivation checks signature, expiry and kind of an activation token.
func (i *Issuer) VerifyActivation(token string) (*ActivationClaims, error) {
	var claims ActivationClaims
	if err := i.activation.Parse(token, &claims); err != nil {
		return nil, tokenError(err)
	}
	if claims.Kind != KindActivation {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// IssueSessionPair signs the user id twice, with the access and the refresh secret.
func (i *Issuer) IssueSessionPair(user *User) (SessionTokenPair, error) {
	access, err := i.IssueAccessToken(user.ID)
	if err != nil {
		return SessionTokenPair{}, err
	}

	refreshClaims := &SessionClaims{Kind: KindRefresh}
	refreshClaims.Subject = user.ID.String()
	refresh, err := i.refresh.Generate(refreshClaims)
	if err != nil {
		return SessionTokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return SessionTokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccessToken signs a new access token for userID.
func (i *Issuer) IssueAccessToken(userID uuid.UUID) (string, error) {
	claims := &SessionClaims{Kind: KindAccess}
	claims.Subject = userID.String()

	token, err := i.access.Generate(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// VerifyAccess returns the user id embedded in a valid access token.
func (i *Issuer) VerifyAccess(token string) (uuid.UUID, error) {
	return verifySession(i.access, token, KindAccess)
}

// VerifyRefresh returns the user id embedded in a valid refresh token.
func (i *Issuer) VerifyRefresh(token string) (uuid.UUID, error) {
	return verifySession(i.refresh, token, KindRefresh)
}

// IssueResetLink signs a reset token and embeds it in the client reset URL.
func (i *Issuer) IssueResetLink(user *User) (token, link string, err error) {
	claims := &ResetClaims{Kind: KindReset, Email: user.Email}
	claims.Subject = user.ID.String()

	token, err = i.reset.Generate(claims)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign reset token: %w", err)
	}

	link = i.clientURL + "/reset-password?token=" + url.QueryEscape(token)
	return token, link, nil
}

// VerifyReset reads "exp" before anything else so a stale link is always
// reported as expired, then verifies the signature with the reset secret.
func (i *Issuer) VerifyReset(token string) (*ResetClaims, error) {
	var unverified ResetClaims
	if err := jwt.ParseUnverified(token, &unverified); err != nil {
		return nil, ErrInvalidToken
	}
	if unverified.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	if !i.now().Before(unverified.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}

	var claims ResetClaims
	if err := i.reset.Parse(token, &claims); err != nil {
		return nil, tokenError(err)
	}
	if claims.Kind != KindReset {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// ResetTTL is how long a reset link stays usable.
func (i *Issuer) ResetTTL() time.Duration {
	return i.reset.TTL()
}

func verifySession(codec *jwt.Service, token string, kind TokenKind) (uuid.UUID, error) {
	var claims SessionClaims
	if err := codec.Parse(token, &claims); err != nil {
		return uuid.Nil, tokenError(err)
	}
	if claims.Kind != kind {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func tokenError(err error) error {
	if errors.Is(err, jwt.ErrExpiredToken) {
		return ErrExpiredToken
	}
	return ErrInvalidToken
}
