package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/pkg/logger"
)

// Authentication is the guard's verdict for one request.
// RefreshedAccessToken is set only when the access token was reissued from
// the refresh token; the transport must hand it back to the caller.
type Authentication struct {
	AuthContext
	RefreshedAccessToken string
}

// Refreshed reports whether a new access token was minted.
func (a *Authentication) Refreshed() bool {
	return a.RefreshedAccessToken != ""
}

// Guard authenticates protected calls from an access/refresh token pair.
type Guard struct {
	store   Storage
	issuer  *Issuer
	logger  *slog.Logger
	metrics *Metrics
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithGuardMetrics(m *Metrics) GuardOption {
	return func(g *Guard) {
		g.metrics = m
	}
}

// NewGuard creates a Guard resolving users from store.
func NewGuard(store Storage, issuer *Issuer, opts ...GuardOption) *Guard {
	g := &Guard{
		store:  store,
		issuer: issuer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate runs the per-request state machine:
//
//	missing token            -> ErrLoginRequired
//	access valid             -> user from access "sub"
//	access invalid, refresh invalid -> ErrInvalidRefreshToken
//	access invalid, refresh valid   -> user from refresh "sub", new access token
//
// The refresh token itself is never replaced.
func (g *Guard) Authenticate(ctx context.Context, accessToken, refreshToken string) (*Authentication, error) {
	if accessToken == "" || refreshToken == "" {
		g.metrics.guardDecision(GuardRejected)
		return nil, ErrLoginRequired
	}

	if userID, err := g.issuer.VerifyAccess(accessToken); err == nil {
		user, err := g.resolve(ctx, userID)
		if err != nil {
			g.metrics.guardDecision(GuardRejected)
			return nil, err
		}

		g.metrics.guardDecision(GuardAccessValid)
		return &Authentication{
			AuthContext: AuthContext{User: user, AccessToken: accessToken, RefreshToken: refreshToken},
		}, nil
	}

	userID, err := g.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		g.metrics.guardDecision(GuardRejected)
		return nil, ErrInvalidRefreshToken
	}

	user, err := g.resolve(ctx, userID)
	if err != nil {
		g.metrics.guardDecision(GuardRejected)
		return nil, err
	}

	newAccess, err := g.issuer.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	g.metrics.guardDecision(GuardRefreshed)
	g.logger.DebugContext(ctx, "access token reissued",
		logger.UserID(user.ID.String()),
		logger.Component("guard"),
	)

	return &Authentication{
		AuthContext:          AuthContext{User: user, AccessToken: newAccess, RefreshToken: refreshToken},
		RefreshedAccessToken: newAccess,
	}, nil
}

func (g *Guard) resolve(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := g.store.GetUserByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNoLongerExists
	}

	g.logger.ErrorContext(ctx, "failed to resolve user",
		logger.UserID(id.String()),
		logger.Error(err),
		logger.Component("guard"),
	)
	return nil, fmt.Errorf("failed to load user: %w", err)
}
