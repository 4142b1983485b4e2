package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/accountkit/handler"
	"github.com/dmitrymomot/accountkit/pkg/binder"
	"github.com/dmitrymomot/accountkit/pkg/clientip"
	"github.com/dmitrymomot/accountkit/pkg/ratelimiter"
	accountsvc "github.com/dmitrymomot/accountkit/svc/account"
)

const defaultMaxBodyBytes = 64 << 10

// Module serves the account flows as JSON endpoints.
type Module struct {
	svc          *accountsvc.Service
	guard        *accountsvc.Guard
	cfg          accountsvc.Config
	log          *slog.Logger
	limiter      ratelimiter.Limiter
	limitKey     ratelimiter.KeyFunc
	maxBodyBytes int64
	errorHandler handler.ErrorHandler[handler.Context]
}

type Option func(*Module)

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

// WithRateLimiter throttles register, login and forgot-password per key.
// A nil key function keys on the client IP.
func WithRateLimiter(l ratelimiter.Limiter, key ratelimiter.KeyFunc) Option {
	return func(m *Module) {
		m.limiter = l
		if key != nil {
			m.limitKey = key
		}
	}
}

// WithMaxBodyBytes caps JSON request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(m *Module) {
		if n > 0 {
			m.maxBodyBytes = n
		}
	}
}

// New builds the module. cfg supplies the guard header names.
func New(svc *accountsvc.Service, guard *accountsvc.Guard, cfg accountsvc.Config, opts ...Option) *Module {
	m := &Module{
		svc:          svc,
		guard:        guard,
		cfg:          cfg,
		log:          slog.Default(),
		limitKey:     clientip.Key,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cfg.AccessTokenHeader == "" {
		m.cfg.AccessTokenHeader = "accesstoken"
	}
	if m.cfg.RefreshTokenHeader == "" {
		m.cfg.RefreshTokenHeader = "refreshtoken"
	}
	m.errorHandler = handler.JSONErrorHandler[handler.Context](m.log, MapError)
	return m
}

// Router returns the account routes, meant to be mounted at /account.
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()

	r.With(m.throttle("register")).Post("/register", wrapJSON(m, m.register))
	r.Post("/activate", wrapJSON(m, m.activate))
	r.With(m.throttle("login")).Post("/login", wrapJSON(m, m.login))
	r.With(m.throttle("forgot-password")).Post("/forgot-password", wrapJSON(m, m.forgotPassword))
	r.Post("/reset-password", wrapJSON(m, m.resetPassword))

	r.Group(func(r chi.Router) {
		r.Use(m.RequireAuth)
		r.Get("/me", wrap(m, m.me))
		r.Post("/logout", wrap(m, m.logout))
		r.Get("/users", wrap(m, m.users))
	})

	return r
}

func (m *Module) throttle(route string) func(http.Handler) http.Handler {
	if m.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimiter.Middleware(m.limiter,
		ratelimiter.Prefix(route, m.limitKey),
		ratelimiter.WithErrorHandler(m.rateLimited),
	)
}

// wrapJSON binds a JSON body into R before calling h.
func wrapJSON[R any](m *Module, h handler.HandlerFunc[handler.Context, R]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binder.JSONWithLimit(m.maxBodyBytes)),
		handler.WithErrorHandler[handler.Context, R](m.errorHandler),
	)
}

func wrap(m *Module, h handler.HandlerFunc[handler.Context, struct{}]) http.HandlerFunc {
	return handler.Wrap(h, handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler))
}
