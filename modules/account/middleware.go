package account

import (
	"net/http"

	"github.com/dmitrymomot/accountkit/handler"
	"github.com/dmitrymomot/accountkit/pkg/jwt"
	"github.com/dmitrymomot/accountkit/pkg/ratelimiter"
	accountsvc "github.com/dmitrymomot/accountkit/svc/account"
)

// RequireAuth runs the guard on every request. On success the AuthContext
// is stored in the request context, and a reissued access token is sent
// back in the access token header.
func (m *Module) RequireAuth(next http.Handler) http.Handler {
	accessHeader := m.cfg.AccessTokenHeader
	// Authorization: Bearer is accepted when the access header is absent.
	extractAccess := jwt.FirstOf(jwt.HeaderTokenExtractor(accessHeader), jwt.BearerTokenExtractor)
	extractRefresh := jwt.HeaderTokenExtractor(m.cfg.RefreshTokenHeader)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, _ := extractAccess(r)
		refresh, _ := extractRefresh(r)

		auth, err := m.guard.Authenticate(r.Context(), access, refresh)
		if err != nil {
			m.errorHandler(handler.NewContext(w, r), err)
			return
		}

		if auth.Refreshed() {
			w.Header().Set(accessHeader, auth.RefreshedAccessToken)
		}
		next.ServeHTTP(w, r.WithContext(accountsvc.WithAuthContext(r.Context(), &auth.AuthContext)))
	})
}

func (m *Module) rateLimited(w http.ResponseWriter, r *http.Request, res *ratelimiter.Result, err error) {
	if res == nil {
		m.errorHandler(handler.NewContext(w, r), err)
		return
	}
	m.errorHandler(handler.NewContext(w, r), errRateLimited)
}
