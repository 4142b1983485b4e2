package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/accountkit/handler"
	accountsvc "github.com/dmitrymomot/accountkit/svc/account"
)

var errRateLimited = handler.NewHTTPError(http.StatusTooManyRequests, "rate_limited", "Too many requests, please try again later")

// MapError assigns a status to each account error class. The message is
// the account error text, which is written for end users.
func MapError(err error) (handler.HTTPError, bool) {
	var (
		status int
		key    string
	)
	switch {
	case errors.Is(err, accountsvc.ErrConflict):
		status, key = http.StatusConflict, "conflict"
	case errors.Is(err, accountsvc.ErrUnauthorized):
		status, key = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, accountsvc.ErrNotFound):
		status, key = http.StatusNotFound, "not_found"
	case errors.Is(err, accountsvc.ErrExpiredToken):
		status, key = http.StatusBadRequest, "token_expired"
	case errors.Is(err, accountsvc.ErrInvalidToken):
		status, key = http.StatusBadRequest, "invalid_token"
	case errors.Is(err, accountsvc.ErrInvalidCode):
		status, key = http.StatusBadRequest, "invalid_code"
	default:
		return handler.HTTPError{}, false
	}
	return handler.NewHTTPError(status, key, err.Error()), true
}
