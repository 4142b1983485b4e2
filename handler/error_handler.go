package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/accountkit/pkg/logger"
	"github.com/dmitrymomot/accountkit/pkg/requestid"
	"github.com/dmitrymomot/accountkit/pkg/sanitizer"
)

// maxLoggedPath caps the request path recorded with failed requests.
const maxLoggedPath = 256

// ErrorMapper translates a domain error into an HTTPError. It reports false
// for errors it does not recognise.
type ErrorMapper func(err error) (HTTPError, bool)

// JSONErrorHandler renders errors as JSON after passing them through the
// mappers in order. Client errors are logged at warn, the rest at error.
func JSONErrorHandler[C Context](log *slog.Logger, mappers ...ErrorMapper) ErrorHandler[C] {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx C, err error) {
		mapped := err
		for _, m := range mappers {
			if httpErr, ok := m(err); ok {
				mapped = httpErr.Wrap(err)
				break
			}
		}

		resp := JSONError(mapped)
		status := StatusOf(mapped)
		logError(ctx, log, status, err)

		if rerr := resp.Render(ctx.ResponseWriter(), ctx.Request()); rerr != nil {
			log.ErrorContext(ctx, "failed to write error response", logger.Error(rerr))
		}
	}
}

func logError(ctx Context, log *slog.Logger, status int, err error) {
	r := ctx.Request()
	attrs := []any{
		slog.Int("status", status),
		slog.String("method", r.Method),
		slog.String("path", sanitizer.LimitLength(r.URL.Path, maxLoggedPath)),
		logger.Error(err),
	}
	if id := requestid.FromContext(ctx); id != "" {
		attrs = append(attrs, logger.RequestID(id))
	}

	if status >= http.StatusInternalServerError {
		log.ErrorContext(ctx, "request failed", attrs...)
		return
	}
	log.WarnContext(ctx, "request rejected", attrs...)
}
