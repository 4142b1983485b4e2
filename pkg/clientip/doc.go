// Package clientip resolves the originating client address of a request.
//
// GetIP consults CF-Connecting-IP, DO-Connecting-IP, X-Forwarded-For (first
// valid entry) and X-Real-IP before RemoteAddr. These headers are client
// controlled unless a proxy rewrites them, so Middleware only honours them
// when trustProxy is set. The resolved address is stored in the request
// context, where Key exposes it to the rate limiter and LoggerExtractor adds
// it to log records.
package clientip
