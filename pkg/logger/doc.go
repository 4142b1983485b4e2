// Package logger builds *slog.Logger instances for the account service.
//
// New applies functional options (format, level, static attributes) and wraps
// the resulting handler in LogHandlerDecorator, which appends attributes pulled
// from the context of every record. Request ids travel this way without being
// passed to each call site.
//
// Attribute helpers in attr.go keep key names consistent. Email masks the
// address before it reaches the output, and Error/Errors return an empty
// attribute for nil errors so callers can log unconditionally:
//
//	log.InfoContext(ctx, "user activated",
//	    logger.UserID(user.ID),
//	    logger.Email(user.Email),
//	)
package logger
