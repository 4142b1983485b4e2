// Package binder decodes HTTP request bodies into handler input structs.
//
// JSON enforces the content type, a size limit, strict field matching and a
// single top-level value. Errors wrap ErrMissingContentType,
// ErrUnsupportedMediaType, ErrBodyTooLarge or ErrFailedToParseJSON so
// transports can map them to 4xx responses.
package binder
