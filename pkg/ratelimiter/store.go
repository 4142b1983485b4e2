package ratelimiter

import (
	"context"
	"time"
)

// Store persists bucket state. ConsumeTokens must be atomic per key and must
// leave the bucket untouched when fewer than tokens are available.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
