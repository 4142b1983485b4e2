// Package ratelimiter implements token bucket rate limiting.
//
// A Bucket consumes tokens from a Store. MemoryStore keeps buckets in process
// and RedisStore shares them between replicas with a Lua script, so every
// consume is atomic per key. A refused request leaves the bucket untouched:
// clients hammering a full bucket are not pushed further into debt.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	r.With(ratelimiter.Middleware(limiter, keyByIP)).Post("/login", login)
//
// Middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every limited response, plus Retry-After when the
// request is refused.
package ratelimiter
