// Package redis connects to Redis with go-redis/v9. The client backs the
// shared rate limiter store when RATE_LIMIT_STORE=redis.
package redis
