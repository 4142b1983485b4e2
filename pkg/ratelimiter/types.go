package ratelimiter

import "time"

// Result describes the bucket after one consume attempt.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative when the request was refused
	ResetAt   time.Time // next refill
}

// Allowed reports whether the request fit in the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long a refused caller should wait, measured from now.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Config is a token bucket definition.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"6s"`
}

// refill computes the token count at now and the refill reference point.
// The reference only advances in whole intervals so partial progress is kept.
func (c Config) refill(tokens int, last, now time.Time) (int, time.Time) {
	intervals := int64(now.Sub(last) / c.RefillInterval)
	if intervals <= 0 {
		return tokens, last
	}
	needed := int64((c.Capacity-tokens+c.RefillRate-1)/c.RefillRate) + 1
	tokens = int(min(int64(tokens)+min(intervals, needed)*int64(c.RefillRate), int64(c.Capacity)))
	return tokens, last.Add(time.Duration(intervals) * c.RefillInterval)
}
