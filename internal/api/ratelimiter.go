package api

import "golang.org/x/time/rate"

// RateLimiter gates request admission for the router middleware.
type RateLimiter interface {
	Allow() bool
}

type tokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewTokenBucketLimiter builds a limiter admitting rps requests per second
// with the given burst capacity.
func NewTokenBucketLimiter(rps float64, burst int) RateLimiter {
	return &tokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (l *tokenBucketLimiter) Allow() bool {
	return l.limiter.Allow()
}
