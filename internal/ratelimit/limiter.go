package ratelimit

// Limiter decides whether key may make one more request. SlidingWindow is
// the in-process implementation; a deployment running several server
// processes supplies one backed by a shared store so the budget is global.
type Limiter interface {
	Allow(key string) Decision
}

var _ Limiter = (*SlidingWindow)(nil)
