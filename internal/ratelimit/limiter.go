package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles snapshot requests for a single market feed
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing perMinute requests per minute.
// Burst is capped at 5 so a cold start cannot stampede the feed.
func New(name string, perMinute int) *Limiter {
	rps := float64(perMinute) / 60.0
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	if burst > 5 {
		burst = 5
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
	}
}

// Wait blocks until a token is available or the context is cancelled
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed right now
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the limiter name
func (l *Limiter) Name() string {
	return l.name
}

// PerMarket lazily creates one limiter per market type, all sharing the
// same per-minute budget.
type PerMarket struct {
	mu        sync.Mutex
	limiters  map[string]*Limiter
	perMinute int
}

// NewPerMarket creates a per-market limiter set
func NewPerMarket(perMinute int) *PerMarket {
	return &PerMarket{
		limiters:  make(map[string]*Limiter),
		perMinute: perMinute,
	}
}

// Get returns the limiter for the market, creating it on first use
func (p *PerMarket) Get(market string) *Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[market]
	if !ok {
		l = New(market, p.perMinute)
		p.limiters[market] = l
	}
	return l
}

// Wait blocks on the market's limiter
func (p *PerMarket) Wait(ctx context.Context, market string) error {
	return p.Get(market).Wait(ctx)
}
