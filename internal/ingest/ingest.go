// Package ingest produces asset snapshots from synthetic market feeds
// with response caching and per-market rate limiting.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"marketmirror/internal/indicator"
	"marketmirror/internal/ratelimit"
	"marketmirror/internal/symbols"
	"marketmirror/pkg/model"
)

// ErrUnsupportedMarket is returned for unknown market types
var ErrUnsupportedMarket = errors.New("unsupported market type")

type cacheEntry struct {
	assets   []model.Asset
	cachedAt time.Time
}

// Service fetches market snapshots. Safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	cache   map[string]cacheEntry
	ttl     time.Duration
	limiter *ratelimit.PerMarket

	// now is swappable in tests
	now func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithTTL overrides the default 5 minute cache TTL
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an ingestion service allowing perMinute fetches per market
func NewService(perMinute int, opts ...Option) *Service {
	s := &Service{
		cache:   make(map[string]cacheEntry),
		ttl:     5 * time.Minute,
		limiter: ratelimit.NewPerMarket(perMinute),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch returns snapshots for the given symbols, serving from cache when
// fresh. Generated snapshots are cleaned and enriched with indicators.
func (s *Service) Fetch(ctx context.Context, market symbols.Market, syms []string, duration string) ([]model.Asset, error) {
	if !market.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMarket, market)
	}

	key := cacheKey(market, syms, duration)
	if cached, ok := s.lookup(key); ok {
		log.Printf("[INGEST] cache hit for %s", key)
		return cached, nil
	}

	log.Printf("[INGEST] fetching %s: %s (%s)", market, strings.Join(syms, ","), duration)
	if err := s.limiter.Wait(ctx, string(market)); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	now := s.now()
	raw := make([]model.Asset, 0, len(syms))
	for _, sym := range syms {
		raw = append(raw, generate(market, sym, duration, now))
	}

	assets := Clean(raw)
	for i := range assets {
		Enrich(&assets[i])
	}

	s.store(key, assets)
	return assets, nil
}

// Enrich computes and attaches technical indicators from the history
func Enrich(asset *model.Asset) {
	prices := indicator.FromHistory(asset.History)
	if len(prices) < 2 {
		return
	}
	asset.Indicators = indicator.Compute(prices)
}

func (s *Service) lookup(key string) ([]model.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[key]
	if !ok || s.now().Sub(entry.cachedAt) >= s.ttl {
		return nil, false
	}
	return entry.assets, true
}

func (s *Service) store(key string, assets []model.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cacheEntry{assets: assets, cachedAt: s.now()}
}

// ClearCache drops all cached responses
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

func cacheKey(market symbols.Market, syms []string, duration string) string {
	sorted := make([]string, len(syms))
	copy(sorted, syms)
	sort.Strings(sorted)
	return fmt.Sprintf("%s:%s:%s", market, strings.Join(sorted, ","), duration)
}
