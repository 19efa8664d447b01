package cache

import (
	"time"

	"github.com/stremio-addons/trakt-actions/pkg/trakt"
)

// default TTLs, overridable via app config
const (
	DefaultTokenTTL  = 5 * time.Minute
	DefaultStatsTTL  = 30 * time.Minute
	DefaultRatingTTL = 10 * time.Minute
)

// Service bundles the process-wide caches, constructed once at startup
// and injected where needed. Each cache carries its own TTL policy.
type Service struct {
	Tokens  *TTLCache[trakt.TokenSet] // remote-store token lookups, keyed by key id
	Stats   *TTLCache[trakt.Stats]    // per-media popularity stats
	Ratings *TTLCache[int]            // per-user per-media ratings
}

// TTLs configures the per-cache TTLs; zero values take defaults.
type TTLs struct {
	Tokens  time.Duration
	Stats   time.Duration
	Ratings time.Duration
}

// NewService creates the cache bundle.
func NewService(ttls TTLs) *Service {
	if ttls.Tokens == 0 {
		ttls.Tokens = DefaultTokenTTL
	}
	if ttls.Stats == 0 {
		ttls.Stats = DefaultStatsTTL
	}
	if ttls.Ratings == 0 {
		ttls.Ratings = DefaultRatingTTL
	}
	return &Service{
		Tokens:  New[trakt.TokenSet](ttls.Tokens),
		Stats:   New[trakt.Stats](ttls.Stats),
		Ratings: New[int](ttls.Ratings),
	}
}

// PurgeAll drops stale entries from every cache and returns the total.
func (s *Service) PurgeAll() int {
	return s.Tokens.Purge() + s.Stats.Purge() + s.Ratings.Purge()
}
