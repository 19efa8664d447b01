// Package session resolves an opaque config string into a usable session:
// decode, pick the token source (embedded, local cache or remote store),
// fall back down the chain when a source is unavailable, and refresh
// soon-to-expire tokens resolved via the remote path.
package session

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stremio-addons/trakt-actions/pkg/cache"
	"github.com/stremio-addons/trakt-actions/pkg/kvstore"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
	"github.com/stremio-addons/trakt-actions/pkg/userconfig"
)

// Source records where the session's tokens came from.
type Source string

// token sources
const (
	SourceEmbedded Source = "embedded"
	SourceCache    Source = "cache"
	SourceRemote   Source = "remote"
)

// Session is a resolved token set plus the user's preferences. It lives
// for one request and is owned by the handler that resolved it.
type Session struct {
	Tokens    trakt.TokenSet
	Config    *userconfig.Config
	Source    Source
	Refreshed bool
}

// KV is the remote key-value store surface the resolver needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Refresher trades a refresh token for a new token set.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (trakt.TokenSet, error)
}

// RefreshPolicy controls proactive token refresh per storage mode. The
// historic behavior is asymmetric: embedded configs are never refreshed
// because the result cannot be written back into the client-held string,
// while remote-stored tokens are refreshed ahead of expiry.
type RefreshPolicy struct {
	Embedded  bool
	Remote    bool
	Lookahead time.Duration
}

// DefaultRefreshPolicy preserves the asymmetric default.
func DefaultRefreshPolicy() RefreshPolicy {
	return RefreshPolicy{Embedded: false, Remote: true, Lookahead: 30 * 24 * time.Hour}
}

// Resolver turns opaque config strings into sessions.
type Resolver struct {
	tokens    *cache.TTLCache[trakt.TokenSet]
	refresher Refresher
	policy    RefreshPolicy
	newKV     func(baseURL, token string) KV
	sf        singleflight.Group
	now       func() time.Time
}

// NewResolver creates a resolver over the shared token cache.
func NewResolver(caches *cache.Service, refresher Refresher, policy RefreshPolicy) *Resolver {
	if policy.Lookahead == 0 {
		policy.Lookahead = DefaultRefreshPolicy().Lookahead
	}
	return &Resolver{
		tokens:    caches.Tokens,
		refresher: refresher,
		policy:    policy,
		newKV:     func(baseURL, token string) KV { return kvstore.New(baseURL, token) },
		now:       time.Now,
	}
}

// Resolve produces a session for the opaque config string, or nil when no
// usable session exists. It never returns an error: every failure path is
// "no session" and the caller responds with an empty result.
func (r *Resolver) Resolve(ctx context.Context, configStr string) *Session {
	cfg := userconfig.Decode(configStr)
	if cfg == nil {
		return nil
	}

	if cfg.StorageMode == userconfig.StorageEmbedded {
		return r.resolveEmbedded(ctx, cfg)
	}
	return r.resolveRemote(ctx, cfg)
}

// resolveEmbedded uses the tokens carried in the config itself. No remote
// lookup happens in this mode, and by default no refresh either, expired
// or not.
func (r *Resolver) resolveEmbedded(ctx context.Context, cfg *userconfig.Config) *Session {
	if cfg.AccessToken == "" {
		return nil
	}
	sess := &Session{
		Tokens: trakt.TokenSet{
			AccessToken:  cfg.AccessToken,
			RefreshToken: cfg.RefreshToken,
			ExpiresAt:    cfg.ExpiresAt,
		},
		Config: cfg,
		Source: SourceEmbedded,
	}

	if r.policy.Embedded && sess.Tokens.ExpiresWithin(r.policy.Lookahead, r.now()) {
		// in-memory only, nothing to write the result back to
		if fresh, err := r.refresher.Refresh(ctx, sess.Tokens.RefreshToken); err == nil {
			sess.Tokens = fresh
			sess.Refreshed = true
		} else {
			log.Printf("[WARN] embedded token refresh failed: %v", err)
		}
	}
	return sess
}

// resolveRemote walks the fallback chain: fresh local cache, remote
// store, stale local cache, token embedded in the config, no session.
func (r *Resolver) resolveRemote(ctx context.Context, cfg *userconfig.Config) *Session {
	key := cfg.Remote.KeyID
	if key == "" || cfg.Remote.URL == "" {
		log.Printf("[WARN] remote storage mode without store credentials")
		return r.embeddedFallback(cfg)
	}
	kv := r.newKV(cfg.Remote.URL, cfg.Remote.Token)

	if tokens, ok := r.tokens.Get(key); ok {
		sess := &Session{Tokens: tokens, Config: cfg, Source: SourceCache}
		r.maybeRefresh(ctx, kv, key, sess)
		return sess
	}

	// concurrent requests for the same key share one fetch
	v, err, _ := r.sf.Do(key, func() (interface{}, error) {
		raw, err := kv.Get(ctx, key)
		if err != nil {
			return trakt.TokenSet{}, err
		}
		var tokens trakt.TokenSet
		if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
			return trakt.TokenSet{}, err
		}
		return tokens, nil
	})
	if err == nil {
		tokens := v.(trakt.TokenSet)
		r.tokens.Set(key, tokens)
		sess := &Session{Tokens: tokens, Config: cfg, Source: SourceRemote}
		r.maybeRefresh(ctx, kv, key, sess)
		return sess
	}
	log.Printf("[WARN] remote store fetch failed for key %s: %v", key, err)

	if tokens, ok, _ := r.tokens.GetStale(key); ok {
		log.Printf("[INFO] using expired cached tokens for key %s", key)
		return &Session{Tokens: tokens, Config: cfg, Source: SourceCache}
	}
	return r.embeddedFallback(cfg)
}

func (r *Resolver) embeddedFallback(cfg *userconfig.Config) *Session {
	if cfg.AccessToken == "" {
		return nil
	}
	return &Session{
		Tokens: trakt.TokenSet{
			AccessToken:  cfg.AccessToken,
			RefreshToken: cfg.RefreshToken,
			ExpiresAt:    cfg.ExpiresAt,
		},
		Config: cfg,
		Source: SourceEmbedded,
	}
}

// maybeRefresh refreshes a remote-path token when its expiry falls inside
// the lookahead window. On success the remote store and the local cache
// get the new set; on failure the current token stays in use and the
// caller never hears about it.
func (r *Resolver) maybeRefresh(ctx context.Context, kv KV, key string, sess *Session) {
	if !r.policy.Remote || !sess.Tokens.ExpiresWithin(r.policy.Lookahead, r.now()) {
		return
	}

	fresh, err := r.refresher.Refresh(ctx, sess.Tokens.RefreshToken)
	if err != nil {
		log.Printf("[WARN] token refresh failed for key %s: %v", key, err)
		return
	}

	sess.Tokens = fresh
	sess.Refreshed = true
	r.tokens.Set(key, fresh)

	data, err := json.Marshal(fresh)
	if err != nil {
		log.Printf("[ERROR] marshal refreshed tokens: %v", err)
		return
	}
	if err := kv.Set(ctx, key, string(data), 0); err != nil {
		log.Printf("[WARN] store refreshed tokens for key %s: %v", key, err)
	}
}
