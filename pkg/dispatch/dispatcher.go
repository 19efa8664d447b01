// Package dispatch executes user actions against the tracking service:
// one authenticated write per action, plus the compound policies
// (rate-also-watch, dedup-before-watch) layered on top. The HTTP surface
// never waits for these writes; they run through the detached Queue.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/stremio-addons/trakt-actions/pkg/cache"
	"github.com/stremio-addons/trakt-actions/pkg/session"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
)

// Kind names one performable action.
type Kind string

// action kinds
const (
	KindWatch           Kind = "watch"
	KindUnwatch         Kind = "unwatch"
	KindWatchSeason     Kind = "watch_season"
	KindWatchSeries     Kind = "watch_series"
	KindRate            Kind = "rate"
	KindUnrate          Kind = "unrate"
	KindWatchlistAdd    Kind = "watchlist_add"
	KindWatchlistRemove Kind = "watchlist_remove"
)

// Kinds lists all action kinds in their default order.
var Kinds = []Kind{
	KindWatch, KindUnwatch, KindWatchSeason, KindWatchSeries,
	KindRate, KindUnrate, KindWatchlistAdd, KindWatchlistRemove,
}

// ValidKind reports whether s names a known action.
func ValidKind(s string) bool {
	for _, k := range Kinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// TraktWriter is the tracking-service write surface the dispatcher needs.
type TraktWriter interface {
	AddToHistory(ctx context.Context, token string, ref trakt.MediaRef) error
	RemoveFromHistory(ctx context.Context, token string, ref trakt.MediaRef) error
	AddRating(ctx context.Context, token string, ref trakt.MediaRef, rating int) error
	RemoveRating(ctx context.Context, token string, ref trakt.MediaRef) error
	AddToWatchlist(ctx context.Context, token string, ref trakt.MediaRef) error
	RemoveFromWatchlist(ctx context.Context, token string, ref trakt.MediaRef) error
}

// Result reports a completed action.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Dispatcher performs actions. SettleDelay is the pause between the
// dedup removal and the re-add, giving the remote service time to apply
// the deletion.
type Dispatcher struct {
	trakt       TraktWriter
	ratings     *cache.TTLCache[int]
	settleDelay time.Duration
}

// NewDispatcher creates a dispatcher over the trakt write client and the
// shared ratings cache.
func NewDispatcher(writer TraktWriter, caches *cache.Service, settleDelay time.Duration) *Dispatcher {
	if settleDelay == 0 {
		settleDelay = 2 * time.Second
	}
	return &Dispatcher{trakt: writer, ratings: caches.Ratings, settleDelay: settleDelay}
}

// Perform executes one action for the session. Rating is only meaningful
// for KindRate. The returned error reflects the main write call; policy
// side calls (pre-watch history mark, dedup removal) only log.
func (d *Dispatcher) Perform(ctx context.Context, kind Kind, ref trakt.MediaRef, sess *session.Session, rating int) (Result, error) {
	if sess == nil {
		return Result{}, fmt.Errorf("no session")
	}
	token := sess.Tokens.AccessToken

	switch kind {
	case KindWatch:
		return d.markWatched(ctx, token, ref, sess.Config.Display.DedupBeforeWatch)

	case KindUnwatch:
		if err := d.trakt.RemoveFromHistory(ctx, token, ref); err != nil {
			return Result{}, fmt.Errorf("remove from history: %w", err)
		}
		return Result{OK: true, Message: fmt.Sprintf("unmarked %s", ref)}, nil

	case KindWatchSeason:
		return d.markWatched(ctx, token, ref.WithKind(trakt.KindSeason), sess.Config.Display.DedupBeforeWatch)

	case KindWatchSeries:
		return d.markWatched(ctx, token, ref.WithKind(trakt.KindShow), sess.Config.Display.DedupBeforeWatch)

	case KindRate:
		if rating < 1 || rating > 10 {
			return Result{}, fmt.Errorf("rating %d out of range", rating)
		}
		if sess.Config.Display.RateAlsoWatch {
			// watched-mark first; its failure is logged, not fatal
			if err := d.trakt.AddToHistory(ctx, token, ref); err != nil {
				log.Printf("[WARN] mark watched before rating failed for %s: %v", ref, err)
			}
		}
		if err := d.trakt.AddRating(ctx, token, ref, rating); err != nil {
			return Result{}, fmt.Errorf("add rating: %w", err)
		}
		d.ratings.Set(ratingKey(token, ref), rating)
		return Result{OK: true, Message: fmt.Sprintf("rated %s %d/10", ref, rating)}, nil

	case KindUnrate:
		if err := d.trakt.RemoveRating(ctx, token, ref); err != nil {
			return Result{}, fmt.Errorf("remove rating: %w", err)
		}
		d.ratings.Evict(ratingKey(token, ref))
		return Result{OK: true, Message: fmt.Sprintf("unrated %s", ref)}, nil

	case KindWatchlistAdd:
		if err := d.trakt.AddToWatchlist(ctx, token, ref); err != nil {
			return Result{}, fmt.Errorf("add to watchlist: %w", err)
		}
		return Result{OK: true, Message: fmt.Sprintf("watchlisted %s", ref)}, nil

	case KindWatchlistRemove:
		if err := d.trakt.RemoveFromWatchlist(ctx, token, ref); err != nil {
			return Result{}, fmt.Errorf("remove from watchlist: %w", err)
		}
		return Result{OK: true, Message: fmt.Sprintf("unwatchlisted %s", ref)}, nil

	default:
		return Result{}, fmt.Errorf("unknown action %q", kind)
	}
}

// markWatched optionally clears existing history first (dedup policy),
// waits for the service to settle, then adds the watch. Deletion
// failures are swallowed on the assumption no duplicates existed.
func (d *Dispatcher) markWatched(ctx context.Context, token string, ref trakt.MediaRef, dedup bool) (Result, error) {
	if dedup {
		if err := d.trakt.RemoveFromHistory(ctx, token, ref); err != nil {
			log.Printf("[DEBUG] dedup removal failed for %s, assuming no duplicates: %v", ref, err)
		}
		select {
		case <-time.After(d.settleDelay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	if err := d.trakt.AddToHistory(ctx, token, ref); err != nil {
		return Result{}, fmt.Errorf("add to history: %w", err)
	}
	return Result{OK: true, Message: fmt.Sprintf("marked %s watched", ref)}, nil
}

func ratingKey(token string, ref trakt.MediaRef) string {
	return token + ":" + ref.ID
}
