// Package format builds the user-facing label strings for action
// entries: action line with emoji decoration, rating glyph rows and a
// popularity stats block. Labels are total: every input has a default,
// including the stats, which fall back to fixed example values when the
// live fetch fails.
package format

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/stremio-addons/trakt-actions/pkg/cache"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
	"github.com/stremio-addons/trakt-actions/pkg/userconfig"
)

// MaxStats caps how many popularity metrics a user can select.
const MaxStats = 4

// StatsProvider fetches live popularity metrics.
type StatsProvider interface {
	Stats(ctx context.Context, ref trakt.MediaRef) (trakt.Stats, error)
}

// fallbackStats keeps the stats block populated when the live fetch
// fails or stats were never reachable.
var fallbackStats = trakt.Stats{
	Watchers:  12500,
	Plays:     1500000,
	Collected: 80000,
	Lists:     4200,
	Votes:     64000,
	Rating:    8.1,
}

// baseLabels are the undecorated action names
var baseLabels = map[string]string{
	"watch":            "Mark watched",
	"unwatch":          "Mark unwatched",
	"watch_season":     "Mark season watched",
	"watch_series":     "Mark series watched",
	"rate":             "Rate",
	"unrate":           "Remove rating",
	"watchlist_add":    "Add to watchlist",
	"watchlist_remove": "Remove from watchlist",
}

// actionEmoji decorates each action kind
var actionEmoji = map[string]string{
	"watch":            "✅",
	"unwatch":          "❌",
	"watch_season":     "📺",
	"watch_series":     "🎬",
	"rate":             "⭐",
	"unrate":           "🚫",
	"watchlist_add":    "➕",
	"watchlist_remove": "➖",
}

// Formatter renders display strings, caching stats lookups.
type Formatter struct {
	provider StatsProvider
	stats    *cache.TTLCache[trakt.Stats]
}

// New creates a formatter over the stats provider and the shared stats
// cache. A nil provider always falls back to the example stats.
func New(provider StatsProvider, caches *cache.Service) *Formatter {
	return &Formatter{provider: provider, stats: caches.Stats}
}

// Request carries everything a label needs.
type Request struct {
	Action  string
	Title   string
	Rating  int // current user rating, 0 when unrated
	Ref     trakt.MediaRef
	Display userconfig.Display
}

// Label produces the display string for one action entry according to
// the user's pattern choice.
func (f *Formatter) Label(ctx context.Context, req Request) string {
	base, ok := baseLabels[req.Action]
	if !ok {
		base = req.Action
	}
	emoji := actionEmoji[req.Action]

	var lines []string
	switch req.Display.Pattern {
	case "detailed":
		lines = append(lines, base)
		if req.Title != "" {
			lines = append(lines, req.Title)
		}
		if req.Action == "rate" {
			lines = append(lines, RatingRow(req.Display.GlyphStyle, req.Rating))
		}
		lines = append(lines, f.statsBlock(ctx, req.Ref, req.Display.Stats))

	case "emoji":
		head := emoji + " " + base + " " + emoji
		if req.Title != "" {
			head = emoji + " " + base + ": " + req.Title + " " + emoji
		}
		lines = append(lines, head)
		if req.Action == "rate" {
			lines = append(lines, RatingRow(req.Display.GlyphStyle, req.Rating))
		}
		lines = append(lines, f.statsBlock(ctx, req.Ref, req.Display.Stats))

	default: // compact
		head := base
		if emoji != "" {
			head = emoji + " " + base
		}
		if req.Action == "rate" {
			head += " " + RatingRow(req.Display.GlyphStyle, req.Rating)
		}
		lines = append(lines, head)
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// RatingRow renders a 10-glyph row with rating filled glyphs followed by
// the empty remainder. Ratings outside 0..10 are clamped.
func RatingRow(style string, rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 10 {
		rating = 10
	}

	filled, empty := "★", "☆"
	switch style {
	case "hearts":
		filled, empty = "❤", "🤍"
	case "blocks":
		filled, empty = "▰", "▱"
	}
	return strings.Repeat(filled, rating) + strings.Repeat(empty, 10-rating)
}

// statsBlock renders the user's selected metrics, at most MaxStats of
// them, from cached or live stats, falling back to example values.
func (f *Formatter) statsBlock(ctx context.Context, ref trakt.MediaRef, selected []string) string {
	if len(selected) == 0 {
		return ""
	}
	if len(selected) > MaxStats {
		selected = selected[:MaxStats]
	}

	stats := f.fetchStats(ctx, ref)

	parts := make([]string, 0, len(selected))
	for _, name := range selected {
		switch name {
		case "watchers":
			parts = append(parts, "👥 "+AbbrevNumber(stats.Watchers))
		case "plays":
			parts = append(parts, "▶ "+AbbrevNumber(stats.Plays))
		case "collected":
			parts = append(parts, "📦 "+AbbrevNumber(stats.Collected))
		case "lists":
			parts = append(parts, "📋 "+AbbrevNumber(stats.Lists))
		case "votes":
			parts = append(parts, "🗳 "+AbbrevNumber(stats.Votes))
		case "rating":
			parts = append(parts, fmt.Sprintf("⭐ %.1f", stats.Rating))
		}
	}
	return strings.Join(parts, "  ")
}

func (f *Formatter) fetchStats(ctx context.Context, ref trakt.MediaRef) trakt.Stats {
	if ref.ID == "" || f.provider == nil {
		return fallbackStats
	}

	if cached, ok := f.stats.Get(ref.ID); ok {
		return cached
	}

	live, err := f.provider.Stats(ctx, ref)
	if err != nil {
		log.Printf("[DEBUG] stats fetch failed for %s, using fallback: %v", ref, err)
		if stale, ok, _ := f.stats.GetStale(ref.ID); ok {
			return stale
		}
		return fallbackStats
	}
	f.stats.Set(ref.ID, live)
	return live
}

// AbbrevNumber shortens counts for display: thousands get a "k" suffix,
// millions an "M", one decimal place with a trailing ".0" stripped.
func AbbrevNumber(n int64) string {
	switch {
	case n >= 1000000:
		return trimDotZero(fmt.Sprintf("%.1f", float64(n)/1000000)) + "M"
	case n >= 1000:
		return trimDotZero(fmt.Sprintf("%.1f", float64(n)/1000)) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func trimDotZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
