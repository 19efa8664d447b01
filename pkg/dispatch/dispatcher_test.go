package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremio-addons/trakt-actions/pkg/cache"
	"github.com/stremio-addons/trakt-actions/pkg/session"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
	"github.com/stremio-addons/trakt-actions/pkg/userconfig"
)

// fakeWriter records calls and returns configured errors per method
type fakeWriter struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error
}

func (f *fakeWriter) record(name string, ref trakt.MediaRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name+" "+ref.String())
	return f.errs[name]
}

func (f *fakeWriter) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *fakeWriter) AddToHistory(_ context.Context, _ string, ref trakt.MediaRef) error {
	return f.record("AddToHistory", ref)
}
func (f *fakeWriter) RemoveFromHistory(_ context.Context, _ string, ref trakt.MediaRef) error {
	return f.record("RemoveFromHistory", ref)
}
func (f *fakeWriter) AddRating(_ context.Context, _ string, ref trakt.MediaRef, _ int) error {
	return f.record("AddRating", ref)
}
func (f *fakeWriter) RemoveRating(_ context.Context, _ string, ref trakt.MediaRef) error {
	return f.record("RemoveRating", ref)
}
func (f *fakeWriter) AddToWatchlist(_ context.Context, _ string, ref trakt.MediaRef) error {
	return f.record("AddToWatchlist", ref)
}
func (f *fakeWriter) RemoveFromWatchlist(_ context.Context, _ string, ref trakt.MediaRef) error {
	return f.record("RemoveFromWatchlist", ref)
}

func testSession(display userconfig.Display) *session.Session {
	cfg := &userconfig.Config{Display: display}
	return &session.Session{
		Tokens: trakt.TokenSet{AccessToken: "tok"},
		Config: cfg,
		Source: session.SourceEmbedded,
	}
}

func newTestDispatcher(writer *fakeWriter) *Dispatcher {
	return NewDispatcher(writer, cache.NewService(cache.TTLs{}), time.Millisecond)
}

func movieRef() trakt.MediaRef { return trakt.MediaRef{Kind: trakt.KindMovie, ID: "tt0133093"} }

func TestDispatcher_SimpleActions(t *testing.T) {
	tests := []struct {
		kind     Kind
		wantCall string
	}{
		{KindWatch, "AddToHistory tt0133093"},
		{KindUnwatch, "RemoveFromHistory tt0133093"},
		{KindUnrate, "RemoveRating tt0133093"},
		{KindWatchlistAdd, "AddToWatchlist tt0133093"},
		{KindWatchlistRemove, "RemoveFromWatchlist tt0133093"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			writer := &fakeWriter{}
			d := newTestDispatcher(writer)

			res, err := d.Perform(context.Background(), tt.kind, movieRef(), testSession(userconfig.Display{}), 0)
			require.NoError(t, err)
			assert.True(t, res.OK)
			assert.Equal(t, []string{tt.wantCall}, writer.callNames())
		})
	}
}

func TestDispatcher_SeasonAndSeriesScope(t *testing.T) {
	writer := &fakeWriter{}
	d := newTestDispatcher(writer)
	ep := trakt.MediaRef{Kind: trakt.KindEpisode, ID: "tt0903747", Season: 2, Episode: 5}

	_, err := d.Perform(context.Background(), KindWatchSeason, ep, testSession(userconfig.Display{}), 0)
	require.NoError(t, err)
	_, err = d.Perform(context.Background(), KindWatchSeries, ep, testSession(userconfig.Display{}), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"AddToHistory tt0903747 s2", "AddToHistory tt0903747"}, writer.callNames())
}

func TestDispatcher_Rate(t *testing.T) {
	t.Run("plain rate", func(t *testing.T) {
		writer := &fakeWriter{}
		d := newTestDispatcher(writer)

		res, err := d.Perform(context.Background(), KindRate, movieRef(), testSession(userconfig.Display{}), 8)
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, []string{"AddRating tt0133093"}, writer.callNames())

		rating, ok := d.ratings.Get("tok:tt0133093")
		require.True(t, ok)
		assert.Equal(t, 8, rating)
	})

	t.Run("rate also marks watched first", func(t *testing.T) {
		writer := &fakeWriter{}
		d := newTestDispatcher(writer)

		_, err := d.Perform(context.Background(), KindRate, movieRef(), testSession(userconfig.Display{RateAlsoWatch: true}), 7)
		require.NoError(t, err)
		assert.Equal(t, []string{"AddToHistory tt0133093", "AddRating tt0133093"}, writer.callNames())
	})

	t.Run("watched-mark failure does not block rating", func(t *testing.T) {
		writer := &fakeWriter{errs: map[string]error{"AddToHistory": errors.New("boom")}}
		d := newTestDispatcher(writer)

		res, err := d.Perform(context.Background(), KindRate, movieRef(), testSession(userconfig.Display{RateAlsoWatch: true}), 7)
		require.NoError(t, err)
		assert.True(t, res.OK)
	})

	t.Run("rating out of range", func(t *testing.T) {
		d := newTestDispatcher(&fakeWriter{})
		_, err := d.Perform(context.Background(), KindRate, movieRef(), testSession(userconfig.Display{}), 11)
		assert.Error(t, err)
		_, err = d.Perform(context.Background(), KindRate, movieRef(), testSession(userconfig.Display{}), 0)
		assert.Error(t, err)
	})
}

func TestDispatcher_DedupBeforeWatch(t *testing.T) {
	t.Run("removal precedes add", func(t *testing.T) {
		writer := &fakeWriter{}
		d := newTestDispatcher(writer)

		res, err := d.Perform(context.Background(), KindWatch, movieRef(), testSession(userconfig.Display{DedupBeforeWatch: true}), 0)
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, []string{"RemoveFromHistory tt0133093", "AddToHistory tt0133093"}, writer.callNames())
	})

	t.Run("removal failure swallowed", func(t *testing.T) {
		writer := &fakeWriter{errs: map[string]error{"RemoveFromHistory": errors.New("nothing to remove")}}
		d := newTestDispatcher(writer)

		res, err := d.Perform(context.Background(), KindWatch, movieRef(), testSession(userconfig.Display{DedupBeforeWatch: true}), 0)
		require.NoError(t, err)
		assert.True(t, res.OK)
	})
}

func TestDispatcher_Failures(t *testing.T) {
	t.Run("main write failure surfaces", func(t *testing.T) {
		writer := &fakeWriter{errs: map[string]error{"AddToHistory": errors.New("503")}}
		d := newTestDispatcher(writer)

		_, err := d.Perform(context.Background(), KindWatch, movieRef(), testSession(userconfig.Display{}), 0)
		assert.Error(t, err)
	})

	t.Run("nil session", func(t *testing.T) {
		d := newTestDispatcher(&fakeWriter{})
		_, err := d.Perform(context.Background(), KindWatch, movieRef(), nil, 0)
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		d := newTestDispatcher(&fakeWriter{})
		_, err := d.Perform(context.Background(), Kind("explode"), movieRef(), testSession(userconfig.Display{}), 0)
		assert.Error(t, err)
	})
}

func TestValidKind(t *testing.T) {
	assert.True(t, ValidKind("watch"))
	assert.True(t, ValidKind("watchlist_remove"))
	assert.False(t, ValidKind("explode"))
	assert.False(t, ValidKind(""))
}
