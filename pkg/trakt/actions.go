package trakt

import (
	"context"
	"net/http"
)

// sync request body shapes, per the trakt /sync endpoints

type mediaIDs struct {
	IMDB string `json:"imdb"`
}

type episodeEntry struct {
	Number int `json:"number"`
	Rating int `json:"rating,omitempty"`
}

type seasonEntry struct {
	Number   int            `json:"number"`
	Rating   int            `json:"rating,omitempty"`
	Episodes []episodeEntry `json:"episodes,omitempty"`
}

type movieEntry struct {
	IDs    mediaIDs `json:"ids"`
	Rating int      `json:"rating,omitempty"`
}

type showEntry struct {
	IDs     mediaIDs      `json:"ids"`
	Rating  int           `json:"rating,omitempty"`
	Seasons []seasonEntry `json:"seasons,omitempty"`
}

type syncBody struct {
	Movies []movieEntry `json:"movies,omitempty"`
	Shows  []showEntry  `json:"shows,omitempty"`
}

// newSyncBody builds the request body for a media ref. A non-zero rating
// is attached at the ref's own scope (movie, show, season or episode).
func newSyncBody(ref MediaRef, rating int) syncBody {
	if ref.Kind == KindMovie {
		return syncBody{Movies: []movieEntry{{IDs: mediaIDs{IMDB: ref.ID}, Rating: rating}}}
	}

	show := showEntry{IDs: mediaIDs{IMDB: ref.ID}}
	switch ref.Kind {
	case KindEpisode:
		show.Seasons = []seasonEntry{{
			Number:   ref.Season,
			Episodes: []episodeEntry{{Number: ref.Episode, Rating: rating}},
		}}
	case KindSeason:
		show.Seasons = []seasonEntry{{Number: ref.Season, Rating: rating}}
	default: // whole show
		show.Rating = rating
	}
	return syncBody{Shows: []showEntry{show}}
}

// AddToHistory marks the referenced media as watched.
func (c *Client) AddToHistory(ctx context.Context, token string, ref MediaRef) error {
	return c.doJSON(ctx, c.writeClient, http.MethodPost, c.apiURL+"/sync/history", token, newSyncBody(ref, 0), nil)
}

// RemoveFromHistory removes all watch history for the referenced media.
func (c *Client) RemoveFromHistory(ctx context.Context, token string, ref MediaRef) error {
	return c.doJSON(ctx, c.writeClient, http.MethodPost, c.apiURL+"/sync/history/remove", token, newSyncBody(ref, 0), nil)
}

// AddRating rates the referenced media on the 1-10 scale.
func (c *Client) AddRating(ctx context.Context, token string, ref MediaRef, rating int) error {
	return c.doJSON(ctx, c.writeClient, http.MethodPost, c.apiURL+"/sync/ratings", token, newSyncBody(ref, rating), nil)
}

// RemoveRating removes the user's rating for the referenced media.
func (c *Client) RemoveRating(ctx context.Context, token string, ref MediaRef) error {
	return c.doJSON(ctx, c.writeClient, http.MethodPost, c.apiURL+"/sync/ratings/remove", token, newSyncBody(ref, 0), nil)
}

// AddToWatchlist puts the referenced media on the user's watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, token string, ref MediaRef) error {
	return c.doJSON(ctx, c.writeClient, http.MethodPost, c.apiURL+"/sync/watchlist", token, newSyncBody(ref, 0), nil)
}

// RemoveFromWatchlist takes the referenced media off the user's watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, token string, ref MediaRef) error {
	return c.doJSON(ctx, c.writeClient, http.MethodPost, c.apiURL+"/sync/watchlist/remove", token, newSyncBody(ref, 0), nil)
}
