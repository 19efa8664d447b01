package trakt

import (
	"context"
	"fmt"
	"net/http"
)

// Stats are the popularity metrics trakt publishes per media item.
type Stats struct {
	Watchers  int64   `json:"watchers"`
	Plays     int64   `json:"plays"`
	Collected int64   `json:"collected_count"`
	Lists     int64   `json:"lists"`
	Votes     int64   `json:"votes"`
	Rating    float64 `json:"rating"`
}

// Stats fetches popularity metrics for a movie or show. Episode and
// season refs report their show's stats.
func (c *Client) Stats(ctx context.Context, ref MediaRef) (Stats, error) {
	scope := "shows"
	if ref.Kind == KindMovie {
		scope = "movies"
	}

	var stats Stats
	url := fmt.Sprintf("%s/%s/%s/stats", c.apiURL, scope, ref.ID)
	if err := c.doJSON(ctx, c.readClient, http.MethodGet, url, "", nil, &stats); err != nil {
		return Stats{}, fmt.Errorf("fetch stats for %s: %w", ref, err)
	}

	// the stats endpoint has no rating; pull it from the summary ratings
	// endpoint, tolerating failure since the stats block degrades fine
	var summary struct {
		Rating float64 `json:"rating"`
		Votes  int64   `json:"votes"`
	}
	ratingsURL := fmt.Sprintf("%s/%s/%s/ratings", c.apiURL, scope, ref.ID)
	if err := c.doJSON(ctx, c.readClient, http.MethodGet, ratingsURL, "", nil, &summary); err == nil {
		stats.Rating = summary.Rating
		if stats.Votes == 0 {
			stats.Votes = summary.Votes
		}
	}
	return stats, nil
}

// ratedItem is one entry of the user's ratings listing
type ratedItem struct {
	Rating int `json:"rating"`
	Movie  *struct {
		IDs mediaIDs `json:"ids"`
	} `json:"movie,omitempty"`
	Show *struct {
		IDs mediaIDs `json:"ids"`
	} `json:"show,omitempty"`
}

// UserRating returns the user's own rating for the referenced media, 0
// when unrated.
func (c *Client) UserRating(ctx context.Context, token string, ref MediaRef) (int, error) {
	scope := "shows"
	if ref.Kind == KindMovie {
		scope = "movies"
	}

	var items []ratedItem
	url := fmt.Sprintf("%s/sync/ratings/%s", c.apiURL, scope)
	if err := c.doJSON(ctx, c.readClient, http.MethodGet, url, token, nil, &items); err != nil {
		return 0, fmt.Errorf("fetch user ratings: %w", err)
	}

	for _, it := range items {
		if it.Movie != nil && it.Movie.IDs.IMDB == ref.ID {
			return it.Rating, nil
		}
		if it.Show != nil && it.Show.IDs.IMDB == ref.ID {
			return it.Rating, nil
		}
	}
	return 0, nil
}
