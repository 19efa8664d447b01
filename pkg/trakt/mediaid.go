package trakt

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind is the scope of a media reference.
type RefKind string

// reference scopes
const (
	KindMovie   RefKind = "movie"
	KindEpisode RefKind = "episode"
	KindSeason  RefKind = "season"
	KindShow    RefKind = "show"
)

// MediaRef identifies a movie, a whole show, a season or a single episode
// by external (imdb) id.
type MediaRef struct {
	Kind    RefKind
	ID      string // external id, e.g. "tt0903747"
	Season  int
	Episode int
}

// String renders the ref in log-friendly form.
func (r MediaRef) String() string {
	switch r.Kind {
	case KindEpisode:
		return fmt.Sprintf("%s:%d:%d", r.ID, r.Season, r.Episode)
	case KindSeason:
		return fmt.Sprintf("%s s%d", r.ID, r.Season)
	default:
		return r.ID
	}
}

// WithKind returns a copy of the ref rescoped to the given kind. Used to
// widen an episode ref to its season or show for the season/series-level
// actions.
func (r MediaRef) WithKind(kind RefKind) MediaRef {
	r.Kind = kind
	return r
}

// ParseMediaID parses a stream id as delivered by the media-center
// client: a bare external id for movies, an "id:season:episode" triple
// for series episodes. Anything else, including two-part ids and
// non-numeric season or episode values, yields no match.
func ParseMediaID(id, mediaType string) (MediaRef, bool) {
	id = strings.TrimSpace(id)
	if id == "" || !strings.HasPrefix(id, "tt") {
		return MediaRef{}, false
	}

	parts := strings.Split(id, ":")
	switch mediaType {
	case "movie":
		if len(parts) != 1 {
			return MediaRef{}, false
		}
		return MediaRef{Kind: KindMovie, ID: id}, true

	case "series":
		switch len(parts) {
		case 1:
			return MediaRef{Kind: KindShow, ID: id}, true
		case 3:
			season, err := strconv.Atoi(parts[1])
			if err != nil || season < 0 {
				return MediaRef{}, false
			}
			episode, err := strconv.Atoi(parts[2])
			if err != nil || episode < 1 {
				return MediaRef{}, false
			}
			return MediaRef{Kind: KindEpisode, ID: parts[0], Season: season, Episode: episode}, true
		default:
			return MediaRef{}, false
		}

	default:
		return MediaRef{}, false
	}
}
