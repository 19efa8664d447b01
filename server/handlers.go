package server

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/stremio-addons/trakt-actions/pkg/dispatch"
	"github.com/stremio-addons/trakt-actions/pkg/format"
	"github.com/stremio-addons/trakt-actions/pkg/session"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
	"github.com/stremio-addons/trakt-actions/pkg/userconfig"
)

// manifest is the addon descriptor the media-center client consumes
type manifest struct {
	ID            string          `json:"id"`
	Version       string          `json:"version"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Resources     []string        `json:"resources"`
	Types         []string        `json:"types"`
	IDPrefixes    []string        `json:"idPrefixes"`
	Catalogs      []struct{}      `json:"catalogs"`
	BehaviorHints map[string]bool `json:"behaviorHints"`
}

func (s *Server) baseManifest() manifest {
	return manifest{
		ID:            "community.trakt-actions",
		Version:       s.version,
		Name:          "Trakt Actions",
		Description:   "Mark watched, rate and manage your trakt watchlist from the stream list. Configure at " + s.config.GetBaseURL() + "/oauth/login",
		Resources:     []string{"stream"},
		Types:         []string{"movie", "series"},
		IDPrefixes:    []string{"tt"},
		Catalogs:      []struct{}{},
		BehaviorHints: map[string]bool{"configurable": true, "configurationRequired": false},
	}
}

// manifestHandler returns the generic addon descriptor
func (s *Server) manifestHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.baseManifest())
}

// configuredManifestHandler personalizes the descriptor for a decoded
// config; malformed config falls back to the generic one
func (s *Server) configuredManifestHandler(w http.ResponseWriter, r *http.Request) {
	m := s.baseManifest()

	if cfg := userconfig.Decode(r.PathValue("config")); cfg != nil {
		mode := "URL"
		if cfg.StorageMode == userconfig.StorageRemote {
			mode = "remote store"
		}
		m.Name = fmt.Sprintf("Trakt Actions (%s)", mode)
		m.Description = fmt.Sprintf("%d actions enabled, tokens in %s. Reconfigure at %s/oauth/login",
			len(cfg.Actions.Enabled), mode, s.config.GetBaseURL())
	}
	renderJSON(w, r, http.StatusOK, m)
}

// streamsResponse is the stream-list payload
type streamsResponse struct {
	Streams []streamEntry `json:"streams"`
}

type streamEntry struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	ExternalURL   string         `json:"externalUrl"`
	BehaviorHints *behaviorHints `json:"behaviorHints,omitempty"`
}

type behaviorHints struct {
	BingeGroup  string `json:"bingeGroup,omitempty"`
	NotWebReady bool   `json:"notWebReady,omitempty"`
}

// streamHandler lists action entries for a media item, filtered and
// ordered by the user's preferences. Any failure yields an empty list.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	empty := streamsResponse{Streams: []streamEntry{}}

	configStr := r.PathValue("config")
	mediaType := r.PathValue("type")
	mediaID := strings.TrimSuffix(r.PathValue("id"), ".json")

	sess := s.resolver.Resolve(ctx, configStr)
	if sess == nil {
		renderJSON(w, r, http.StatusOK, empty)
		return
	}

	ref, ok := trakt.ParseMediaID(mediaID, mediaType)
	if !ok {
		renderJSON(w, r, http.StatusOK, empty)
		return
	}

	title := r.URL.Query().Get("title")

	// current user rating only matters for the unrate entry
	current := 0
	if sess.Config.ActionEnabled(string(dispatch.KindUnrate)) {
		current = s.userRating(r, sess, ref)
	}

	entries := make([]streamEntry, 0, len(sess.Config.Actions.Enabled)+9)
	for _, action := range sess.Config.ActionOrder() {
		if !actionApplies(action, ref) {
			continue
		}

		if action == string(dispatch.KindRate) {
			// one entry per candidate rating, grouped together
			for rating := 1; rating <= 10; rating++ {
				entries = append(entries, streamEntry{
					Name: "Trakt",
					Description: s.labeler.Label(ctx, format.Request{
						Action: action, Title: title, Rating: rating, Ref: ref, Display: sess.Config.Display,
					}),
					ExternalURL:   s.actionURL(configStr, action, mediaType, mediaID, rating, title),
					BehaviorHints: &behaviorHints{BingeGroup: "trakt-rate", NotWebReady: true},
				})
			}
			continue
		}

		entries = append(entries, streamEntry{
			Name: "Trakt",
			Description: s.labeler.Label(ctx, format.Request{
				Action: action, Title: title, Rating: current, Ref: ref, Display: sess.Config.Display,
			}),
			ExternalURL:   s.actionURL(configStr, action, mediaType, mediaID, 0, title),
			BehaviorHints: &behaviorHints{BingeGroup: "trakt-" + action, NotWebReady: true},
		})
	}

	renderJSON(w, r, http.StatusOK, streamsResponse{Streams: entries})
}

// actionApplies filters scope-specific actions: season/series marks make
// no sense for movies, season marks need a season number.
func actionApplies(action string, ref trakt.MediaRef) bool {
	switch action {
	case string(dispatch.KindWatchSeason):
		return ref.Kind == trakt.KindEpisode
	case string(dispatch.KindWatchSeries):
		return ref.Kind == trakt.KindEpisode || ref.Kind == trakt.KindShow
	default:
		return true
	}
}

// userRating returns the user's current rating for the media, cached
// with its own TTL; failures read as unrated.
func (s *Server) userRating(r *http.Request, sess *session.Session, ref trakt.MediaRef) int {
	key := sess.Tokens.AccessToken + ":" + ref.ID
	if rating, ok := s.caches.Ratings.Get(key); ok {
		return rating
	}

	rating, err := s.ratings.UserRating(r.Context(), sess.Tokens.AccessToken, ref)
	if err != nil {
		log.Printf("[DEBUG] user rating lookup failed for %s: %v", ref, err)
		return 0
	}
	s.caches.Ratings.Set(key, rating)
	return rating
}

func (s *Server) actionURL(configStr, action, mediaType, mediaID string, rating int, title string) string {
	v := url.Values{}
	v.Set("action", action)
	v.Set("type", mediaType)
	v.Set("id", mediaID)
	if rating > 0 {
		v.Set("rating", strconv.Itoa(rating))
	}
	if title != "" {
		v.Set("title", title)
	}
	return fmt.Sprintf("%s/configured/%s/trakt-action?%s", s.config.GetBaseURL(), configStr, v.Encode())
}

// actionHandler triggers an action and redirects to the decoy media URL
// regardless of outcome; the write itself runs detached from this
// request.
func (s *Server) actionHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	action := q.Get("action")
	mediaType := q.Get("type")
	mediaID := q.Get("id")
	rating, _ := strconv.Atoi(q.Get("rating"))

	// the response is committed below no matter what happens here
	task, ok := s.buildTask(r, action, mediaType, mediaID, rating)
	if ok {
		s.pending.Set(uuid.NewString(), action)
		if !s.queue.Submit(task) {
			log.Printf("[WARN] action %s for %s not queued", action, mediaID)
		}
	}

	http.Redirect(w, r, s.config.GetDecoyURL(), http.StatusFound)
}

// buildTask validates the trigger parameters into a queue task
func (s *Server) buildTask(r *http.Request, action, mediaType, mediaID string, rating int) (dispatch.Task, bool) {
	if !dispatch.ValidKind(action) {
		log.Printf("[WARN] unknown action %q requested", action)
		return dispatch.Task{}, false
	}

	sess := s.resolver.Resolve(r.Context(), r.PathValue("config"))
	if sess == nil {
		log.Printf("[WARN] action %s requested without a usable session", action)
		return dispatch.Task{}, false
	}

	ref, ok := trakt.ParseMediaID(mediaID, mediaType)
	if !ok {
		log.Printf("[WARN] action %s requested with unparsable id %q", action, mediaID)
		return dispatch.Task{}, false
	}

	if !sess.Config.ActionEnabled(action) {
		log.Printf("[WARN] action %s disabled for this config", action)
		return dispatch.Task{}, false
	}

	return dispatch.Task{Kind: dispatch.Kind(action), Ref: ref, Session: sess, Rating: rating}, true
}
