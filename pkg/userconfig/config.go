package userconfig

// StorageMode selects where the user's trakt tokens live: embedded in the
// opaque config string carried on every request, or in a remote key-value
// store referenced by a key id.
type StorageMode string

// supported storage modes
const (
	StorageEmbedded StorageMode = "embedded"
	StorageRemote   StorageMode = "remote"
)

// CurrentVersion is the schema version written by Encode. Decode accepts
// version 0 (legacy configs without the field) and treats it as 1.
const CurrentVersion = 1

// Config is the decoded form of the opaque config string a client carries
// in the request path. It is created client-side at setup time and never
// mutated back into the client-held string; token refresh results go to
// the remote store only.
type Config struct {
	Version     int         `json:"v,omitempty"`
	StorageMode StorageMode `json:"storage,omitempty"`

	ClientID     string `json:"client_id,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"` // unix seconds

	Remote  RemoteStore `json:"remote,omitempty"`
	Actions Actions     `json:"actions,omitempty"`
	Display Display     `json:"display,omitempty"`
}

// RemoteStore holds credentials and the key id for the remote key-value
// store, used only when StorageMode is "remote".
type RemoteStore struct {
	URL   string `json:"url,omitempty"`
	Token string `json:"token,omitempty"`
	KeyID string `json:"key,omitempty"`
}

// Actions holds which action kinds are enabled and in what order they
// appear in the stream listing. Order entries not present in Enabled are
// ignored; enabled actions missing from Order are appended in the default
// order.
type Actions struct {
	Enabled []string `json:"enabled,omitempty"`
	Order   []string `json:"order,omitempty"`
}

// Display holds the user's presentation choices.
type Display struct {
	GlyphStyle       string   `json:"glyphs,omitempty"`  // stars, hearts or blocks
	Pattern          string   `json:"pattern,omitempty"` // compact, detailed or emoji
	Stats            []string `json:"stats,omitempty"`   // selected popularity metrics
	RateAlsoWatch    bool     `json:"rate_also_watch,omitempty"`
	DedupBeforeWatch bool     `json:"dedup,omitempty"`
}

// DefaultActions is the full action set in default listing order.
var DefaultActions = []string{
	"watch", "unwatch", "watch_season", "watch_series",
	"rate", "unrate", "watchlist_add", "watchlist_remove",
}

// applyDefaults fills missing fields with explicit defaults so that later
// code never depends on incidental zero values.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.StorageMode != StorageRemote {
		c.StorageMode = StorageEmbedded
	}
	if len(c.Actions.Enabled) == 0 {
		c.Actions.Enabled = append([]string{}, DefaultActions...)
	}
	if c.Display.GlyphStyle == "" {
		c.Display.GlyphStyle = "stars"
	}
	if c.Display.Pattern == "" {
		c.Display.Pattern = "compact"
	}
	if len(c.Display.Stats) == 0 {
		c.Display.Stats = []string{"watchers", "votes"}
	}
}

// ActionEnabled reports whether the given action kind is enabled.
func (c *Config) ActionEnabled(kind string) bool {
	for _, a := range c.Actions.Enabled {
		if a == kind {
			return true
		}
	}
	return false
}

// ActionOrder returns enabled actions in the user's preferred order,
// appending enabled actions missing from the explicit order list.
func (c *Config) ActionOrder() []string {
	seen := make(map[string]bool, len(c.Actions.Enabled))
	out := make([]string, 0, len(c.Actions.Enabled))
	for _, a := range c.Actions.Order {
		if c.ActionEnabled(a) && !seen[a] {
			out = append(out, a)
			seen[a] = true
		}
	}
	for _, a := range DefaultActions {
		if c.ActionEnabled(a) && !seen[a] {
			out = append(out, a)
			seen[a] = true
		}
	}
	return out
}
