package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/stremio-addons/trakt-actions/pkg/userconfig"
)

// oauthLoginHandler starts the authorization code flow with a one-time
// anti-forgery state value
func (s *Server) oauthLoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	s.states.Set(state, "login")

	// remote store credentials ride through the flow in the state cache,
	// the authorize URL itself carries only the state value
	if kvURL := r.URL.Query().Get("kv_url"); kvURL != "" {
		s.states.Set(state, kvURL+"\n"+r.URL.Query().Get("kv_token"))
	}

	authURL := s.oauth.AuthorizeURL(s.config.GetBaseURL()+"/oauth/callback", state)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// oauthCallbackHandler exchanges the authorization code for tokens and
// returns an encoded config ready to paste into the addon install URL.
// When remote store credentials were supplied on login, tokens are
// persisted there and the config carries the key id instead of tokens.
func (s *Server) oauthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	state := q.Get("state")
	stored, ok := s.states.Get(state)
	if state == "" || !ok {
		renderError(w, r, errors.New("unknown or expired state"), http.StatusBadRequest)
		return
	}
	s.states.Evict(state) // single use

	code := q.Get("code")
	if code == "" {
		renderError(w, r, errors.New("missing authorization code"), http.StatusBadRequest)
		return
	}

	tokens, err := s.oauth.ExchangeCode(ctx, code, s.config.GetBaseURL()+"/oauth/callback")
	if err != nil {
		log.Printf("[WARN] code exchange failed: %v", err)
		renderError(w, r, fmt.Errorf("code exchange failed: %w", err), http.StatusBadGateway)
		return
	}

	cfg := &userconfig.Config{
		Version:      userconfig.CurrentVersion,
		StorageMode:  userconfig.StorageEmbedded,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	}

	if kvURL, kvToken, remote := splitStoreCreds(stored); remote {
		keyID := uuid.NewString()
		payload, merr := json.Marshal(tokens)
		if merr != nil {
			renderError(w, r, fmt.Errorf("encode tokens: %w", merr), http.StatusInternalServerError)
			return
		}
		if serr := s.newKV(kvURL, kvToken).Set(ctx, keyID, string(payload), 0); serr != nil {
			log.Printf("[WARN] remote store write failed: %v", serr)
			renderError(w, r, fmt.Errorf("remote store write failed: %w", serr), http.StatusBadGateway)
			return
		}
		cfg = &userconfig.Config{
			Version:     userconfig.CurrentVersion,
			StorageMode: userconfig.StorageRemote,
			Remote:      userconfig.RemoteStore{URL: kvURL, Token: kvToken, KeyID: keyID},
		}
	}

	encoded, err := userconfig.Encode(cfg)
	if err != nil {
		renderError(w, r, fmt.Errorf("encode config: %w", err), http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"config":     encoded,
		"storage":    cfg.StorageMode,
		"expires_at": tokens.ExpiresAt,
		"install":    s.config.GetBaseURL() + "/configured/" + encoded + "/manifest.json",
	})
}

// splitStoreCreds unpacks the "url\ntoken" value planted by the login
// handler; the plain "login" marker means url-embedded storage.
func splitStoreCreds(stored string) (kvURL, kvToken string, remote bool) {
	if stored == "login" {
		return "", "", false
	}
	for i := 0; i < len(stored); i++ {
		if stored[i] == '\n' {
			return stored[:i], stored[i+1:], true
		}
	}
	return "", "", false
}

// refreshHandler exchanges a refresh token for a fresh token set
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		renderError(w, r, errors.New("refresh_token is required"), http.StatusBadRequest)
		return
	}

	tokens, err := s.oauth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		log.Printf("[WARN] token refresh failed: %v", err)
		renderError(w, r, fmt.Errorf("token refresh failed: %w", err), http.StatusBadGateway)
		return
	}
	renderJSON(w, r, http.StatusOK, tokens)
}

// kvSelfTestHandler verifies connectivity and credentials of a remote
// key-value store before the user commits them into a config
func (s *Server) kvSelfTestHandler(w http.ResponseWriter, r *http.Request) {
	kvURL := r.URL.Query().Get("url")
	if kvURL == "" {
		renderError(w, r, errors.New("url is required"), http.StatusBadRequest)
		return
	}

	if err := s.newKV(kvURL, r.URL.Query().Get("token")).SelfTest(r.Context()); err != nil {
		log.Printf("[WARN] store self-test failed for %s: %v", kvURL, err)
		renderJSON(w, r, http.StatusBadGateway, map[string]interface{}{"ok": false, "error": err.Error()})
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"ok": true})
}
