package trakt

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
)

// TokenSet is one user's trakt credentials. ExpiresAt is unix seconds.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// ExpiresWithin reports whether the token expires inside the lookahead
// window from now. Tokens without an expiry never report true.
func (t TokenSet) ExpiresWithin(lookahead time.Duration, now time.Time) bool {
	if t.ExpiresAt == 0 {
		return false
	}
	return time.Unix(t.ExpiresAt, 0).Before(now.Add(lookahead))
}

// authorizeParams is encoded into the authorize URL query string
type authorizeParams struct {
	ResponseType string `url:"response_type"`
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	State        string `url:"state"`
}

// AuthorizeURL builds the third-party authorization URL the OAuth
// initiate endpoint redirects to. State is the caller's anti-forgery
// value.
func (c *Client) AuthorizeURL(redirectURI, state string) string {
	v, err := query.Values(authorizeParams{
		ResponseType: "code",
		ClientID:     c.clientID,
		RedirectURI:  redirectURI,
		State:        state,
	})
	if err != nil { // only reachable with a broken params struct
		return c.authURL + "/oauth/authorize"
	}
	return c.authURL + "/oauth/authorize?" + v.Encode()
}

type tokenRequest struct {
	Code         string `json:"code,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	GrantType    string `json:"grant_type"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	CreatedAt    int64  `json:"created_at"`
}

func (r tokenResponse) toTokenSet() TokenSet {
	created := r.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	return TokenSet{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    created + r.ExpiresIn,
	}
}

// ExchangeCode trades an authorization code for a token set.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (TokenSet, error) {
	req := tokenRequest{
		Code:         code,
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURI:  redirectURI,
		GrantType:    "authorization_code",
	}
	var resp tokenResponse
	if err := c.doJSON(ctx, c.writeClient, http.MethodPost, c.apiURL+"/oauth/token", "", req, &resp); err != nil {
		return TokenSet{}, fmt.Errorf("exchange code: %w", err)
	}
	return resp.toTokenSet(), nil
}

// Refresh trades a refresh token for a new token set.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenSet, error) {
	req := tokenRequest{
		RefreshToken: refreshToken,
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		GrantType:    "refresh_token",
	}
	var resp tokenResponse
	if err := c.doJSON(ctx, c.writeClient, http.MethodPost, c.apiURL+"/oauth/token", "", req, &resp); err != nil {
		return TokenSet{}, fmt.Errorf("refresh token: %w", err)
	}
	return resp.toTokenSet(), nil
}
