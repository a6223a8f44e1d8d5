// Package auth implements the Spotify OAuth2 authorization-code flow
// used by the Shufflefy backend: building the authorization URL,
// exchanging an authorization code for tokens, and exchanging a refresh
// token for a fresh access token.
package auth

import (
	"context"
	"errors"
	"fmt"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// ErrNoRefreshToken is returned when Refresh is called with an empty token.
var ErrNoRefreshToken = errors.New("no refresh token provided")

// Gateway performs OAuth2 grants against the Spotify accounts service.
type Gateway struct {
	config *oauth2.Config
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithEndpoint overrides the OAuth endpoint. Used by tests to point the
// gateway at a local fake accounts service.
func WithEndpoint(authURL, tokenURL string) Option {
	return func(g *Gateway) {
		g.config.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	}
}

// New creates a Gateway for the given Spotify application credentials.
func New(clientID, clientSecret, redirectURI string, opts ...Option) *Gateway {
	g := &Gateway{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes: []string{
				spotifyauth.ScopeStreaming,
				spotifyauth.ScopeUserReadEmail,
				spotifyauth.ScopePlaylistReadPrivate,
				spotifyauth.ScopeUserReadPrivate,
				spotifyauth.ScopeUserModifyPlaybackState,
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AuthCodeURL returns the Spotify authorization URL the browser should be
// redirected to. The caller supplies the CSRF state and must verify it on
// the callback. show_dialog forces the consent screen even for users who
// already approved the app.
func (g *Gateway) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// Exchange trades an authorization code for a token set.
func (g *Gateway) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}

// Refresh trades a caller-supplied refresh token for a new access token.
// The session is not touched; the caller decides what to do with the result.
func (g *Gateway) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	src := g.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing access token: %w", err)
	}
	return token, nil
}
