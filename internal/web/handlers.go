package web

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Daframp/Shufflefy/internal/auth"
	"github.com/Daframp/Shufflefy/internal/db"
	"github.com/Daframp/Shufflefy/internal/spotify"
)

// AssociationStore records (user, playlist) pairs and returns their
// surrogate ids. Implemented by db.UserPlaylistRepository.
type AssociationStore interface {
	Insert(ctx context.Context, userID, playlistID string) error
	GetID(ctx context.Context, userID, playlistID string) (int64, error)
}

// Handlers contains the HTTP handlers for the backend.
type Handlers struct {
	gateway      *auth.Gateway
	spotify      *spotify.Client
	sessions     SessionManager
	associations AssociationStore
	rootURI      string
	logger       *log.Logger
}

// NewHandlers creates a Handlers instance. associations may be nil when no
// database is configured; the /db endpoints then report a database error.
func NewHandlers(gateway *auth.Gateway, client *spotify.Client, sessions SessionManager, associations AssociationStore, rootURI string, logger *log.Logger) *Handlers {
	return &Handlers{
		gateway:      gateway,
		spotify:      client,
		sessions:     sessions,
		associations: associations,
		rootURI:      rootURI,
		logger:       logger,
	}
}

// requireToken returns the session's access token, or writes a 401 and
// returns false. Every relay handler checks the token before making an
// outbound call.
func (h *Handlers) requireToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	session := h.sessions.GetFromRequest(r)
	if session == nil || session.AccessToken == "" {
		respondError(w, http.StatusUnauthorized, "Missing access token")
		return "", false
	}
	return session.AccessToken, true
}

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 5 * time.Minute
)

// Login redirects the browser to the Spotify authorization page
// (GET /login). The CSRF state travels in a short-lived cookie and is
// compared against the state echoed back on the callback.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateTTL.Seconds()),
	})

	http.Redirect(w, r, h.gateway.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback verifies the CSRF state, exchanges the authorization code for
// tokens, stores the access token in a new session, and redirects the
// browser back to the app with the token in the query string
// (GET /callback).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil {
		h.logger.Error("callback received without state cookie")
		respondError(w, http.StatusBadRequest, "Missing state cookie")
		return
	}
	if state := r.URL.Query().Get("state"); state != stateCookie.Value {
		h.logger.Error("callback state mismatch")
		respondError(w, http.StatusBadRequest, "State mismatch")
		return
	}

	// State is single-use; clear it before any exchange.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Error("callback received without authorization code")
		respondError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	token, err := h.gateway.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("authorization code exchange failed", "err", err)
		respondError(w, http.StatusBadRequest, "Authentication failed")
		return
	}

	session, err := h.sessions.Create(r.Context(), token.AccessToken)
	if err != nil {
		h.logger.Error("creating session", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	h.sessions.SetCookie(w, session)

	// The token travels to the frontend in the redirect URL. This mirrors
	// the original deployment and is visible in browser history and any
	// intermediary logs; see DESIGN.md before tightening.
	redirect := h.rootURI + "/?accessToken=" + url.QueryEscape(token.AccessToken)
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

// Refresh exchanges a caller-supplied refresh token for a new access
// token (POST /refresh). The session's stored token is not updated.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Could not refresh token")
		return
	}

	token, err := h.gateway.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		h.logger.Error("refreshing access token", "err", err)
		respondError(w, http.StatusBadRequest, "Could not refresh token")
		return
	}

	// A zero Expiry means the provider sent no expires_in; report 0
	// rather than a large negative duration.
	var expiresIn int64
	if !token.Expiry.IsZero() {
		expiresIn = int64(time.Until(token.Expiry).Seconds())
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"accessToken": token.AccessToken,
		"expiresIn":   expiresIn,
	})
}

// Playlists relays the current user's playlists (GET /playlists).
func (h *Handlers) Playlists(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	items, err := h.spotify.Playlists(r.Context(), token)
	if err != nil {
		var statusErr *spotify.StatusError
		if errors.As(err, &statusErr) {
			respondError(w, statusErr.Code, "Spotify API error")
			return
		}
		h.logger.Error("fetching playlists", "err", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// PlayTrack starts playback of a track on a device (POST /api/play-track).
func (h *Handlers) PlayTrack(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	var body struct {
		TrackURI string `json:"trackUri"`
		DeviceID string `json:"deviceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.spotify.Play(r.Context(), token, body.DeviceID, body.TrackURI); err != nil {
		var statusErr *spotify.StatusError
		if errors.As(err, &statusErr) {
			h.logger.Error("playing track", "status", statusErr.Code, "detail", string(statusErr.Body))
			respondRawError(w, statusErr.Code, statusErr.Body, "Failed to play track")
			return
		}
		h.logger.Error("playing track", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to play track")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AddToQueue appends a track to the playback queue (POST /api/add-to-queue).
func (h *Handlers) AddToQueue(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	var body struct {
		TrackURI string `json:"trackUri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TrackURI == "" {
		respondError(w, http.StatusBadRequest, "Track URI is required")
		return
	}

	if err := h.spotify.QueueTrack(r.Context(), token, body.TrackURI); err != nil {
		var statusErr *spotify.StatusError
		if errors.As(err, &statusErr) {
			respondError(w, statusErr.Code, "Failed to add track to queue")
			return
		}
		h.logger.Error("queueing track", "err", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Track added to queue"})
}

// RandomSong picks a track uniformly at random from a playlist
// (GET /api/get-random-song?playlistId=). Selection is over the first page
// of tracks only; long playlists are truncated at the provider's page size.
func (h *Handlers) RandomSong(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	playlistID := r.URL.Query().Get("playlistId")
	if playlistID == "" {
		respondError(w, http.StatusBadRequest, "Playlist ID is required")
		return
	}

	tracks, err := h.spotify.PlaylistTracks(r.Context(), token, playlistID)
	if err != nil {
		var statusErr *spotify.StatusError
		if errors.As(err, &statusErr) {
			respondError(w, statusErr.Code, "Failed to fetch playlist tracks")
			return
		}
		h.logger.Error("fetching playlist tracks", "playlist", playlistID, "err", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(tracks) == 0 {
		respondError(w, http.StatusNotFound, "No tracks found in the playlist")
		return
	}

	pick := tracks[rand.Intn(len(tracks))]
	respondJSON(w, http.StatusOK, map[string]string{"trackUri": pick.Track.URI})
}

// UserID returns the authenticated Spotify user's id (GET /api/getUserId).
func (h *Handlers) UserID(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireToken(w, r)
	if !ok {
		return
	}

	user, err := h.spotify.CurrentUser(r.Context(), token)
	if err != nil {
		var statusErr *spotify.StatusError
		if errors.As(err, &statusErr) {
			respondError(w, statusErr.Code, "Failed to fetch userId")
			return
		}
		h.logger.Error("fetching user profile", "err", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if user.ID == "" {
		respondError(w, http.StatusNotFound, "No userId found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"userId": user.ID})
}

// UserPlaylistID upserts a (user, playlist) association and returns its
// surrogate id (POST /db/getUserPlaylistId and POST /db/addSongs — the
// original exposed both paths with identical behavior, so they share this
// handler).
func (h *Handlers) UserPlaylistID(w http.ResponseWriter, r *http.Request) {
	if h.associations == nil {
		h.logger.Error("user playlist request with no database configured")
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var body struct {
		UserID     string `json:"userId"`
		PlaylistID string `json:"playlistId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The insert is an upsert with DO NOTHING, so a failure here still
	// leaves the read-back meaningful when the pair already exists. The
	// error is surfaced in the log rather than aborting the request.
	if err := h.associations.Insert(r.Context(), body.UserID, body.PlaylistID); err != nil {
		h.logger.Error("inserting user playlist association", "user", body.UserID, "playlist", body.PlaylistID, "err", err)
	}

	id, err := h.associations.GetID(r.Context(), body.UserID, body.PlaylistID)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusBadRequest, "No userPlaylistId found")
		return
	}
	if err != nil {
		h.logger.Error("fetching user playlist id", "user", body.UserID, "playlist", body.PlaylistID, "err", err)
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"userPlaylistId": id})
}
