package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	webfs "github.com/Daframp/Shufflefy/web"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(ServerConfig{
		Addr:         "127.0.0.1:0",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:5000/callback",
		RootURI:      "http://localhost:3000",
		StaticFS:     webfs.StaticFS,
		Associations: newStubAssociations(),
		Logger:       log.New(io.Discard),
	})
	require.NoError(t, err)
	return srv
}

func TestServer_MissingCredentials(t *testing.T) {
	_, err := NewServer(ServerConfig{Addr: "127.0.0.1:0"})
	require.Error(t, err)
}

func TestServer_CatchAllServesShell(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/some/frontend/route", "/index.html"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			require.Equal(t, http.StatusOK, w.Code)
			require.Contains(t, w.Body.String(), "Shufflefy")
		})
	}
}

func TestServer_CatchAllRejectsNonGet(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/some/frontend/route", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_LoginRoute(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Contains(t, w.Header().Get("Location"), "accounts.spotify.com")
}

func TestServer_PlaylistsRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/playlists", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_AssociationAliases(t *testing.T) {
	srv := newTestServer(t)

	var got [2]string
	for i, path := range []string{"/db/getUserPlaylistId", "/db/addSongs"} {
		body := strings.NewReader(`{"userId":"u1","playlistId":"pl1"}`)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, body))

		require.Equal(t, http.StatusOK, w.Code, path)
		got[i] = w.Body.String()
	}

	require.JSONEq(t, got[0], got[1], "alias routes must return the same surrogate id")
}
