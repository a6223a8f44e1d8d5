// Package web provides the HTTP server for the Shufflefy backend.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/Daframp/Shufflefy/internal/db"
)

const (
	sessionCookieName = "session_id"
	sessionTTL        = 24 * time.Hour
)

// Session is a browser session holding the Spotify access token obtained
// during the OAuth callback. AccessToken is empty until the callback
// completes.
type Session struct {
	ID          string
	AccessToken string
	CreatedAt   time.Time
}

// SessionManager stores per-browser sessions keyed by an opaque cookie value.
type SessionManager interface {
	Create(ctx context.Context, accessToken string) (*Session, error)
	Get(ctx context.Context, id string) *Session
	GetFromRequest(r *http.Request) *Session
	SetCookie(w http.ResponseWriter, session *Session)
}

// MemoryStore manages sessions in memory. Suitable for a single-process
// deployment; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create generates a new session holding the given access token.
func (s *MemoryStore) Create(_ context.Context, accessToken string) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:          id,
		AccessToken: accessToken,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by ID. Expired sessions are treated as absent.
func (s *MemoryStore) Get(_ context.Context, id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if time.Since(session.CreatedAt) > sessionTTL {
		return nil
	}
	return session
}

// GetFromRequest extracts the session from the request cookie.
func (s *MemoryStore) GetFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return s.Get(r.Context(), cookie.Value)
}

// SetCookie sets the session cookie on the response.
func (s *MemoryStore) SetCookie(w http.ResponseWriter, session *Session) {
	setCookie(w, session)
}

// DBStore manages sessions in PostgreSQL, so they survive restarts and
// can be shared across processes.
type DBStore struct {
	database *db.DB
}

// NewDBStore creates a database-backed session store.
func NewDBStore(database *db.DB) *DBStore {
	return &DBStore{database: database}
}

// Create generates a new session and persists it.
func (s *DBStore) Create(ctx context.Context, accessToken string) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &db.Session{
		ID:          id,
		AccessToken: accessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(sessionTTL),
	}
	if err := s.database.Sessions().Create(ctx, record); err != nil {
		return nil, err
	}

	return &Session{ID: id, AccessToken: accessToken, CreatedAt: now}, nil
}

// Get retrieves a session by ID. Expiry is enforced by the query.
func (s *DBStore) Get(ctx context.Context, id string) *Session {
	record, err := s.database.Sessions().Get(ctx, id)
	if err != nil {
		return nil
	}
	return &Session{
		ID:          record.ID,
		AccessToken: record.AccessToken,
		CreatedAt:   record.CreatedAt,
	}
}

// GetFromRequest extracts the session from the request cookie.
func (s *DBStore) GetFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return s.Get(r.Context(), cookie.Value)
}

// SetCookie sets the session cookie on the response.
func (s *DBStore) SetCookie(w http.ResponseWriter, session *Session) {
	setCookie(w, session)
}

// generateSessionID creates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// setCookie sets the session cookie. Secure is deliberately left unset to
// match the original deployment; set it when serving over HTTPS.
func setCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// Ensure both stores implement SessionManager.
var (
	_ SessionManager = (*MemoryStore)(nil)
	_ SessionManager = (*DBStore)(nil)
)
