package db

import "time"

// Session is a persisted browser session holding the Spotify access token.
type Session struct {
	ID          string
	AccessToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}
