package spotify

import "encoding/json"

// UserProfile is the subset of the /v1/me response the backend reads.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Track is the subset of a track object the backend reads.
type Track struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// PlaylistTrack is a track within a playlist context.
type PlaylistTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// playlistTracksPage is a single page of /v1/playlists/{id}/tracks.
type playlistTracksPage struct {
	Items []PlaylistTrack `json:"items"`
	Total int             `json:"total"`
}

// playlistsPage is a single page of /v1/me/playlists. Items are kept raw
// because the relay passes them through to the browser untouched.
type playlistsPage struct {
	Items json.RawMessage `json:"items"`
}
