package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserPlaylistRepository handles user-playlist association operations.
type UserPlaylistRepository struct {
	pool *pgxpool.Pool
}

// Insert records a (user, playlist) association. A conflict on the unique
// pair is a no-op, so repeated inserts are safe.
func (r *UserPlaylistRepository) Insert(ctx context.Context, userID, playlistID string) error {
	query := `
		INSERT INTO userplaylist (user_id, playlist_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, playlist_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, userID, playlistID)
	if err != nil {
		return fmt.Errorf("inserting user playlist: %w", err)
	}
	return nil
}

// GetID returns the surrogate id for a (user, playlist) pair.
// Returns ErrNotFound when no row exists.
func (r *UserPlaylistRepository) GetID(ctx context.Context, userID, playlistID string) (int64, error) {
	query := `
		SELECT user_playlist_id
		FROM userplaylist
		WHERE user_id = $1 AND playlist_id = $2
	`
	var id int64
	err := r.pool.QueryRow(ctx, query, userID, playlistID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("querying user playlist: %w", err)
	}
	return id, nil
}
