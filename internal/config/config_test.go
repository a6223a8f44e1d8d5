package config

import (
	"errors"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("SPOTIFY_REDIRECT_URI", "http://localhost:5000/callback")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("ROOT_URI", "http://localhost:3000")
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://localhost/shufflefy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ClientID != "id" {
		t.Errorf("ClientID = %q, want %q", cfg.ClientID, "id")
	}
	if cfg.RootURI != "http://localhost:3000" {
		t.Errorf("RootURI = %q", cfg.RootURI)
	}
	if got := cfg.Addr(); got != ":8081" {
		t.Errorf("Addr() = %q, want :8081", got)
	}
	if cfg.DatabaseURL != "postgres://localhost/shufflefy" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoad_DefaultPort(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Addr(); got != ":5000" {
		t.Errorf("Addr() = %q, want :5000", got)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Setenv("SPOTIFY_REDIRECT_URI", "http://localhost:5000/callback")

	if _, err := Load(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Load() error = %v, want ErrMissingCredentials", err)
	}
}

func TestLoad_MissingRedirectURI(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("SPOTIFY_REDIRECT_URI", "")

	if _, err := Load(); !errors.Is(err, ErrMissingRedirectURI) {
		t.Errorf("Load() error = %v, want ErrMissingRedirectURI", err)
	}
}
