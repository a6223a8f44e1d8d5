// Package config loads Shufflefy configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const defaultPort = "5000"

// Common errors.
var (
	ErrMissingCredentials = errors.New("missing SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET environment variable")
	ErrMissingRedirectURI = errors.New("missing SPOTIFY_REDIRECT_URI environment variable")
)

// Config holds the server configuration. All values come from the
// environment; DatabaseURL is optional and selects the Postgres-backed
// session store and association recorder when set.
type Config struct {
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	SessionSecret string
	RootURI       string
	Port          string
	DatabaseURL   string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:      os.Getenv("SPOTIFY_CLIENT_ID"),
		ClientSecret:  os.Getenv("SPOTIFY_CLIENT_SECRET"),
		RedirectURI:   os.Getenv("SPOTIFY_REDIRECT_URI"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		RootURI:       os.Getenv("ROOT_URI"),
		Port:          os.Getenv("PORT"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.RedirectURI == "" {
		return nil, ErrMissingRedirectURI
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}
