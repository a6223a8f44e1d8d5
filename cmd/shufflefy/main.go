// Command shufflefy runs the Shufflefy backend server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Daframp/Shufflefy/internal/config"
	"github.com/Daframp/Shufflefy/internal/db"
	"github.com/Daframp/Shufflefy/internal/web"
	webfs "github.com/Daframp/Shufflefy/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	serverCfg := web.ServerConfig{
		Addr:         cfg.Addr(),
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		RootURI:      cfg.RootURI,
		StaticFS:     webfs.StaticFS,
		Logger:       logger,
	}

	// The database is optional: without it sessions live in memory and the
	// /db endpoints report a database error, matching a deployment where
	// the table was never provisioned.
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}

		serverCfg.Sessions = web.NewDBStore(database)
		serverCfg.Associations = database.UserPlaylists()
	}

	server, err := web.NewServer(serverCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
