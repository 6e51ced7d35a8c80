package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/ironlog/internal/backend"
	"github.com/meltforce/ironlog/internal/config"
	ironmcp "github.com/meltforce/ironlog/internal/mcp"
	"github.com/meltforce/ironlog/internal/models"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client, err := backend.New(cfg.Supabase.URL, cfg.Supabase.AnonKey, log)
	if err != nil {
		log.Error("failed to create backend client", "error", err)
		os.Exit(1)
	}

	session, err := authenticate(context.Background(), client, cfg)
	if err != nil {
		log.Error("authentication failed", "error", err)
		os.Exit(1)
	}
	log.Info("authenticated", "user_id", session.UserID, "unit", session.Unit)

	s := ironmcp.New(client, session, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

// authenticate signs in with email/password, or attaches the pre-issued token
// when the config provides one.
func authenticate(ctx context.Context, client *backend.Client, cfg *config.Config) (models.Session, error) {
	if cfg.Supabase.AccessToken != "" {
		client.UseToken(cfg.Supabase.AccessToken)
		session := models.Session{UserID: cfg.Supabase.UserID, Unit: models.UnitKG}
		if p, err := client.GetProfile(ctx, session.UserID); err == nil {
			session.Unit = p.PreferredUnit()
		}
		return session, nil
	}
	return client.SignIn(cfg.Supabase.Email, cfg.Supabase.Password)
}
