package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailscale.com/tsnet"

	"github.com/meltforce/ironlog/internal/backend"
	"github.com/meltforce/ironlog/internal/config"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/profile"
	"github.com/meltforce/ironlog/internal/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronLog starting", "version", Version)

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

	ctx := context.Background()
	session, err := authenticate(ctx, client, cfg)
	if err != nil {
		log.Error("authentication failed", "error", err)
		os.Exit(1)
	}
	log.Info("authenticated", "user_id", session.UserID, "unit", session.Unit)

	settings, err := profile.Load(ctx, client, session.UserID, log)
	if err != nil {
		log.Error("failed to load profile", "error", err)
		os.Exit(1)
	}

	srv := server.New(client, session, settings, cfg.Server.APIKey, log)

	// Listen on the tailnet or a plain TCP port.
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
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
