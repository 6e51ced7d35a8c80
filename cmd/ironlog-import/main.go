package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/ironlog/internal/backend"
	"github.com/meltforce/ironlog/internal/config"
	"github.com/meltforce/ironlog/internal/importer"
	"github.com/meltforce/ironlog/internal/ingest/strong"
	"github.com/meltforce/ironlog/internal/library"
	"github.com/meltforce/ironlog/internal/models"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("csv", "", "path to Strong CSV export (required)")
	dryRun := flag.Bool("dry-run", false, "parse and report counts without writing anything")
	force := flag.Bool("force", false, "import even if this file was imported before")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironlog-import -config config.yaml -csv /path/to/strong.csv [-dry-run] [-force]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sourceUnit, err := models.ParseWeightUnit(cfg.Import.SourceUnit)
	if err != nil {
		log.Error("invalid source unit", "unit", cfg.Import.SourceUnit, "error", err)
		os.Exit(1)
	}

	info, err := os.Stat(*csvPath)
	if err != nil {
		log.Error("CSV file not accessible", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	hash, err := importer.HashFile(*csvPath)
	if err != nil {
		log.Error("failed to hash CSV file", "path", *csvPath, "error", err)
		os.Exit(1)
	}

	// Track imported files so re-running on the same export is a no-op.
	state, err := importer.OpenStateDB(cfg.Import.StateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if !*force {
		done, err := state.IsImported(*csvPath, info.Size(), hash)
		if err != nil {
			log.Error("state lookup failed", "error", err)
			os.Exit(1)
		}
		if done {
			log.Info("file already imported, skipping (use -force to re-import)", "path", *csvPath)
			return
		}
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open CSV file", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	parsed, err := strong.Parse(f)
	f.Close()
	if err != nil {
		log.Error("parse failed", "error", err)
		os.Exit(1)
	}
	log.Info("parsed CSV", "workouts", len(parsed.Workouts), "dropped_rows", len(parsed.Dropped))
	for _, row := range parsed.Dropped {
		log.Warn("dropped row", "line", row.Line, "reason", row.Reason)
	}

	if *dryRun {
		log.Info("DRY RUN mode — nothing will be written")
		for _, w := range parsed.Workouts {
			log.Info("would import", "workout", w.Name, "date", w.Date,
				"exercises", len(w.Exercises))
		}
		return
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
	log.Info("authenticated", "user_id", session.UserID)

	imp := importer.New(library.New(client, log), client, log)
	stats, err := imp.ImportAll(ctx, parsed.Workouts, session.UserID, sourceUnit, func(current, total int) {
		log.Info("importing workout", "current", current, "total", total)
	})
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	stats.LogStats(log)

	if err := state.MarkImported(*csvPath, info.Size(), hash, stats.WorkoutsImported); err != nil {
		log.Warn("failed to record imported file", "error", err)
	}
	log.Info("import complete")
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
