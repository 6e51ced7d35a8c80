// Package library resolves free-text exercise names to stable exercise
// library ids, creating canonical entries on first sight.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meltforce/ironlog/internal/models"
)

// Store is the slice of the backend the resolver needs.
type Store interface {
	FindExerciseByName(ctx context.Context, name string) (*models.ExerciseLibraryItem, error)
	CreateExercise(ctx context.Context, name string) (*models.ExerciseLibraryItem, error)
}

// Resolver maps exercise names to library ids. Matching is case-insensitive;
// a per-run cache keeps repeated resolutions of the same name from hitting
// the backend twice or creating duplicate entries.
type Resolver struct {
	store Store
	log   *slog.Logger
	cache map[string]string
}

// New creates a Resolver.
func New(store Store, log *slog.Logger) *Resolver {
	return &Resolver{store: store, log: log, cache: make(map[string]string)}
}

// Resolve returns the library id for the given exercise name, creating a new
// entry with default metadata when no existing entry matches.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	existing, err := r.store.FindExerciseByName(ctx, name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		r.cache[key] = existing.ID
		return existing.ID, nil
	}

	created, err := r.store.CreateExercise(ctx, name)
	if err != nil {
		return "", fmt.Errorf("resolving exercise %q: %w", name, err)
	}
	r.log.Info("created exercise library entry", "name", name, "id", created.ID)
	r.cache[key] = created.ID
	return created.ID, nil
}
