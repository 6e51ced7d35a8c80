// Package profile manages the user's settings row, with optimistic local
// updates that roll back when the remote write fails.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meltforce/ironlog/internal/models"
)

// Store is the slice of the backend the settings need.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateWeightUnit(ctx context.Context, userID string, unit models.WeightUnit) error
}

// Settings holds the in-memory copy of one user's profile.
type Settings struct {
	store   Store
	log     *slog.Logger
	profile models.Profile
}

// Load fetches the profile and wraps it in a Settings session. A missing
// profile row yields defaults keyed to the user id.
func Load(ctx context.Context, store Store, userID string, log *slog.Logger) (*Settings, error) {
	p, err := store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if p == nil {
		p = &models.Profile{ID: userID}
	}
	return &Settings{store: store, log: log, profile: *p}, nil
}

// Profile returns the current (possibly optimistically updated) profile.
func (s *Settings) Profile() models.Profile { return s.profile }

// PreferredUnit returns the effective weight unit.
func (s *Settings) PreferredUnit() models.WeightUnit {
	p := s.profile
	return (&p).PreferredUnit()
}

// SetWeightUnit applies the new unit locally, attempts the remote write, and
// restores the previous value if the write fails.
func (s *Settings) SetWeightUnit(ctx context.Context, unit models.WeightUnit) error {
	prev := s.profile.WeightUnit
	s.profile.WeightUnit = &unit

	if err := s.store.UpdateWeightUnit(ctx, s.profile.ID, unit); err != nil {
		s.profile.WeightUnit = prev
		s.log.Warn("weight unit update failed, reverted", "unit", unit, "error", err)
		return fmt.Errorf("updating weight unit: %w", err)
	}
	return nil
}
