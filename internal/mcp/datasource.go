package mcp

import (
	"context"

	"github.com/meltforce/ironlog/internal/backend"
	"github.com/meltforce/ironlog/internal/models"
)

// DataSource abstracts the persistence service for MCP tools.
type DataSource interface {
	SaveWorkout(ctx context.Context, sub models.WorkoutSubmission) (*models.WorkoutRecord, error)
	FindExerciseByName(ctx context.Context, name string) (*models.ExerciseLibraryItem, error)
	CreateExercise(ctx context.Context, name string) (*models.ExerciseLibraryItem, error)
	SearchExercises(ctx context.Context, query string) ([]models.ExerciseLibraryItem, error)
	WorkoutHistory(ctx context.Context, userID string) ([]models.FullWorkoutHistory, error)
}

// Compile-time check: *backend.Client satisfies DataSource.
var _ DataSource = (*backend.Client)(nil)
