// Package importer drives the batch import of parsed Strong workouts into the
// backend: resolve exercise references, normalize weights to kilograms, and
// persist each workout with one atomic call.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/meltforce/ironlog/internal/library"
	"github.com/meltforce/ironlog/internal/models"
)

// Backend is the slice of the persistence service the importer needs.
type Backend interface {
	SaveWorkout(ctx context.Context, sub models.WorkoutSubmission) (*models.WorkoutRecord, error)
}

// ProgressFunc is called before each workout is processed, with the 1-based
// index of the workout about to be handled and the total count.
type ProgressFunc func(current, total int)

// Stats aggregates the outcome of one batch import. Row- and exercise-level
// failures are absorbed here rather than aborting the batch; callers needing
// per-workout status should instrument the progress callback.
type Stats struct {
	WorkoutsAttempted int `json:"workouts_attempted"`
	WorkoutsImported  int `json:"workouts_imported"`
	WorkoutsFailed    int `json:"workouts_failed"`
	ExercisesDropped  int `json:"exercises_dropped"`
	SetsImported      int `json:"sets_imported"`
}

// Importer imports parsed workouts sequentially. Sequential processing keeps
// progress reporting monotonic and bounds concurrent load on the backend.
type Importer struct {
	resolver *library.Resolver
	backend  Backend
	log      *slog.Logger
}

// New creates an Importer.
func New(resolver *library.Resolver, backend Backend, log *slog.Logger) *Importer {
	return &Importer{resolver: resolver, backend: backend, log: log}
}

// ImportAll persists each workout in order. Exercise resolution failures drop
// that exercise; a workout left with no exercises is skipped as failed rather
// than submitted empty. Persistence failures are logged and the batch
// continues. Weights are converted from sourceUnit to kilograms; reps pass
// through unconverted.
func (imp *Importer) ImportAll(ctx context.Context, workouts []models.ImportableWorkout, userID string, sourceUnit models.WeightUnit, onProgress ProgressFunc) (*Stats, error) {
	stats := &Stats{}
	total := len(workouts)

	for i, w := range workouts {
		if onProgress != nil {
			onProgress(i+1, total)
		}
		stats.WorkoutsAttempted++

		sub, dropped := imp.buildSubmission(ctx, w, userID, sourceUnit)
		stats.ExercisesDropped += dropped

		if len(sub.Exercises) == 0 {
			imp.log.Warn("skipping workout with no resolvable exercises",
				"workout", w.Name, "date", w.Date)
			stats.WorkoutsFailed++
			continue
		}

		record, err := imp.backend.SaveWorkout(ctx, sub)
		if err != nil {
			imp.log.Error("failed to save imported workout",
				"workout", w.Name, "date", w.Date, "error", err)
			stats.WorkoutsFailed++
			continue
		}

		stats.WorkoutsImported++
		for _, ex := range sub.Exercises {
			stats.SetsImported += len(ex.Sets)
		}
		imp.log.Info("imported workout", "workout", w.Name, "id", record.ID,
			"exercises", len(sub.Exercises))
	}

	return stats, nil
}

// buildSubmission resolves exercise references and assembles the normalized
// payload for one workout. Returns the submission and the number of exercises
// dropped due to resolution failures.
func (imp *Importer) buildSubmission(ctx context.Context, w models.ImportableWorkout, userID string, sourceUnit models.WeightUnit) (models.WorkoutSubmission, int) {
	dropped := 0
	createdAt := w.ParsedDate

	sub := models.WorkoutSubmission{
		Workout: models.WorkoutInsert{
			Name:      w.Name,
			Notes:     fmt.Sprintf("Imported from Strong. Duration: %s", w.Duration),
			CreatedAt: &createdAt,
			UserID:    userID,
		},
	}

	for _, ex := range w.Exercises {
		libraryID, err := imp.resolver.Resolve(ctx, ex.Name)
		if err != nil {
			imp.log.Warn("dropping exercise, resolution failed",
				"exercise", ex.Name, "workout", w.Name, "error", err)
			dropped++
			continue
		}

		exSub := models.ExerciseSubmission{
			Data: models.ExerciseInsert{
				ExerciseLibraryID: libraryID,
				UserID:            userID,
			},
		}
		for _, s := range ex.Sets {
			exSub.Sets = append(exSub.Sets, models.SetInsert{
				SetNumber: s.SetNumber,
				Reps:      s.Reps,
				Weight:    models.ToKg(s.Weight, sourceUnit),
				UserID:    userID,
			})
		}
		sub.Exercises = append(sub.Exercises, exSub)
	}

	return sub, dropped
}

// LogStats writes a one-line summary of a finished batch.
func (s *Stats) LogStats(log *slog.Logger) {
	log.Info("import stats",
		"workouts_attempted", s.WorkoutsAttempted,
		"workouts_imported", s.WorkoutsImported,
		"workouts_failed", s.WorkoutsFailed,
		"exercises_dropped", s.ExercisesDropped,
		"sets_imported", s.SetsImported,
	)
}

// String renders the stats for CLI output.
func (s *Stats) String() string {
	return "imported " + strconv.Itoa(s.WorkoutsImported) + "/" +
		strconv.Itoa(s.WorkoutsAttempted) + " workouts (" +
		strconv.Itoa(s.SetsImported) + " sets, " +
		strconv.Itoa(s.ExercisesDropped) + " exercises dropped)"
}
