// Package form holds the in-memory model of one in-progress workout: adding
// and editing exercises and sets, and the save/reset lifecycle.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meltforce/ironlog/internal/models"
)

var (
	// ErrNotAuthenticated means no active user session; nothing was sent.
	ErrNotAuthenticated = errors.New("you must be logged in to save a workout")
	// ErrEmptyWorkout means the workout has no exercises; nothing was sent.
	ErrEmptyWorkout = errors.New("add at least one exercise to save")
)

// Saver is the slice of the persistence service the form needs.
type Saver interface {
	SaveWorkout(ctx context.Context, sub models.WorkoutSubmission) (*models.WorkoutRecord, error)
}

// Form is a reusable workout editing session. It is not safe for concurrent
// use; one form belongs to one user session.
type Form struct {
	saver   Saver
	session models.Session
	log     *slog.Logger

	workout       models.LocalWorkout
	saving        bool
	pickerVisible bool
}

// New creates a form pre-loaded with the fresh workout template. The session
// is injected explicitly; the form never consults ambient auth state.
func New(saver Saver, session models.Session, log *slog.Logger) *Form {
	return &Form{
		saver:   saver,
		session: session,
		log:     log,
		workout: newTemplate(),
	}
}

func newTemplate() models.LocalWorkout {
	return models.LocalWorkout{Name: "New Workout"}
}

// SetUnit changes the weight unit applied when the workout is submitted.
// Called when the user flips their preference while a draft is open.
func (f *Form) SetUnit(unit models.WeightUnit) {
	f.session.Unit = unit
}

// Workout returns the current in-progress workout.
func (f *Form) Workout() models.LocalWorkout { return f.workout }

// Saving reports whether a save is in flight.
func (f *Form) Saving() bool { return f.saving }

// PickerVisible reports whether the exercise picker should be shown.
func (f *Form) PickerVisible() bool { return f.pickerVisible }

// ShowPicker opens the exercise picker flag.
func (f *Form) ShowPicker() { f.pickerVisible = true }

// HidePicker closes the exercise picker flag.
func (f *Form) HidePicker() { f.pickerVisible = false }

// Field names accepted by UpdateField.
const (
	FieldName  = "name"
	FieldNotes = "notes"
)

// UpdateField merges a top-level field edit into the workout.
func (f *Form) UpdateField(field, value string) {
	switch field {
	case FieldName:
		f.workout.Name = value
	case FieldNotes:
		f.workout.Notes = value
	}
}

// AddExercise appends a library exercise with one blank default set and
// closes the picker.
func (f *Form) AddExercise(item models.ExerciseLibraryItem) {
	ex := models.LocalExercise{
		LocalID:           models.NewLocalID(),
		ExerciseLibraryID: item.ID,
		Name:              item.Name,
		ImageURL:          item.ImageURL,
		Sets: []models.LocalSet{
			{LocalID: models.NewLocalID(), SetNumber: 1},
		},
	}
	f.workout.Exercises = append(f.workout.Exercises, ex)
	f.pickerVisible = false
}

// RemoveExercise filters out the exercise with the given local id.
func (f *Form) RemoveExercise(localID string) {
	kept := f.workout.Exercises[:0]
	for _, ex := range f.workout.Exercises {
		if ex.LocalID != localID {
			kept = append(kept, ex)
		}
	}
	f.workout.Exercises = kept
}

// UpdateExercise replaces the exercise matching the local id. Set add/update/
// remove is performed on the exercise value and passed back through here.
func (f *Form) UpdateExercise(updated models.LocalExercise) {
	for i, ex := range f.workout.Exercises {
		if ex.LocalID == updated.LocalID {
			f.workout.Exercises[i] = updated
			return
		}
	}
}

// Exercise returns the exercise with the given local id, if present.
func (f *Form) Exercise(localID string) (models.LocalExercise, bool) {
	for _, ex := range f.workout.Exercises {
		if ex.LocalID == localID {
			return ex, true
		}
	}
	return models.LocalExercise{}, false
}

// Finish validates, normalizes and persists the current workout. On success
// the form resets to a fresh template. On failure the in-progress workout is
// kept untouched so the user can retry.
func (f *Form) Finish(ctx context.Context) (*models.WorkoutRecord, error) {
	if f.session.UserID == "" {
		return nil, ErrNotAuthenticated
	}
	if len(f.workout.Exercises) == 0 {
		return nil, ErrEmptyWorkout
	}

	f.saving = true
	sub := BuildSubmission(f.workout, f.session.UserID, f.session.Unit)

	record, err := f.saver.SaveWorkout(ctx, sub)
	if err != nil {
		f.saving = false
		f.log.Error("failed to save workout", "workout", f.workout.Name, "error", err)
		return nil, fmt.Errorf("failed to save workout: %w", err)
	}

	f.log.Info("workout saved", "id", record.ID, "name", sub.Workout.Name)
	f.workout = newTemplate()
	f.saving = false
	return record, nil
}

// Reset discards the in-progress workout unconditionally. Any confirmation
// step belongs to the surrounding UI.
func (f *Form) Reset() {
	f.workout = newTemplate()
}
