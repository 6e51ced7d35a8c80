package form

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/meltforce/ironlog/internal/models"
)

type stubSaver struct {
	saved []models.WorkoutSubmission
	err   error
}

func (s *stubSaver) SaveWorkout(_ context.Context, sub models.WorkoutSubmission) (*models.WorkoutRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = append(s.saved, sub)
	return &models.WorkoutRecord{ID: "wk-1", Name: sub.Workout.Name}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func session() models.Session {
	return models.Session{UserID: "user-1", Unit: models.UnitKG}
}

func benchItem() models.ExerciseLibraryItem {
	return models.ExerciseLibraryItem{ID: "ex-1", Name: "Bench Press"}
}

func TestNewFormTemplate(t *testing.T) {
	f := New(&stubSaver{}, session(), discard())
	w := f.Workout()
	if w.Name != "New Workout" {
		t.Errorf("name = %q, want New Workout", w.Name)
	}
	if len(w.Exercises) != 0 {
		t.Errorf("exercises = %d, want 0", len(w.Exercises))
	}
	if f.Saving() {
		t.Error("fresh form must not be saving")
	}
}

func TestUpdateField(t *testing.T) {
	f := New(&stubSaver{}, session(), discard())
	f.UpdateField(FieldName, "Leg Day")
	f.UpdateField(FieldNotes, "focus on form")
	f.UpdateField("bogus", "ignored")

	w := f.Workout()
	if w.Name != "Leg Day" || w.Notes != "focus on form" {
		t.Errorf("workout = %+v, want name/notes updated", w)
	}
}

// TestAddExercise verifies the appended exercise carries one blank default
// set and that the picker flag closes.
func TestAddExercise(t *testing.T) {
	f := New(&stubSaver{}, session(), discard())
	f.ShowPicker()
	f.AddExercise(benchItem())

	if f.PickerVisible() {
		t.Error("picker must close after adding an exercise")
	}
	w := f.Workout()
	if len(w.Exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(w.Exercises))
	}
	ex := w.Exercises[0]
	if ex.ExerciseLibraryID != "ex-1" || ex.Name != "Bench Press" {
		t.Errorf("exercise = %+v", ex)
	}
	if len(ex.Sets) != 1 || ex.Sets[0].SetNumber != 1 || ex.Sets[0].Reps != "" {
		t.Errorf("default set = %+v, want blank set numbered 1", ex.Sets)
	}
}

func TestRemoveExercise(t *testing.T) {
	f := New(&stubSaver{}, session(), discard())
	f.AddExercise(benchItem())
	f.AddExercise(models.ExerciseLibraryItem{ID: "ex-2", Name: "Squat"})

	f.RemoveExercise(f.Workout().Exercises[0].LocalID)

	w := f.Workout()
	if len(w.Exercises) != 1 || w.Exercises[0].Name != "Squat" {
		t.Errorf("exercises = %+v, want only Squat", w.Exercises)
	}
}

// TestUpdateExerciseCarriesSetEdits verifies set mutations performed on the
// exercise value flow back through UpdateExercise.
func TestUpdateExerciseCarriesSetEdits(t *testing.T) {
	f := New(&stubSaver{}, session(), discard())
	f.AddExercise(benchItem())

	ex, ok := f.Exercise(f.Workout().Exercises[0].LocalID)
	if !ok {
		t.Fatal("exercise not found")
	}
	ex.Sets[0].Reps = "8"
	ex.Sets[0].Weight = "100"
	ex.AddSet()
	ex.Notes = "paused reps"
	f.UpdateExercise(ex)

	got := f.Workout().Exercises[0]
	if got.Notes != "paused reps" {
		t.Errorf("notes = %q", got.Notes)
	}
	if len(got.Sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(got.Sets))
	}
	if got.Sets[1].Reps != "8" || got.Sets[1].Weight != "100" {
		t.Errorf("second set = %+v, want prefilled from first", got.Sets[1])
	}
}

// TestFinishGuards verifies both validation errors fire before any
// persistence call.
func TestFinishGuards(t *testing.T) {
	saver := &stubSaver{}

	anon := New(saver, models.Session{}, discard())
	anon.AddExercise(benchItem())
	if _, err := anon.Finish(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}

	empty := New(saver, session(), discard())
	if _, err := empty.Finish(context.Background()); !errors.Is(err, ErrEmptyWorkout) {
		t.Errorf("error = %v, want ErrEmptyWorkout", err)
	}

	if len(saver.saved) != 0 {
		t.Errorf("saves = %d, want 0 (guards must precede the network call)", len(saver.saved))
	}
}

// TestFinishSuccessResets verifies a successful save resets the form to the
// fresh template.
func TestFinishSuccessResets(t *testing.T) {
	saver := &stubSaver{}
	f := New(saver, session(), discard())
	f.UpdateField(FieldName, "Push Day")
	f.AddExercise(benchItem())

	record, err := f.Finish(context.Background())
	if err != nil {
		t.Fatalf("finish error: %v", err)
	}
	if record.ID != "wk-1" {
		t.Errorf("record id = %q, want wk-1", record.ID)
	}
	if len(saver.saved) != 1 {
		t.Fatalf("saves = %d, want 1", len(saver.saved))
	}

	w := f.Workout()
	if w.Name != "New Workout" || len(w.Exercises) != 0 {
		t.Errorf("workout after save = %+v, want fresh template", w)
	}
	if f.Saving() {
		t.Error("saving flag must clear after success")
	}
}

// TestFinishFailureKeepsData verifies a persistence failure leaves the
// in-progress workout untouched for retry.
func TestFinishFailureKeepsData(t *testing.T) {
	saver := &stubSaver{err: errors.New("DB Error")}
	f := New(saver, session(), discard())
	f.UpdateField(FieldName, "Push Day")
	f.AddExercise(benchItem())

	_, err := f.Finish(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	w := f.Workout()
	if w.Name != "Push Day" || len(w.Exercises) != 1 {
		t.Errorf("workout after failed save = %+v, want data retained", w)
	}
	if f.Saving() {
		t.Error("saving flag must clear after failure")
	}

	// The retained data saves cleanly once the backend recovers.
	saver.err = nil
	if _, err := f.Finish(context.Background()); err != nil {
		t.Errorf("retry error: %v", err)
	}
}

func TestReset(t *testing.T) {
	f := New(&stubSaver{}, session(), discard())
	f.UpdateField(FieldName, "Scrapped")
	f.AddExercise(benchItem())

	f.Reset()

	w := f.Workout()
	if w.Name != "New Workout" || len(w.Exercises) != 0 {
		t.Errorf("workout after reset = %+v, want fresh template", w)
	}
}

func TestSetUnitAppliesToOpenDraft(t *testing.T) {
	saver := &stubSaver{}
	f := New(saver, session(), discard())
	f.AddExercise(benchItem())

	ex := f.Workout().Exercises[0]
	ex.Sets[0].Weight = "220"
	ex.Sets[0].Reps = "5"
	f.UpdateExercise(ex)

	// Preference flips to pounds while the draft is open.
	f.SetUnit(models.UnitLB)

	if _, err := f.Finish(context.Background()); err != nil {
		t.Fatalf("finish error: %v", err)
	}

	got := saver.saved[0].Exercises[0].Sets[0].Weight
	want := 220 / models.LbPerKg
	if diff := got - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("weight = %v kg, want %v (converted from lb)", got, want)
	}
}
