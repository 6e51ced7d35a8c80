package models

import (
	"time"

	"github.com/google/uuid"
)

// NewLocalID returns a client-only identifier for in-memory list management.
// Local ids are never persisted.
func NewLocalID() string {
	return "local-" + uuid.NewString()
}

// LocalSet is one set of an in-progress exercise. Reps and weight hold raw
// user input and are coerced to numbers only at submission time.
type LocalSet struct {
	LocalID   string `json:"local_id"`
	Reps      string `json:"reps"`
	Weight    string `json:"weight"`
	SetNumber int    `json:"set_number"`
}

// LocalExercise is one exercise of an in-progress workout. Sets are owned and
// mutated at the exercise level; the whole exercise is then passed back to the
// form via UpdateExercise.
type LocalExercise struct {
	LocalID           string     `json:"local_id"`
	ExerciseLibraryID string     `json:"exercise_library_id"`
	Name              string     `json:"name"`
	ImageURL          string     `json:"image_url,omitempty"`
	Notes             string     `json:"notes"`
	Sets              []LocalSet `json:"sets"`
}

// AddSet appends a new set, pre-filling reps and weight from the immediately
// preceding set when one exists. The set number is the current count plus one.
func (ex *LocalExercise) AddSet() {
	set := LocalSet{
		LocalID:   NewLocalID(),
		SetNumber: len(ex.Sets) + 1,
	}
	if n := len(ex.Sets); n > 0 {
		set.Reps = ex.Sets[n-1].Reps
		set.Weight = ex.Sets[n-1].Weight
	}
	ex.Sets = append(ex.Sets, set)
}

// UpdateSet replaces the set with the same local id. Unknown ids are ignored.
func (ex *LocalExercise) UpdateSet(updated LocalSet) {
	for i, s := range ex.Sets {
		if s.LocalID == updated.LocalID {
			ex.Sets[i] = updated
			return
		}
	}
}

// RemoveSet filters out the set with the given local id. Remaining sets keep
// their original set numbers: after removing set 2 of [1,2,3] the survivors
// are still numbered [1,3]. Matches the source app, which never renumbers.
func (ex *LocalExercise) RemoveSet(localID string) {
	kept := ex.Sets[:0]
	for _, s := range ex.Sets {
		if s.LocalID != localID {
			kept = append(kept, s)
		}
	}
	ex.Sets = kept
}

// LocalWorkout is the single in-progress workout owned by a form session.
type LocalWorkout struct {
	Name      string          `json:"name"`
	Notes     string          `json:"notes"`
	Exercises []LocalExercise `json:"exercises"`
}

// ImportableSet is one parsed set from a Strong CSV export.
type ImportableSet struct {
	SetNumber int     `json:"set_number"`
	Weight    float64 `json:"weight"`
	Reps      float64 `json:"reps"`
}

// ImportableExercise groups the sets of one exercise within an imported workout.
type ImportableExercise struct {
	Name string          `json:"name"`
	Sets []ImportableSet `json:"sets"`
}

// ImportableWorkout is one workout parsed out of a Strong CSV export. ID is a
// transient identifier for list selection in a preview, not a database key.
// Date keeps the raw CSV string (grouping is byte-exact); ParsedDate backs
// sorting and the created_at of the eventual submission.
type ImportableWorkout struct {
	ID         string               `json:"id"`
	Date       string               `json:"date"`
	ParsedDate time.Time            `json:"parsed_date"`
	Name       string               `json:"name"`
	Duration   string               `json:"duration"`
	Exercises  []ImportableExercise `json:"exercises"`
}

// WorkoutInsert is the workout head of a submission.
type WorkoutInsert struct {
	Name      string     `json:"name"`
	Notes     string     `json:"notes"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UserID    string     `json:"user_id"`
}

// SetInsert is one set row of a submission. Weight is always kilograms.
type SetInsert struct {
	SetNumber int     `json:"set_number"`
	Reps      float64 `json:"reps"`
	Weight    float64 `json:"weight"`
	UserID    string  `json:"user_id"`
}

// ExerciseInsert is the exercise head of a submission.
type ExerciseInsert struct {
	ExerciseLibraryID string `json:"exercise_library_id"`
	Notes             string `json:"notes"`
	UserID            string `json:"user_id"`
}

// ExerciseSubmission pairs an exercise head with its sets.
type ExerciseSubmission struct {
	Data ExerciseInsert `json:"data"`
	Sets []SetInsert    `json:"sets"`
}

// WorkoutSubmission is the normalized payload both pipelines produce before
// calling the persistence service. The backend links the foreign keys inside
// a single save_full_workout call.
type WorkoutSubmission struct {
	Workout   WorkoutInsert        `json:"workout"`
	Exercises []ExerciseSubmission `json:"exercises"`
}

// WorkoutRecord is the persisted workout row returned by the backend.
type WorkoutRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}

// ExerciseLibraryItem is a canonical named movement shared across users.
type ExerciseLibraryItem struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ImageURL           string `json:"image_url,omitempty"`
	PrimaryMuscleGroup string `json:"primary_muscle_group,omitempty"`
}

// Profile is the per-user settings row.
type Profile struct {
	ID         string      `json:"id"`
	Username   string      `json:"username,omitempty"`
	WeightUnit *WeightUnit `json:"weight_unit"`
}

// Session is the authenticated user context handed to the form and the import
// orchestrator. A zero UserID means no active session.
type Session struct {
	UserID string
	Unit   WeightUnit
}

// PreferredUnit returns the profile's unit, defaulting to kilograms when the
// profile has no preference set.
func (p *Profile) PreferredUnit() WeightUnit {
	if p != nil && p.WeightUnit != nil {
		return *p.WeightUnit
	}
	return UnitKG
}
