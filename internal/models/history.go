package models

import "time"

// HistorySet is one persisted set inside a workout history entry.
type HistorySet struct {
	ID        string  `json:"id"`
	Reps      float64 `json:"reps"`
	Weight    float64 `json:"weight"`
	SetNumber int     `json:"set_number"`
}

// HistoryLibraryRef is the library metadata embedded in a history entry.
// Nil when the library row was deleted after the workout was logged.
type HistoryLibraryRef struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// HistoryExercise is one exercise of a persisted workout with its sets.
type HistoryExercise struct {
	ID              string             `json:"id"`
	Notes           string             `json:"notes"`
	ExerciseLibrary *HistoryLibraryRef `json:"exercise_library"`
	Sets            []HistorySet       `json:"sets"`
}

// FullWorkoutHistory is the nested shape the history query returns: workout
// head, its exercises, each with the library reference and ordered sets.
type FullWorkoutHistory struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Notes            string            `json:"notes"`
	CreatedAt        time.Time         `json:"created_at"`
	WorkoutExercises []HistoryExercise `json:"workout_exercises"`
}
