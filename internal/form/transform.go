package form

import (
	"strconv"
	"strings"

	"github.com/meltforce/ironlog/internal/models"
)

// BuildSubmission normalizes an in-progress workout into the submission
// payload: raw string reps/weight coerce to numbers (blank or non-numeric
// becomes 0) and weights convert to kilograms from the user's preferred unit.
func BuildSubmission(w models.LocalWorkout, userID string, unit models.WeightUnit) models.WorkoutSubmission {
	name := w.Name
	if name == "" {
		name = "Untitled Workout"
	}

	sub := models.WorkoutSubmission{
		Workout: models.WorkoutInsert{
			Name:   name,
			Notes:  w.Notes,
			UserID: userID,
		},
	}

	for _, ex := range w.Exercises {
		exSub := models.ExerciseSubmission{
			Data: models.ExerciseInsert{
				ExerciseLibraryID: ex.ExerciseLibraryID,
				Notes:             ex.Notes,
				UserID:            userID,
			},
		}
		for _, s := range ex.Sets {
			exSub.Sets = append(exSub.Sets, models.SetInsert{
				SetNumber: s.SetNumber,
				Reps:      numberOrZero(s.Reps),
				Weight:    models.ToKg(numberOrZero(s.Weight), unit),
				UserID:    userID,
			})
		}
		sub.Exercises = append(sub.Exercises, exSub)
	}

	return sub
}

func numberOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
