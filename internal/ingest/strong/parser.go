package strong

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/meltforce/ironlog/internal/models"
)

var (
	// ErrEmptyImport means the input carried no data rows at all.
	ErrEmptyImport = errors.New("no data found in CSV")
	// ErrNoValidRows means data rows existed but none survived validation.
	ErrNoValidRows = errors.New("no valid rows in CSV")
)

// ParseResult holds the grouped workouts of one import pass plus the rows
// dropped during validation.
type ParseResult struct {
	Workouts []models.ImportableWorkout `json:"workouts"`
	Dropped  []InvalidRow               `json:"dropped,omitempty"`
}

// Parse reads a Strong CSV export and groups its rows into workouts.
//
// Rows group into a workout by the byte-exact (Date, Workout Name) pair, and
// within a workout into exercises by exact name, both in encounter order.
// Sets keep their source order and take set_number from the Set Order column,
// not from row position. The returned workouts are sorted by parsed date
// descending; ties keep encounter order.
func Parse(r io.Reader) (*ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptyImport
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	cols := headerIndex(header)

	var rows []Row
	var dropped []InvalidRow
	dataRows := 0
	line := 1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			dataRows++
			dropped = append(dropped, InvalidRow{Line: line, Reason: "malformed CSV record"})
			continue
		}
		if isBlank(record) {
			continue
		}
		dataRows++
		row, verr := coerceRow(cols, record, line)
		if verr != nil {
			dropped = append(dropped, InvalidRow{Line: line, Reason: verr.Error()})
			continue
		}
		rows = append(rows, row)
	}

	if dataRows == 0 {
		return nil, ErrEmptyImport
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w (%d rows dropped)", ErrNoValidRows, len(dropped))
	}

	return &ParseResult{Workouts: group(rows), Dropped: dropped}, nil
}

// group builds one ImportableWorkout per (date, workout name) pair.
func group(rows []Row) []models.ImportableWorkout {
	type exerciseGroup struct {
		name string
		sets []models.ImportableSet
	}
	type workoutGroup struct {
		first     Row
		exercises []*exerciseGroup
		exIndex   map[string]*exerciseGroup
	}

	var order []*workoutGroup
	index := make(map[string]*workoutGroup)

	for _, row := range rows {
		key := row.Date + "|" + row.WorkoutName
		wg, ok := index[key]
		if !ok {
			wg = &workoutGroup{first: row, exIndex: make(map[string]*exerciseGroup)}
			index[key] = wg
			order = append(order, wg)
		}

		eg, ok := wg.exIndex[row.ExerciseName]
		if !ok {
			eg = &exerciseGroup{name: row.ExerciseName}
			wg.exIndex[row.ExerciseName] = eg
			wg.exercises = append(wg.exercises, eg)
		}
		eg.sets = append(eg.sets, models.ImportableSet{
			SetNumber: row.SetOrder,
			Weight:    row.Weight,
			Reps:      row.Reps,
		})
	}

	results := make([]models.ImportableWorkout, 0, len(order))
	for _, wg := range order {
		w := models.ImportableWorkout{
			ID:         uuid.NewString(),
			Date:       wg.first.Date,
			ParsedDate: wg.first.ParsedDate,
			Name:       wg.first.WorkoutName,
			Duration:   wg.first.Duration,
		}
		for _, eg := range wg.exercises {
			w.Exercises = append(w.Exercises, models.ImportableExercise{
				Name: eg.name,
				Sets: eg.sets,
			})
		}
		results = append(results, w)
	}

	// Most recent first; stable so equal dates keep encounter order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ParsedDate.After(results[j].ParsedDate)
	})
	return results
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
