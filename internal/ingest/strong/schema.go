package strong

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column names of a Strong CSV export. Distance, Seconds, RPE and Notes are
// accepted but ignored by the grouping logic.
const (
	colDate         = "Date"
	colWorkoutName  = "Workout Name"
	colDuration     = "Duration"
	colExerciseName = "Exercise Name"
	colSetOrder     = "Set Order"
	colWeight       = "Weight"
	colReps         = "Reps"
)

// Row is one validated and coerced record of the export.
type Row struct {
	Line         int
	Date         string
	ParsedDate   time.Time
	WorkoutName  string
	Duration     string
	ExerciseName string
	SetOrder     int
	Weight       float64
	Reps         float64
}

// InvalidRow identifies a record rejected during validation, by its 1-based
// source line. Invalid rows are dropped; they never fail the parse on their own.
type InvalidRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// headerIndex maps trimmed column names to field positions.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

// field returns the named column's value, reporting whether the column exists
// and the record is long enough to carry it.
func field(cols map[string]int, record []string, name string) (string, bool) {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return "", false
	}
	return record[i], true
}

// coerceRow validates one raw record against the Strong schema. Required
// fields are Date, Workout Name, Exercise Name and Set Order; a failed
// coercion rejects the row. Weight and Reps default to 0 when blank or
// unparseable rather than failing.
func coerceRow(cols map[string]int, record []string, line int) (Row, error) {
	row := Row{Line: line}

	date, ok := field(cols, record, colDate)
	if !ok || strings.TrimSpace(date) == "" {
		return row, fmt.Errorf("missing %s", colDate)
	}
	parsed, err := parseDate(date)
	if err != nil {
		return row, fmt.Errorf("unparseable %s %q", colDate, date)
	}
	row.Date = date
	row.ParsedDate = parsed

	name, ok := field(cols, record, colWorkoutName)
	if !ok || strings.TrimSpace(name) == "" {
		return row, fmt.Errorf("missing %s", colWorkoutName)
	}
	row.WorkoutName = name

	// An empty exercise name is kept: it forms a degenerate exercise group.
	// Only a structurally absent field rejects the row.
	exName, ok := field(cols, record, colExerciseName)
	if !ok {
		return row, fmt.Errorf("missing %s", colExerciseName)
	}
	row.ExerciseName = exName

	orderStr, ok := field(cols, record, colSetOrder)
	if !ok || strings.TrimSpace(orderStr) == "" {
		return row, fmt.Errorf("missing %s", colSetOrder)
	}
	order, err := strconv.ParseFloat(strings.TrimSpace(orderStr), 64)
	if err != nil || order < 1 {
		return row, fmt.Errorf("invalid %s %q", colSetOrder, orderStr)
	}
	row.SetOrder = int(order)

	duration, _ := field(cols, record, colDuration)
	row.Duration = duration
	row.Weight = numberOrZero(cols, record, colWeight)
	row.Reps = numberOrZero(cols, record, colReps)

	return row, nil
}

// numberOrZero coerces an optional numeric column, defaulting blank or
// malformed values to 0.
func numberOrZero(cols map[string]int, record []string, name string) float64 {
	s, ok := field(cols, record, name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseDate accepts the timestamp formats Strong has exported over the years.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		time.RFC3339,
	} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}
