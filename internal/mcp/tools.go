package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/ironlog/internal/form"
	"github.com/meltforce/ironlog/internal/importer"
	"github.com/meltforce/ironlog/internal/ingest/strong"
	"github.com/meltforce/ironlog/internal/library"
	"github.com/meltforce/ironlog/internal/models"
)

// --- Tool definitions ---

var toolPreviewStrongCSV = mcp.NewTool("preview_strong_csv",
	mcp.WithDescription("Parse a Strong app CSV export and return the workouts it contains, grouped and sorted newest first, without importing anything. Also reports any rows that were dropped as invalid."),
	mcp.WithString("csv", mcp.Required(), mcp.Description("The raw CSV file content")),
)

var toolImportStrongCSV = mcp.NewTool("import_strong_csv",
	mcp.WithDescription("Parse a Strong app CSV export and import every workout into the user's account. Returns import statistics."),
	mcp.WithString("csv", mcp.Required(), mcp.Description("The raw CSV file content")),
	mcp.WithString("source_unit", mcp.Description("Weight unit of the export: 'lbs' or 'kg'. Defaults to 'lbs', Strong's stock export unit."), mcp.Enum("lbs", "kg")),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Save a single workout. Exercises are matched against the exercise library by name, creating new entries as needed. Weights are interpreted in the given unit and stored in kilograms."),
	mcp.WithString("workout", mcp.Required(), mcp.Description(`Workout JSON: {"name": "...", "notes": "...", "exercises": [{"name": "Bench Press", "sets": [{"reps": "10", "weight": "135"}]}]}`)),
	mcp.WithString("unit", mcp.Description("Weight unit of the set weights: 'lbs' or 'kg'. Defaults to the user's preferred unit."), mcp.Enum("lbs", "kg")),
)

var toolSearchExercises = mcp.NewTool("search_exercises",
	mcp.WithDescription("Search the exercise library by name. An empty query lists all exercises."),
	mcp.WithString("query", mcp.Description("Case-insensitive name fragment")),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Retrieve the user's workout history, most recent first, with exercises, library details, and sets."),
)

// --- Tool handlers ---

func (h *handlers) previewStrongCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("csv")
	if err != nil {
		return mcp.NewToolResultError("csv parameter is required"), nil
	}

	parsed, err := strong.Parse(strings.NewReader(content))
	if err != nil {
		return mcp.NewToolResultError("parse failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(parsed)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) importStrongCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("csv")
	if err != nil {
		return mcp.NewToolResultError("csv parameter is required"), nil
	}
	unit, err := models.ParseWeightUnit(req.GetString("source_unit", "lbs"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	parsed, err := strong.Parse(strings.NewReader(content))
	if err != nil {
		return mcp.NewToolResultError("parse failed: " + err.Error()), nil
	}

	imp := importer.New(library.New(h.ds, h.log), h.ds, h.log)
	stats, err := imp.ImportAll(ctx, parsed.Workouts, h.session.UserID, unit, nil)
	if err != nil {
		h.log.Error("mcp import_strong_csv", "error", err)
		return mcp.NewToolResultError("import failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// logWorkoutInput is the tool's workout parameter shape. Set values are
// strings, matching what a user types into the app's form.
type logWorkoutInput struct {
	Name      string `json:"name"`
	Notes     string `json:"notes"`
	Exercises []struct {
		Name  string `json:"name"`
		Notes string `json:"notes"`
		Sets  []struct {
			Reps   string `json:"reps"`
			Weight string `json:"weight"`
		} `json:"sets"`
	} `json:"exercises"`
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("workout")
	if err != nil {
		return mcp.NewToolResultError("workout parameter is required"), nil
	}

	var input logWorkoutInput
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return mcp.NewToolResultError("invalid workout JSON: " + err.Error()), nil
	}
	if len(input.Exercises) == 0 {
		return mcp.NewToolResultError("workout has no exercises"), nil
	}

	unit := h.session.Unit
	if s := req.GetString("unit", ""); s != "" {
		unit, err = models.ParseWeightUnit(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	resolver := library.New(h.ds, h.log)
	local := models.LocalWorkout{Name: input.Name, Notes: input.Notes}
	for _, ex := range input.Exercises {
		libraryID, err := resolver.Resolve(ctx, ex.Name)
		if err != nil {
			h.log.Error("mcp log_workout resolve", "exercise", ex.Name, "error", err)
			return mcp.NewToolResultError("exercise lookup failed: " + err.Error()), nil
		}
		le := models.LocalExercise{
			LocalID:           models.NewLocalID(),
			ExerciseLibraryID: libraryID,
			Name:              ex.Name,
			Notes:             ex.Notes,
		}
		for i, set := range ex.Sets {
			le.Sets = append(le.Sets, models.LocalSet{
				LocalID:   models.NewLocalID(),
				Reps:      set.Reps,
				Weight:    set.Weight,
				SetNumber: i + 1,
			})
		}
		local.Exercises = append(local.Exercises, le)
	}

	sub := form.BuildSubmission(local, h.session.UserID, unit)
	record, err := h.ds.SaveWorkout(ctx, sub)
	if err != nil {
		h.log.Error("mcp log_workout save", "error", err)
		return mcp.NewToolResultError("save failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(record)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) searchExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := h.ds.SearchExercises(ctx, req.GetString("query", ""))
	if err != nil {
		h.log.Error("mcp search_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(items)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.WorkoutHistory(ctx, h.session.UserID)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.WorkoutHistory(ctx, h.session.UserID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(workouts)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
