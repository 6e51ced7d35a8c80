// Package backend is the client for the hosted Supabase persistence service.
// Everything the rest of the codebase knows about storage goes through here:
// table reads over PostgREST and the save_full_workout stored procedure for
// atomic multi-row workout writes.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/meltforce/ironlog/internal/models"
)

// historySelect is the nested embed for the full workout history shape.
const historySelect = `id, name, notes, created_at, workout_exercises ( id, notes, exercise_library ( name, image_url ), sets ( id, reps, weight, set_number ) )`

// Client wraps the Supabase API clients. The direct PostgREST client exists
// for RPC calls: supabase-go hides its own PostgREST client, and its Rpc
// wrapper returns only the body string with no way to see what failed.
type Client struct {
	sb   *supabase.Client
	rest *postgrest.Client
	log  *slog.Logger
}

// New creates a backend client authenticated with the project's anon key.
// Call SignIn to attach a user session.
func New(url, anonKey string, log *slog.Logger) (*Client, error) {
	sb, err := supabase.NewClient(url, anonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}

	rest := postgrest.NewClient(url+"/rest/v1", "", map[string]string{
		"apikey": anonKey,
	})
	rest.SetAuthToken(anonKey)

	return &Client{sb: sb, rest: rest, log: log}, nil
}

// SignIn authenticates with email and password and returns the user session.
// The user's JWT replaces the anon key on subsequent requests so row-level
// security applies.
func (c *Client) SignIn(email, password string) (models.Session, error) {
	session, err := c.sb.SignInWithEmailPassword(email, password)
	if err != nil {
		return models.Session{}, fmt.Errorf("signing in: %w", err)
	}
	c.sb.UpdateAuthSession(session)
	c.rest.SetAuthToken(session.AccessToken)

	s := models.Session{UserID: session.User.ID.String(), Unit: models.UnitKG}
	if profile, err := c.GetProfile(context.Background(), s.UserID); err == nil {
		s.Unit = profile.PreferredUnit()
	}
	return s, nil
}

// UseToken attaches a pre-issued user JWT instead of an interactive sign-in.
func (c *Client) UseToken(accessToken string) {
	c.rest.SetAuthToken(accessToken)
}

// FindExerciseByName looks up a library entry by case-insensitive exact name.
// Returns nil when no entry matches.
func (c *Client) FindExerciseByName(ctx context.Context, name string) (*models.ExerciseLibraryItem, error) {
	data, _, err := c.sb.From("exercise_library").
		Select("id, name, image_url, primary_muscle_group", "", false).
		Ilike("name", name).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("looking up exercise %q: %w", name, err)
	}

	var items []models.ExerciseLibraryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding exercise lookup: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// CreateExercise inserts a new library entry with default metadata.
func (c *Client) CreateExercise(ctx context.Context, name string) (*models.ExerciseLibraryItem, error) {
	data, _, err := c.sb.From("exercise_library").
		Insert(map[string]any{"name": name, "image_url": nil}, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("creating exercise %q: %w", name, err)
	}

	var items []models.ExerciseLibraryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding created exercise: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("creating exercise %q: empty response", name)
	}
	return &items[0], nil
}

// SearchExercises lists library entries ordered by name, optionally filtered
// by a case-insensitive substring match.
func (c *Client) SearchExercises(ctx context.Context, query string) ([]models.ExerciseLibraryItem, error) {
	builder := c.sb.From("exercise_library").
		Select("id, name, image_url, primary_muscle_group", "", false)
	if query != "" {
		builder = builder.Ilike("name", "%"+query+"%")
	}

	data, _, err := builder.
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("searching exercises: %w", err)
	}

	var items []models.ExerciseLibraryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding exercise list: %w", err)
	}
	return items, nil
}

// pgError is the JSON body PostgREST returns on failed requests. The client
// reports HTTP-level failures through this body, not through ClientError.
type pgError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// SaveWorkout persists a full workout atomically through the
// save_full_workout stored procedure. The backend inserts the workout head,
// its exercises and sets in one transaction and returns the workout row;
// a naive insert-per-table sequence would leave partial rows on failure.
func (c *Client) SaveWorkout(ctx context.Context, sub models.WorkoutSubmission) (*models.WorkoutRecord, error) {
	params := map[string]any{
		"workout_data":   sub.Workout,
		"exercises_data": sub.Exercises,
	}

	// Rpc never clears ClientError on success, so a stale transport error
	// from an earlier call must not be read as this call's outcome.
	c.rest.ClientError = nil
	resp := c.rest.Rpc("save_full_workout", "", params)
	if c.rest.ClientError != nil {
		return nil, fmt.Errorf("save_full_workout: %w", c.rest.ClientError)
	}

	// ClientError only covers transport failures. An RLS denial or a
	// constraint violation inside the procedure comes back as a PostgREST
	// error body with ClientError still nil, so the response has to be
	// inspected before it can be trusted.
	var record models.WorkoutRecord
	if err := json.Unmarshal([]byte(resp), &record); err != nil {
		return nil, fmt.Errorf("decoding save_full_workout response: %w", err)
	}
	if record.ID == "" {
		var perr pgError
		if err := json.Unmarshal([]byte(resp), &perr); err == nil && perr.Message != "" {
			return nil, fmt.Errorf("save_full_workout: %s (code %s)", perr.Message, perr.Code)
		}
		return nil, fmt.Errorf("save_full_workout: response has no workout id: %s", resp)
	}
	return &record, nil
}

// WorkoutHistory returns the user's workouts with nested exercises and sets,
// most recent first.
func (c *Client) WorkoutHistory(ctx context.Context, userID string) ([]models.FullWorkoutHistory, error) {
	data, _, err := c.sb.From("workouts").
		Select(historySelect, "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("querying workout history: %w", err)
	}

	var history []models.FullWorkoutHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("decoding workout history: %w", err)
	}
	return history, nil
}

// GetProfile fetches the user's settings row. Returns nil when absent.
func (c *Client) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	data, _, err := c.sb.From("profiles").
		Select("id, username, weight_unit", "", false).
		Eq("id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	var profiles []models.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// UpdateWeightUnit persists the user's preferred weight unit.
func (c *Client) UpdateWeightUnit(ctx context.Context, userID string, unit models.WeightUnit) error {
	_, _, err := c.sb.From("profiles").
		Update(map[string]any{"weight_unit": string(unit)}, "", "").
		Eq("id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("updating weight unit: %w", err)
	}
	return nil
}
