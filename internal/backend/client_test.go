package backend

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/supabase-community/postgrest-go"

	"github.com/meltforce/ironlog/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient builds a full client against a fake PostgREST endpoint.
func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(url, "anon-key", testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

// rpcOnlyClient builds a client whose direct PostgREST client points at the
// fake server; RPC calls do not touch the supabase-go client.
func rpcOnlyClient(url string) *Client {
	rest := postgrest.NewClient(url+"/rest/v1", "", map[string]string{"apikey": "anon-key"})
	rest.SetAuthToken("anon-key")
	return &Client{rest: rest, log: testLogger()}
}

func sampleSubmission() models.WorkoutSubmission {
	return models.WorkoutSubmission{
		Workout: models.WorkoutInsert{Name: "Push Day", UserID: "user-1"},
		Exercises: []models.ExerciseSubmission{
			{
				Data: models.ExerciseInsert{ExerciseLibraryID: "lib-1", UserID: "user-1"},
				Sets: []models.SetInsert{{SetNumber: 1, Reps: 10, Weight: 61.2, UserID: "user-1"}},
			},
		},
	}
}

func TestSaveWorkout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/rpc/save_full_workout") {
			t.Errorf("path = %q, want rpc/save_full_workout", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"wk-1","name":"Push Day","user_id":"user-1"}`))
	}))
	defer ts.Close()

	c := rpcOnlyClient(ts.URL)
	record, err := c.SaveWorkout(context.Background(), sampleSubmission())
	if err != nil {
		t.Fatalf("SaveWorkout() error: %v", err)
	}
	if record.ID != "wk-1" {
		t.Errorf("record.ID = %q, want %q", record.ID, "wk-1")
	}
}

// A denied or failed procedure call comes back as a PostgREST error body, not
// a transport error, and must surface as a save failure rather than an empty
// record.
func TestSaveWorkoutBackendErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"42501","message":"permission denied for table workouts"}`))
	}))
	defer ts.Close()

	c := rpcOnlyClient(ts.URL)
	record, err := c.SaveWorkout(context.Background(), sampleSubmission())
	if err == nil {
		t.Fatalf("SaveWorkout() = %+v, want error", record)
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("error = %q, want PostgREST message included", err)
	}
}

// A transport error on one call must not poison the next: the underlying
// client keeps its error state until explicitly cleared.
func TestSaveWorkoutRecoversAfterTransportError(t *testing.T) {
	failed := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !failed {
			failed = true
			conn, _, err := w.(http.Hijacker).Hijack()
			if err != nil {
				t.Fatalf("hijack error: %v", err)
			}
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"wk-2","name":"Push Day","user_id":"user-1"}`))
	}))
	defer ts.Close()

	c := rpcOnlyClient(ts.URL)

	if _, err := c.SaveWorkout(context.Background(), sampleSubmission()); err == nil {
		t.Fatal("first SaveWorkout() = nil error, want transport error")
	}

	record, err := c.SaveWorkout(context.Background(), sampleSubmission())
	if err != nil {
		t.Fatalf("second SaveWorkout() error: %v", err)
	}
	if record.ID != "wk-2" {
		t.Errorf("record.ID = %q, want %q", record.ID, "wk-2")
	}
}

func TestSaveWorkoutMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := rpcOnlyClient(ts.URL)
	if _, err := c.SaveWorkout(context.Background(), sampleSubmission()); err == nil {
		t.Error("SaveWorkout() = nil error, want error for response without id")
	}
}

func TestFindExerciseByName(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "exercise_library") {
			t.Errorf("path = %q, want exercise_library", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"lib-1","name":"Bench Press"}]`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	item, err := c.FindExerciseByName(context.Background(), "bench press")
	if err != nil {
		t.Fatalf("FindExerciseByName() error: %v", err)
	}
	if item == nil || item.ID != "lib-1" {
		t.Errorf("item = %+v, want id lib-1", item)
	}
}

func TestFindExerciseByNameAbsent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	item, err := c.FindExerciseByName(context.Background(), "snatch")
	if err != nil {
		t.Fatalf("FindExerciseByName() error: %v", err)
	}
	if item != nil {
		t.Errorf("item = %+v, want nil for no match", item)
	}
}

func TestGetProfileAbsent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	p, err := c.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if p != nil {
		t.Errorf("profile = %+v, want nil when no row exists", p)
	}
}
