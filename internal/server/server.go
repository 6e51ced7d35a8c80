// Package server exposes the import pipeline, form sessions and backend
// queries over HTTP for local clients.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/ironlog/internal/backend"
	"github.com/meltforce/ironlog/internal/form"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/profile"
)

// Backend is everything the handlers need from the persistence service.
type Backend interface {
	SaveWorkout(ctx context.Context, sub models.WorkoutSubmission) (*models.WorkoutRecord, error)
	FindExerciseByName(ctx context.Context, name string) (*models.ExerciseLibraryItem, error)
	CreateExercise(ctx context.Context, name string) (*models.ExerciseLibraryItem, error)
	SearchExercises(ctx context.Context, query string) ([]models.ExerciseLibraryItem, error)
	WorkoutHistory(ctx context.Context, userID string) ([]models.FullWorkoutHistory, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateWeightUnit(ctx context.Context, userID string, unit models.WeightUnit) error
}

// Compile-time check: the Supabase client satisfies Backend.
var _ Backend = (*backend.Client)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	backend  Backend
	session  models.Session
	settings *profile.Settings
	log      *slog.Logger
	apiKey   string
	router   chi.Router

	mu    sync.Mutex
	forms map[string]*form.Form
}

// New creates a Server with all routes configured. The session identifies the
// single authenticated user this companion server works on behalf of.
func New(b Backend, session models.Session, settings *profile.Settings, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		backend:  b,
		session:  session,
		settings: settings,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
		forms:    make(map[string]*form.Form),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/import/preview", s.handleImportPreview)
		r.Post("/import", s.handleImport)

		r.Get("/history", s.handleHistory)
		r.Get("/exercises", s.handleExercises)
		r.Put("/profile/weight-unit", s.handleWeightUnit)

		r.Route("/forms", func(r chi.Router) {
			r.Post("/", s.handleCreateForm)
			r.Get("/{id}", s.handleGetForm)
			r.Patch("/{id}", s.handleFormField)
			r.Post("/{id}/exercises", s.handleFormAddExercise)
			r.Put("/{id}/exercises/{localID}", s.handleFormUpdateExercise)
			r.Delete("/{id}/exercises/{localID}", s.handleFormRemoveExercise)
			r.Post("/{id}/finish", s.handleFormFinish)
			r.Post("/{id}/reset", s.handleFormReset)
		})
	})
}

// lookupForm returns the form session with the given id, if it exists.
func (s *Server) lookupForm(id string) (*form.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[id]
	return f, ok
}

// currentSession returns a copy of the session, which may have its weight
// unit preference updated while the server runs.
func (s *Server) currentSession() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}
