package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/form"
	"github.com/meltforce/ironlog/internal/models"
)

// formView is the wire shape of a form session.
type formView struct {
	ID      string              `json:"id"`
	Workout models.LocalWorkout `json:"workout"`
	Saving  bool                `json:"saving"`
}

func viewOf(id string, f *form.Form) formView {
	return formView{ID: id, Workout: f.Workout(), Saving: f.Saving()}
}

// A form session is driven by a single client at a time, so individual form
// operations are not locked beyond the session map itself.
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	f := form.New(s.backend, s.currentSession(), s.log)

	s.mu.Lock()
	s.forms[id] = f
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, viewOf(id, f))
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.lookupForm(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, f))
}

func (s *Server) handleFormField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.lookupForm(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}

	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	f.UpdateField(req.Field, req.Value)
	writeJSON(w, http.StatusOK, viewOf(id, f))
}

func (s *Server) handleFormAddExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.lookupForm(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}

	var item models.ExerciseLibraryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if item.ID == "" || item.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise id and name required"})
		return
	}
	f.AddExercise(item)
	writeJSON(w, http.StatusOK, viewOf(id, f))
}

func (s *Server) handleFormUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.lookupForm(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}

	localID := chi.URLParam(r, "localID")
	if _, ok := f.Exercise(localID); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}

	var ex models.LocalExercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	ex.LocalID = localID
	f.UpdateExercise(ex)
	writeJSON(w, http.StatusOK, viewOf(id, f))
}

func (s *Server) handleFormRemoveExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.lookupForm(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	f.RemoveExercise(chi.URLParam(r, "localID"))
	writeJSON(w, http.StatusOK, viewOf(id, f))
}

func (s *Server) handleFormFinish(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.lookupForm(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}

	record, err := f.Finish(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, form.ErrNotAuthenticated):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		case errors.Is(err, form.ErrEmptyWorkout):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			s.log.Error("workout save error", "form", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleFormReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.lookupForm(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "form not found"})
		return
	}
	f.Reset()
	writeJSON(w, http.StatusOK, viewOf(id, f))
}
