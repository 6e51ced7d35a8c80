package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meltforce/ironlog/internal/importer"
	"github.com/meltforce/ironlog/internal/ingest/strong"
	"github.com/meltforce/ironlog/internal/library"
	"github.com/meltforce/ironlog/internal/models"
)

func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	result, err := strong.Parse(r.Body)
	if err != nil {
		if errors.Is(err, strong.ErrEmptyImport) || errors.Is(err, strong.ErrNoValidRows) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("preview parse error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// importRequest carries a parsed preview back for committing, so clients can
// show the user what will be imported before anything touches the backend.
type importRequest struct {
	Workouts   []models.ImportableWorkout `json:"workouts"`
	SourceUnit string                     `json:"source_unit"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Workouts) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no workouts to import"})
		return
	}
	unit, err := models.ParseWeightUnit(req.SourceUnit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resolver := library.New(s.backend, s.log)
	imp := importer.New(resolver, s.backend, s.log)
	stats, err := imp.ImportAll(r.Context(), req.Workouts, s.currentSession().UserID, unit, func(current, total int) {
		s.log.Info("importing workout", "current", current, "total", total)
	})
	if err != nil {
		s.log.Error("import error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.backend.WorkoutHistory(r.Context(), s.currentSession().UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")
	items, err := s.backend.SearchExercises(r.Context(), query)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleWeightUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Unit string `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	unit, err := models.ParseWeightUnit(req.Unit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.settings.SetWeightUnit(r.Context(), unit); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// Open drafts and subsequent form saves convert with the new preference.
	s.mu.Lock()
	s.session.Unit = unit
	for _, f := range s.forms {
		f.SetUnit(unit)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.settings.Profile())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
