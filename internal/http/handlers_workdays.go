package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"moneypilot/internal/core"
	"moneypilot/internal/storage"
)

func (s *Server) handleListWorkDays(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := s.workDays.ListWorkDays(r.Context(), rng)
	if err != nil {
		slog.ErrorContext(r.Context(), "List work days error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list work days")
		return
	}
	if days == nil {
		days = []core.WorkDay{}
	}

	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleCreateWorkDay(w http.ResponseWriter, r *http.Request) {
	var wd core.WorkDay
	if err := json.NewDecoder(r.Body).Decode(&wd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wd.ID = 0

	created, err := s.workDays.CreateWorkDay(r.Context(), wd)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create work day error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create work day")
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetWorkDay(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	wd, err := s.workDays.GetWorkDay(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "work day not found")
			return
		}
		slog.ErrorContext(r.Context(), "Get work day error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to get work day")
		return
	}

	writeJSON(w, http.StatusOK, wd)
}

func (s *Server) handleUpdateWorkDay(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var wd core.WorkDay
	if err := json.NewDecoder(r.Body).Decode(&wd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wd.ID = id

	if err := s.workDays.UpdateWorkDay(r.Context(), wd); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "work day not found")
		case isValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Update work day error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to update work day")
		}
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, wd)
}

func (s *Server) handleDeleteWorkDay(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.workDays.DeleteWorkDay(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "work day not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete work day error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete work day")
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
