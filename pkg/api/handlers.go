package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/scheduler"
	"github.com/carverauto/activityradar/pkg/snapshots"
)

type healthResponse struct {
	Status  string `json:"status"`
	Running bool   `json:"running"`
}

type triggerResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Running: s.trigger.Running()})
}

func (s *Server) handleTriggerRun(w http.ResponseWriter, _ *http.Request) {
	err := s.trigger.Trigger()

	switch {
	case err == nil:
		s.writeJSON(w, http.StatusAccepted, triggerResponse{Status: "accepted"})
	case errors.Is(err, scheduler.ErrAlreadyRunning), errors.Is(err, consolidation.ErrRunInProgress):
		s.writeError(w, "a consolidation run is already in progress", http.StatusConflict)
	case errors.Is(err, scheduler.ErrStopped):
		s.writeError(w, "service is shutting down", http.StatusServiceUnavailable)
	default:
		s.logger.Error().Err(err).Msg("Failed to trigger consolidation run")
		s.writeError(w, "failed to trigger run", http.StatusInternalServerError)
	}
}

func (s *Server) handleLatestRun(w http.ResponseWriter, _ *http.Request) {
	run := s.status.LastRun()
	if run == nil {
		s.writeError(w, "no run has completed yet", http.StatusNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.reader == nil {
		s.writeError(w, "no snapshot store is configured", http.StatusNotImplemented)
		return
	}

	id := mux.Vars(r)["id"]

	snap, err := s.reader.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, snapshots.ErrSnapshotNotFound) {
			s.writeError(w, "snapshot not found", http.StatusNotFound)
		} else {
			s.logger.Error().Err(err).Str("service_id", id).Msg("Failed to read snapshot")
			s.writeError(w, "failed to read snapshot", http.StatusBadGateway)
		}

		return
	}

	s.writeJSON(w, http.StatusOK, snap)
}
