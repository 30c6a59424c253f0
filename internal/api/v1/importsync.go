package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vmunix/trackarr/internal/syncer"
)

// decodeOptions reads import options from the request body, defaulting
// to all categories when the body is empty.
func decodeOptions(r *http.Request) (syncer.Options, error) {
	opts := syncer.DefaultOptions()
	err := json.NewDecoder(r.Body).Decode(&opts)
	if err != nil && !errors.Is(err, io.EOF) {
		return opts, err
	}
	return opts, nil
}

func (s *Server) importPreview(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	preview, err := s.importer.BuildPreview(r.Context(), opts)
	if err != nil {
		if errors.Is(err, syncer.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "SOURCE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) startImport(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	runID, err := s.jobs.Start(opts)
	if err != nil {
		switch {
		case errors.Is(err, syncer.ErrImportRunning):
			writeError(w, http.StatusConflict, "IMPORT_RUNNING", err.Error())
		case errors.Is(err, syncer.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "IMPORT_ERROR", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, startImportResponse{RunID: runID})
}

func (s *Server) importStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jobs.Status())
}

func (s *Server) cancelImport(w http.ResponseWriter, r *http.Request) {
	s.jobs.Cancel()
	writeJSON(w, http.StatusOK, s.jobs.Status())
}

func (s *Server) runSync(w http.ResponseWriter, r *http.Request) {
	if s.jobs.Running() {
		writeError(w, http.StatusConflict, "IMPORT_RUNNING", "full import in progress")
		return
	}

	result, err := s.importer.IncrementalSync(r.Context())
	if err != nil {
		if errors.Is(err, syncer.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "SYNC_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) runResync(w http.ResponseWriter, r *http.Request) {
	var req resyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Since.IsZero() {
		writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since is required")
		return
	}
	if s.jobs.Running() {
		writeError(w, http.StatusConflict, "IMPORT_RUNNING", "full import in progress")
		return
	}

	result, err := s.importer.ResyncSince(r.Context(), req.Since)
	if err != nil {
		if errors.Is(err, syncer.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "SYNC_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) syncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.importer.SyncStatus()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}
