// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vmunix/trackarr/internal/events"
	"github.com/vmunix/trackarr/internal/library"
	"github.com/vmunix/trackarr/internal/syncer"
	"github.com/vmunix/trackarr/pkg/trakt"
)

// Server is the v1 API server.
type Server struct {
	library  *library.Store
	importer *syncer.Importer
	jobs     *syncer.JobManager
	source   *trakt.Client    // device auth endpoints
	eventLog *events.EventLog // optional
	version  string
}

// New creates a new v1 API server.
func New(store *library.Store, imp *syncer.Importer, jobs *syncer.JobManager, source *trakt.Client, version string) *Server {
	return &Server{
		library:  store,
		importer: imp,
		jobs:     jobs,
		source:   source,
		version:  version,
	}
}

// SetEventLog enables the events endpoint.
func (s *Server) SetEventLog(log *events.EventLog) {
	s.eventLog = log
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Content
	mux.HandleFunc("GET /api/v1/content", s.listContent)
	mux.HandleFunc("GET /api/v1/content/{id}", s.getContent)
	mux.HandleFunc("POST /api/v1/content", s.addContent)
	mux.HandleFunc("PUT /api/v1/content/{id}", s.updateContent)
	mux.HandleFunc("DELETE /api/v1/content/{id}", s.deleteContent)

	// Episodes and watches
	mux.HandleFunc("GET /api/v1/content/{id}/episodes", s.listEpisodes)
	mux.HandleFunc("GET /api/v1/content/{id}/watches", s.listWatches)
	mux.HandleFunc("POST /api/v1/content/{id}/watches", s.addWatch)

	// Import
	mux.HandleFunc("POST /api/v1/import/preview", s.importPreview)
	mux.HandleFunc("POST /api/v1/import", s.startImport)
	mux.HandleFunc("GET /api/v1/import/status", s.importStatus)
	mux.HandleFunc("POST /api/v1/import/cancel", s.cancelImport)

	// Sync
	mux.HandleFunc("POST /api/v1/sync", s.runSync)
	mux.HandleFunc("POST /api/v1/sync/resync", s.runResync)
	mux.HandleFunc("GET /api/v1/sync/status", s.syncStatus)

	// Source service auth
	mux.HandleFunc("POST /api/v1/auth/device", s.beginDeviceAuth)
	mux.HandleFunc("POST /api/v1/auth/device/poll", s.pollDeviceAuth)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("GET /api/v1/stats", s.getStats)
	mux.HandleFunc("GET /api/v1/events", s.listEvents)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	filter := library.ContentFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	if typeStr := queryString(r, "type"); typeStr != nil {
		t := library.ContentType(*typeStr)
		filter.Type = &t
	}
	if title := queryString(r, "title"); title != nil {
		filter.Title = title
	}
	if onList := queryString(r, "on_watchlist"); onList != nil {
		v := *onList == "true"
		filter.OnWatchlist = &v
	}

	items, total, err := s.library.ListContent(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listContentResponse{
		Items:  make([]contentResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, c := range items {
		resp.Items[i] = contentToResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	c, err := s.library.GetContent(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Content not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, contentToResponse(c))
}

func (s *Server) addContent(w http.ResponseWriter, r *http.Request) {
	var req addContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	contentType := library.ContentType(req.Type)
	if contentType != library.ContentTypeMovie && contentType != library.ContentTypeSeries {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be 'movie' or 'series'")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "INVALID_TITLE", "title is required")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		writeError(w, http.StatusBadRequest, "INVALID_RATING", "rating must be between 1 and 5")
		return
	}

	c := &library.Content{
		Type:        contentType,
		TraktID:     req.TraktID,
		TMDBID:      req.TMDBID,
		Title:       req.Title,
		Year:        req.Year,
		Rating:      req.Rating,
		OnWatchlist: req.OnWatchlist,
	}

	if err := s.library.AddContent(c); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			writeError(w, http.StatusConflict, "DUPLICATE", "Content already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, contentToResponse(c))
}

func (s *Server) updateContent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	c, err := s.library.GetContent(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Content not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			writeError(w, http.StatusBadRequest, "INVALID_RATING", "rating must be between 1 and 5")
			return
		}
		if err := s.library.SetRating(c.ID, *req.Rating); err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
	}
	if req.OnWatchlist != nil {
		if err := s.library.SetOnWatchlist(c.ID, *req.OnWatchlist); err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
	}

	c, err = s.library.GetContent(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, contentToResponse(c))
}

func (s *Server) deleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := s.library.DeleteContent(id); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Content not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listEpisodes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	filter := library.EpisodeFilter{ContentID: &id}
	if season := queryString(r, "season"); season != nil {
		n, err := strconv.Atoi(*season)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SEASON", "season must be an integer")
			return
		}
		filter.Season = &n
	}

	eps, total, err := s.library.ListEpisodes(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listEpisodesResponse{
		Items: make([]episodeResponse, len(eps)),
		Total: total,
	}
	for i, e := range eps {
		resp.Items[i] = episodeToResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Version:       s.version,
		Authenticated: s.source.IsAuthenticated(),
		ImportRunning: s.jobs.Running(),
	})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.library.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
