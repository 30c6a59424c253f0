package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vmunix/trackarr/internal/library"
)

func (s *Server) listWatches(w http.ResponseWriter, r *http.Request) {
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

	var resp listWatchesResponse
	switch c.Type {
	case library.ContentTypeMovie:
		sessions, err := s.library.ListWatchSessions(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
		for _, ws := range sessions {
			watchedAt := ws.WatchedAt
			resp.Items = append(resp.Items, watchResponse{
				ID:        ws.ID,
				WatchedAt: &watchedAt,
				Source:    string(ws.Source),
			})
		}
	case library.ContentTypeSeries:
		watches, err := s.library.ListEpisodeWatches(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
		for _, ew := range watches {
			season, episode := ew.Season, ew.Episode
			resp.Items = append(resp.Items, watchResponse{
				ID:        ew.ID,
				Season:    &season,
				Episode:   &episode,
				WatchedAt: ew.WatchedAt,
				Source:    string(ew.Source),
			})
		}
	}
	resp.Total = len(resp.Items)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addWatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req addWatchRequest
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

	switch c.Type {
	case library.ContentTypeMovie:
		watchedAt := time.Now()
		if req.WatchedAt != nil {
			watchedAt = *req.WatchedAt
		}
		ws := &library.WatchSession{
			ContentID: id,
			WatchedAt: watchedAt,
			Source:    library.SourceManual,
		}
		if err := s.library.AddWatchSession(ws); err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, watchResponse{
			ID:        ws.ID,
			WatchedAt: &ws.WatchedAt,
			Source:    string(ws.Source),
		})
	case library.ContentTypeSeries:
		if req.Season == nil || req.Episode == nil {
			writeError(w, http.StatusBadRequest, "INVALID_EPISODE", "season and episode are required for series")
			return
		}
		ew := &library.EpisodeWatch{
			ContentID: id,
			Season:    *req.Season,
			Episode:   *req.Episode,
			WatchedAt: req.WatchedAt,
			Source:    library.SourceManual,
		}
		if err := s.library.AddEpisodeWatch(ew); err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, watchResponse{
			ID:        ew.ID,
			Season:    req.Season,
			Episode:   req.Episode,
			WatchedAt: ew.WatchedAt,
			Source:    string(ew.Source),
		})
	}
}
