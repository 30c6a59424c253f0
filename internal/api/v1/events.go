package v1

import (
	"net/http"
	"time"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	if s.eventLog == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
		return
	}

	events, err := s.eventLog.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	resp := listEventsResponse{
		Items: make([]eventResponse, len(events)),
		Total: len(events),
	}
	for i, e := range events {
		resp.Items[i] = eventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
			Payload:    e.Payload,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
