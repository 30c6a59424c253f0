package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vmunix/trackarr/pkg/trakt"
)

func (s *Server) beginDeviceAuth(w http.ResponseWriter, r *http.Request) {
	code, err := s.source.DeviceCode(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "SOURCE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, deviceAuthResponse{
		UserCode:        code.UserCode,
		VerificationURL: code.VerificationURL,
		DeviceCode:      code.DeviceCode,
		ExpiresIn:       code.ExpiresIn,
		Interval:        code.Interval,
	})
}

func (s *Server) pollDeviceAuth(w http.ResponseWriter, r *http.Request) {
	var req pollAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.DeviceCode == "" {
		writeError(w, http.StatusBadRequest, "INVALID_CODE", "device_code is required")
		return
	}

	_, err := s.source.PollToken(r.Context(), req.DeviceCode)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, pollAuthResponse{Authenticated: true})
	case errors.Is(err, trakt.ErrAuthPending):
		writeJSON(w, http.StatusOK, pollAuthResponse{Pending: true})
	case errors.Is(err, trakt.ErrDeviceExpired):
		writeError(w, http.StatusGone, "CODE_EXPIRED", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "SOURCE_ERROR", err.Error())
	}
}
