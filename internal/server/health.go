package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/osse101/Ascend_Go/internal/logger"
)

// Pinger is a dependency the service needs before it can take work.
// database.Pool and realtime.Publisher satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names one dependency checked by /readyz
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// HandleHealthz reports liveness only
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz pings every check and answers 503 if any fails
func HandleReadyz(checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: StatusOK, Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, check := range checks {
			if err := check.Pinger.Ping(ctx); err != nil {
				logger.FromContext(ctx).Error(LogMsgReadinessFailed, "check", check.Name, "error", err)
				resp.Checks[check.Name] = StatusUnavailable
				resp.Status = StatusUnavailable
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[check.Name] = StatusOK
		}
		writeJSON(w, status, resp)
	}
}

// HandleVersion reports the running build
func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: StatusOK, Version: version})
	}
}
