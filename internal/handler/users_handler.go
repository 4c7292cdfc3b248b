package handler

import (
	"net/http"
	"time"

	"georelay/internal/app/participant"
	"georelay/internal/pkg/resp"
)

// UsersListing is the GET /api/users body. Like /health it is written bare,
// without the {code,message,data} envelope used for errors.
type UsersListing struct {
	TotalUsers int                   `json:"totalUsers"`
	Users      []participant.Summary `json:"users"`
}

// HandleListUsers reports who is present, for monitoring. It exposes
// nicknames and whether a location is known, never the coordinates.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries := deps.Registry.ListSummaries()

		resp.RespondJSON(w, http.StatusOK, UsersListing{
			TotalUsers: len(summaries),
			Users:      summaries,
		})
	}
}

// HealthStatus is the GET /health payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HandleHealth answers liveness probes.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondJSON(w, http.StatusOK, HealthStatus{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}
