package blockchainwallet

import (
	"encoding/json"
	"net/http"
	"time"
)

const VERSION = 0

type healthResponse struct {
	Status    string     `json:"status"`
	Version   uint       `json:"version"`
	Time      time.Time  `json:"time"`
	OverallOK bool       `json:"overall_ok"`
	Polls     int        `json:"polls"`
	LastPoll  PollStatus `json:"last_poll"`
}

// HealthHandler is a liveness endpoint for the monitor command.
// It always returns 200 when the process is up, and reports wallet API health in the body.
func HealthHandler(statuses *PollStatusStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:    "ok",
			Version:   VERSION,
			Time:      time.Now().UTC(),
			OverallOK: true,
		}
		if statuses != nil {
			resp.LastPoll, resp.Polls = statuses.Get()
			resp.OverallOK = resp.LastPoll.Healthy
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
