package server

import (
	"net/http"
	"strings"
)

type CreateSessionRequest struct {
	PlayerName string `json:"playerName"`
}

type CreateSessionResponse struct {
	SessionID  string `json:"sessionId"`
	PlayerName string `json:"playerName"`
}

type SessionSummaryResponse struct {
	PlayerName  string `json:"playerName"`
	FinalPoints int    `json:"finalPoints"`
	FinalStreak int    `json:"finalStreak"`
}

func handleCreateSession(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "playerName is required")
			return
		}

		sess := sessions.Create(req.PlayerName)

		writeJSON(w, http.StatusCreated, CreateSessionResponse{
			SessionID:  sess.ID,
			PlayerName: req.PlayerName,
		})
	}
}

// handleEndSession tears the session down and reports the final tally.
// All in-memory state for the player is gone once this returns.
func handleEndSession(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		sess.mu.Lock()
		summary := sess.State.Summary()
		name := sess.State.PlayerName
		sess.mu.Unlock()

		sessions.Remove(sess.ID)

		writeJSON(w, http.StatusOK, SessionSummaryResponse{
			PlayerName:  name,
			FinalPoints: summary.FinalPoints,
			FinalStreak: summary.FinalStreak,
		})
	}
}
