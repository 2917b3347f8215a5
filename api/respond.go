package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}

// errorResponse is the failure envelope shared by every endpoint. The
// chat id is echoed back only where the bot relies on it to correlate
// replies.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	ChatID  string `json:"chat_id,omitempty"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, errorResponse{Success: false, Error: msg}, status)
}

func respondChatError(w http.ResponseWriter, status int, msg, chatID string) {
	writeJSON(w, errorResponse{Success: false, Error: msg, ChatID: chatID}, status)
}

// respondStoreError maps a repository failure onto the upstream error
// statuses: 504 when the query deadline was hit, 502 otherwise. The
// raw error stays in the logs, never in the response body.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("database query failed",
		slog.String("path", r.URL.Path),
		slog.Any("err", err),
	)

	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusGatewayTimeout, "Database timeout")
		return
	}
	respondError(w, http.StatusBadGateway, "Database unavailable")
}
