package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/missionflow/pkg/api"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string, detail string) {
	writeJSON(w, logger, status, api.ErrorResponse{Error: msg, Message: detail})
}
