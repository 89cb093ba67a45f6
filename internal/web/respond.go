package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write json response failed", "error", err)
	}
}

// errorBody is used by the identification and care endpoints.
type errorBody struct {
	Error string `json:"error"`
}

// messageBody is used by the nursery endpoints.
type messageBody struct {
	Message string `json:"message"`
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
