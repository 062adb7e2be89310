package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// ParseName extracts and unescapes the name path parameter. Returns the
// name and a boolean indicating success.
func ParseName(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	raw := r.PathValue("name")
	name, err := url.PathUnescape(raw)
	if err != nil || name == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid name: %s", raw))
		return "", false
	}
	return name, true
}
