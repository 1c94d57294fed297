package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"APAgingSuite/api/constants"
	"APAgingSuite/internal/logger"
)

// RespondWithError writes the standard failure body {"success": false, "error": msg}.
func RespondWithError(w http.ResponseWriter, status int, errMsg string) {
	l := logger.L()
	l.Error().Int("status", status).Msg(errMsg)
	RespondWithJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   errMsg,
	})
}

// RespondWithJSON encodes body as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		LogError("encode response: %v", err)
	}
}

// RespondWithPayload sends {"success": true} merged with payload's fields.
func RespondWithPayload(w http.ResponseWriter, payload map[string]interface{}) {
	resp := map[string]interface{}{"success": true}
	for k, v := range payload {
		resp[k] = v
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// RespondWithFile sends data as a download named name.
func RespondWithFile(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set(constants.HeaderContentType, contentType)
	w.Header().Set(constants.HeaderDisposition, fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		LogError("write %s: %v", name, err)
	}
}

// LogInfo logs an informational message (wrapper for consistent logging)
func LogInfo(msg string, args ...interface{}) {
	l := logger.L()
	if len(args) > 0 {
		l.Info().Msgf(msg, args...)
	} else {
		l.Info().Msg(msg)
	}
}

// LogError logs an error message (wrapper for consistent logging)
func LogError(msg string, args ...interface{}) {
	l := logger.L()
	if len(args) > 0 {
		l.Error().Msgf(msg, args...)
	} else {
		l.Error().Msg(msg)
	}
}
