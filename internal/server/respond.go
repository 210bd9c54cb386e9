package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/billtab/internal/ledger"
)

// writeJSON writes v with the given status. Responses follow the envelope
// convention of the API: every body carries an "ok" field.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// okEnvelope merges extra fields into {"ok": true, ...}.
func okEnvelope(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// failError maps a ledger error to its HTTP status and writes the failure
// envelope. Unknown errors are logged and rendered as a generic 500 so
// storage details never leak to the client.
func failError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Unhandled error", "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// failMessage writes a failure envelope with an explicit status and message.
func failMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrConflict),
		errors.Is(err, ledger.ErrAlreadyPaid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
