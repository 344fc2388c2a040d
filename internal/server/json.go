package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/constracti/the-gexa-war/internal/game"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGameError maps the engine's expected failure modes to HTTP
// statuses. A PhaseError carries the phase so consoles can tell
// "pending" from "finished".
func writeGameError(w http.ResponseWriter, err error) {
	var phaseErr *game.PhaseError
	switch {
	case errors.As(err, &phaseErr):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": phaseErr.Error(),
			"phase": string(phaseErr.Phase),
		})
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, game.ErrIllegalTransition):
		writeError(w, http.StatusConflict, "illegal transition")
	case errors.Is(err, game.ErrStaleDeletion):
		writeError(w, http.StatusConflict, "not the latest success")
	case errors.Is(err, ErrInUse):
		writeError(w, http.StatusConflict, "still referenced")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
