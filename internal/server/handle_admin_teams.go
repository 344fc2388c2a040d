package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/constracti/the-gexa-war/internal/game"
)

type TeamRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func handleAdminTeamList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := store.ListTeams(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

func handleAdminTeamCreate(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TeamRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		t, err := store.CreateTeam(r.Context(), game.Team{Name: req.Name, Color: req.Color})
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func handleAdminTeamUpdate(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid team id")
			return
		}
		var req TeamRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		t := game.Team{ID: id, Name: req.Name, Color: req.Color}
		if err := store.UpdateTeam(r.Context(), t); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func handleAdminTeamDelete(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid team id")
			return
		}
		if err := store.DeleteTeam(r.Context(), id); err != nil {
			writeGameError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
