package server

import (
	"bufio"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/constracti/the-gexa-war/internal/game"
)

type PlayerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Team    int64  `json:"team"`
	Blocked bool   `json:"blocked"`
}

func (req *PlayerRequest) validate() string {
	if req.ID == "" {
		return "id is required"
	}
	if req.Name == "" {
		return "name is required"
	}
	if req.Team <= 0 {
		return "team is required"
	}
	return ""
}

func handleAdminPlayerList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListPlayers(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func handleAdminPlayerCreate(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		p := game.Player{ID: req.ID, Name: req.Name, Team: req.Team, Blocked: req.Blocked}
		if err := store.CreatePlayer(r.Context(), p); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func handleAdminPlayerUpdate(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req PlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		req.ID = id
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		p := game.Player{ID: id, Name: req.Name, Team: req.Team, Blocked: req.Blocked}
		if err := store.UpdatePlayer(r.Context(), p); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handleAdminPlayerDelete(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.DeletePlayer(r.Context(), id); err != nil {
			writeGameError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type PlayerImportResponse struct {
	Imported int `json:"imported"`
}

// handleAdminPlayerImport ingests a plain text roster, one player per
// line: id,name,team. Existing players keep their blocked flag; only
// name and team are overwritten. Blank lines and #-comments are
// skipped.
func handleAdminPlayerImport(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var players []game.Player
		scanner := bufio.NewScanner(r.Body)
		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			fields := strings.SplitN(text, ",", 3)
			if len(fields) != 3 {
				writeError(w, http.StatusBadRequest,
					"line "+strconv.Itoa(line)+": expected id,name,team")
				return
			}
			team, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
			if err != nil || team <= 0 {
				writeError(w, http.StatusBadRequest,
					"line "+strconv.Itoa(line)+": invalid team id")
				return
			}
			players = append(players, game.Player{
				ID:   strings.TrimSpace(fields[0]),
				Name: strings.TrimSpace(fields[1]),
				Team: team,
			})
		}
		if err := scanner.Err(); err != nil {
			writeError(w, http.StatusBadRequest, "reading body")
			return
		}

		n, err := store.ImportPlayers(r.Context(), players)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, PlayerImportResponse{Imported: n})
	}
}
