package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/constracti/the-gexa-war/internal/game"
)

type StationRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Capacity    int    `json:"capacity"`
	InitialTeam int64  `json:"initialTeam"`
}

func (req *StationRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Code == "" {
		return "code is required"
	}
	if req.Capacity < 1 {
		return "capacity must be at least 1"
	}
	return ""
}

func handleAdminStationList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stations, err := store.ListStations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, stations)
	}
}

func handleAdminStationCreate(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		st, err := store.CreateStation(r.Context(), game.Station{
			Name:        req.Name,
			Code:        req.Code,
			Capacity:    req.Capacity,
			InitialTeam: req.InitialTeam,
		})
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, st)
	}
}

func handleAdminStationUpdate(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid station id")
			return
		}
		var req StationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		st := game.Station{
			ID:          id,
			Name:        req.Name,
			Code:        req.Code,
			Capacity:    req.Capacity,
			InitialTeam: req.InitialTeam,
		}
		if err := store.UpdateStation(r.Context(), st); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleAdminStationDelete(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid station id")
			return
		}
		if err := store.DeleteStation(r.Context(), id); err != nil {
			writeGameError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
