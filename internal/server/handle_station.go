package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/constracti/the-gexa-war/internal/game"
)

type StationListEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func handleStationList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stations, err := store.ListStations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]StationListEntry, 0, len(stations))
		for _, st := range stations {
			out = append(out, StationListEntry{ID: st.ID, Name: st.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type StationCredentials struct {
	Station int64  `json:"station"`
	Code    string `json:"code"`
}

// StationView is what the on-site console renders after every action:
// the station's current controller and its own success history, newest
// first so the top row is always the undoable one.
type StationView struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Capacity   int           `json:"capacity"`
	Phase      game.Phase    `json:"phase"`
	Controller *int64        `json:"controller"`
	Since      int64         `json:"since,omitempty"`
	Successes  []GameSuccess `json:"successes"`
}

// checkStationCode loads the station and verifies the console code.
// A wrong code is indistinguishable from a missing station on purpose.
func checkStationCode(r *http.Request, store Store, creds StationCredentials) (game.Station, error) {
	st, err := store.StationByID(r.Context(), creds.Station)
	if err != nil {
		return game.Station{}, err
	}
	if st.Code == "" || st.Code != creds.Code {
		return game.Station{}, game.ErrNotFound
	}
	return st, nil
}

func stationView(r *http.Request, store Store, st game.Station, now int64) (StationView, error) {
	data, err := store.GameData(r.Context())
	if err != nil {
		return StationView{}, err
	}
	// Just past now, so a success recorded this same second already shows.
	snap := data.Evaluate(now + 1)

	playerTeam := make(map[string]int64, len(data.Players))
	for _, p := range data.Players {
		playerTeam[p.ID] = p.Team
	}

	view := StationView{
		ID:        st.ID,
		Name:      st.Name,
		Capacity:  st.Capacity,
		Phase:     data.Config.Phase(now),
		Successes: []GameSuccess{},
	}
	for _, ss := range snap.Stations {
		if ss.ID != st.ID {
			continue
		}
		if ss.Controller != 0 {
			controller := ss.Controller
			view.Controller = &controller
			view.Since = ss.Since
		}
		break
	}
	for i := len(data.Successes) - 1; i >= 0; i-- {
		su := data.Successes[i]
		if su.Station != st.ID {
			continue
		}
		view.Successes = append(view.Successes, GameSuccess{
			ID:        su.ID,
			Station:   su.Station,
			Team:      playerTeam[su.Player],
			Type:      su.Type,
			Timestamp: su.Timestamp,
		})
	}
	return view, nil
}

func handleStationLogin(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds StationCredentials
		if err := readJSON(r, &creds); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		st, err := checkStationCode(r, store, creds)
		if err != nil {
			writeGameError(w, err)
			return
		}
		view, err := stationView(r, store, st, time.Now().Unix())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

type StationSuccessRequest struct {
	StationCredentials
	Player string           `json:"player"`
	Type   game.SuccessType `json:"type"`
}

func handleStationSuccess(store Store, broker *Broker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StationSuccessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if !req.Type.Valid() {
			writeError(w, http.StatusBadRequest, "unknown success type")
			return
		}

		st, err := checkStationCode(r, store, req.StationCredentials)
		if err != nil {
			writeGameError(w, err)
			return
		}

		players, err := store.ListPlayers(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		var actor *game.Player
		for i := range players {
			if players[i].ID == req.Player {
				actor = &players[i]
				break
			}
		}
		if actor == nil {
			writeError(w, http.StatusNotFound, "unknown player")
			return
		}
		if actor.Blocked {
			writeError(w, http.StatusForbidden, "player is blocked")
			return
		}

		now := time.Now().Unix()
		created, err := store.DeclareSuccess(r.Context(), st.ID, req.Player, req.Type, now)
		if err != nil {
			writeGameError(w, err)
			return
		}

		logger.Info("success declared",
			"station", st.ID, "player", req.Player, "type", created.Type)
		broker.Publish(GameEvent{
			Type:      "success",
			Station:   st.ID,
			Team:      actor.Team,
			Success:   created.Type,
			Timestamp: created.Timestamp,
		})

		view, err := stationView(r, store, st, now)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

type StationUndoRequest struct {
	StationCredentials
	ID int64 `json:"id"`
}

func handleStationUndo(store Store, broker *Broker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StationUndoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		st, err := checkStationCode(r, store, req.StationCredentials)
		if err != nil {
			writeGameError(w, err)
			return
		}

		if err := store.UndoSuccess(r.Context(), st.ID, req.ID); err != nil {
			if errors.Is(err, game.ErrStaleDeletion) {
				writeError(w, http.StatusConflict, "not the latest success of this station")
				return
			}
			writeGameError(w, err)
			return
		}

		logger.Info("success undone", "station", st.ID, "id", req.ID)
		broker.Publish(GameEvent{
			Type:      "undo",
			Station:   st.ID,
			Timestamp: time.Now().Unix(),
		})

		view, err := stationView(r, store, st, time.Now().Unix())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
