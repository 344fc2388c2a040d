package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/constracti/the-gexa-war/internal/game"
)

// recentLimit caps the event list returned in a snapshot.
const recentLimit = 50

type GameStation struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type GameTeam struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Players int    `json:"players"`
}

type GameSuccess struct {
	ID        int64            `json:"id"`
	Station   int64            `json:"station"`
	Team      int64            `json:"team"`
	Type      game.SuccessType `json:"type"`
	Timestamp int64            `json:"timestamp"`
}

// GameResponse is the raw material for client-side replay: the reward
// parameters and the full success log. The timelapse page walks this
// forward locally instead of polling snapshots.
type GameResponse struct {
	TimeStart      int64         `json:"timeStart"`
	TimeStop       int64         `json:"timeStop"`
	TimeNow        int64         `json:"timeNow"`
	RewardSuccess  float64       `json:"rewardSuccess"`
	RewardConquest float64       `json:"rewardConquest"`
	RewardRate     float64       `json:"rewardRate"`
	Stations       []GameStation `json:"stations"`
	Teams          []GameTeam    `json:"teams"`
	Successes      []GameSuccess `json:"successes"`
}

func handleGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := store.GameData(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := GameResponse{
			TimeStart:      data.Config.TimeStart,
			TimeStop:       data.Config.TimeStop,
			TimeNow:        data.Config.Clamp(time.Now().Unix()),
			RewardSuccess:  data.Config.RewardSuccess,
			RewardConquest: data.Config.RewardConquest,
			RewardRate:     data.Config.RewardRate,
			Stations:       make([]GameStation, 0, len(data.Stations)),
			Teams:          make([]GameTeam, 0, len(data.Teams)),
			Successes:      make([]GameSuccess, 0, len(data.Successes)),
		}
		for _, st := range data.Stations {
			resp.Stations = append(resp.Stations, GameStation{
				ID:       st.ID,
				Name:     st.Name,
				Capacity: st.Capacity,
			})
		}
		roster := make(map[int64]int, len(data.Teams))
		playerTeam := make(map[string]int64, len(data.Players))
		for _, p := range data.Players {
			playerTeam[p.ID] = p.Team
			if !p.Blocked {
				roster[p.Team]++
			}
		}
		for _, t := range data.Teams {
			resp.Teams = append(resp.Teams, GameTeam{
				ID:      t.ID,
				Name:    t.Name,
				Color:   t.Color,
				Players: roster[t.ID],
			})
		}
		for _, su := range data.Successes {
			resp.Successes = append(resp.Successes, GameSuccess{
				ID:        su.ID,
				Station:   su.Station,
				Team:      playerTeam[su.Player],
				Type:      su.Type,
				Timestamp: su.Timestamp,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type SnapshotStation struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Controller *int64 `json:"controller"`
	Since      int64  `json:"since,omitempty"`
}

type SnapshotTeam struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Score float64 `json:"score"`
}

// SnapshotResponse is the fully derived state at one instant.
type SnapshotResponse struct {
	Time     int64             `json:"time"`
	Phase    game.Phase        `json:"phase"`
	Stations []SnapshotStation `json:"stations"`
	Teams    []SnapshotTeam    `json:"teams"`
	Recent   []GameSuccess     `json:"recent"`
}

// handleSnapshot serves both live polling (no time parameter) and
// historical replay (time=unix). The computation is identical; only the
// evaluation instant differs.
func handleSnapshot(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		at := time.Now().Unix()
		if raw := r.URL.Query().Get("time"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "time must be a unix timestamp")
				return
			}
			at = parsed
		}

		data, err := store.GameData(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, buildSnapshot(data, at))
	}
}

func buildSnapshot(data *GameData, at int64) SnapshotResponse {
	snap := data.Evaluate(at)

	stationName := make(map[int64]string, len(data.Stations))
	for _, st := range data.Stations {
		stationName[st.ID] = st.Name
	}
	teamMeta := make(map[int64]game.Team, len(data.Teams))
	for _, t := range data.Teams {
		teamMeta[t.ID] = t
	}
	playerTeam := make(map[string]int64, len(data.Players))
	for _, p := range data.Players {
		playerTeam[p.ID] = p.Team
	}

	resp := SnapshotResponse{
		Time:     snap.Time,
		Phase:    data.Config.Phase(at),
		Stations: make([]SnapshotStation, 0, len(snap.Stations)),
		Teams:    make([]SnapshotTeam, 0, len(snap.Teams)),
		Recent:   []GameSuccess{},
	}
	for _, st := range snap.Stations {
		out := SnapshotStation{ID: st.ID, Name: stationName[st.ID]}
		if st.Controller != 0 {
			controller := st.Controller
			out.Controller = &controller
			out.Since = st.Since
		}
		resp.Stations = append(resp.Stations, out)
	}
	for _, ts := range snap.Teams {
		meta := teamMeta[ts.ID]
		resp.Teams = append(resp.Teams, SnapshotTeam{
			ID:    ts.ID,
			Name:  meta.Name,
			Color: meta.Color,
			Score: ts.Score,
		})
	}
	// Newest first, capped.
	for i := len(snap.Successes) - 1; i >= 0 && len(resp.Recent) < recentLimit; i-- {
		su := snap.Successes[i]
		resp.Recent = append(resp.Recent, GameSuccess{
			ID:        su.ID,
			Station:   su.Station,
			Team:      playerTeam[su.Player],
			Type:      su.Type,
			Timestamp: su.Timestamp,
		})
	}
	return resp
}
