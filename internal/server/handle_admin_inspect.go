package server

import (
	"net/http"
	"sort"
)

// InspectInterval is one pair of consecutive successes by the same
// player. Small Seconds values mean the player crossed between two
// stations implausibly fast.
type InspectInterval struct {
	Player      string `json:"player"`
	PlayerName  string `json:"playerName"`
	Team        int64  `json:"team"`
	Blocked     bool   `json:"blocked"`
	FromStation int64  `json:"fromStation"`
	ToStation   int64  `json:"toStation"`
	FromTime    int64  `json:"fromTime"`
	ToTime      int64  `json:"toTime"`
	Seconds     int64  `json:"seconds"`
}

// handleAdminInspect lists every consecutive-success interval sorted by
// duration, shortest first. The success log is already in (timestamp,
// id) order per station query, but here we need the global order.
func handleAdminInspect(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := store.GameData(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		successes := make([]int, 0, len(data.Successes))
		for i := range data.Successes {
			successes = append(successes, i)
		}
		sort.Slice(successes, func(a, b int) bool {
			lhs, rhs := data.Successes[successes[a]], data.Successes[successes[b]]
			if lhs.Timestamp != rhs.Timestamp {
				return lhs.Timestamp < rhs.Timestamp
			}
			return lhs.ID < rhs.ID
		})

		type playerInfo struct {
			name    string
			team    int64
			blocked bool
		}
		players := make(map[string]playerInfo, len(data.Players))
		for _, p := range data.Players {
			players[p.ID] = playerInfo{name: p.Name, team: p.Team, blocked: p.Blocked}
		}

		intervals := []InspectInterval{}
		lastIdx := make(map[string]int, len(data.Players))
		for _, idx := range successes {
			current := data.Successes[idx]
			if prevIdx, ok := lastIdx[current.Player]; ok {
				previous := data.Successes[prevIdx]
				info := players[current.Player]
				intervals = append(intervals, InspectInterval{
					Player:      current.Player,
					PlayerName:  info.name,
					Team:        info.team,
					Blocked:     info.blocked,
					FromStation: previous.Station,
					ToStation:   current.Station,
					FromTime:    previous.Timestamp,
					ToTime:      current.Timestamp,
					Seconds:     current.Timestamp - previous.Timestamp,
				})
			}
			lastIdx[current.Player] = idx
		}
		sort.SliceStable(intervals, func(a, b int) bool {
			return intervals[a].Seconds < intervals[b].Seconds
		})

		writeJSON(w, http.StatusOK, intervals)
	}
}
