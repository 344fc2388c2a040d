package game

import "sort"

// StationState is the derived ownership of one station. Controller is
// zero while the station is contested; Since is the open conquest
// timestamp and is meaningful only when Controller is set.
type StationState struct {
	ID         int64
	Controller int64
	Since      int64
}

// TeamScore is one team's accrued score at the snapshot instant. The
// value keeps full float precision; rounding is a presentation concern.
type TeamScore struct {
	ID    int64
	Score float64
}

// Snapshot is the full derived state at one evaluation instant: who
// controls what, how much every team has scored, and the replayed
// success log (sorted, restricted to events before Time). Stations and
// Teams preserve input order.
type Snapshot struct {
	Time      int64
	Stations  []StationState
	Teams     []TeamScore
	Successes []Success
}

// Controller returns the controlling team of a station, or zero when
// the station is contested or unknown.
func (s Snapshot) Controller(stationID int64) int64 {
	for _, st := range s.Stations {
		if st.ID == stationID {
			return st.Controller
		}
	}
	return 0
}

// Score returns a team's score, or zero for an unknown team.
func (s Snapshot) Score(teamID int64) float64 {
	for _, t := range s.Teams {
		if t.ID == teamID {
			return t.Score
		}
	}
	return 0
}

// conquest is an open controlled interval during replay.
type conquest struct {
	team  int64
	since int64
}

// Evaluate replays the success log and derives ownership and scores at
// the instant at, clamped to the game window. It is a pure function:
// it never mutates its inputs and holds no state between calls.
//
// Two reward streams accrue per team. Every success earns
// RewardSuccess scaled by the linear rate multiplier at its timestamp
// (optionally diluted by station capacity). Every controlled interval
// earns RewardConquest per minute scaled by the multiplier at the
// interval midpoint — the midpoint is a deliberate approximation of the
// linear ramp and must not be replaced by exact integration, or scores
// drift from the historical record.
func Evaluate(cfg Config, stations []Station, teams []Team, players []Player, successes []Success, at int64) Snapshot {
	at = cfg.Clamp(at)

	capacity := make(map[int64]int, len(stations))
	open := make(map[int64]*conquest, len(stations))
	for _, st := range stations {
		capacity[st.ID] = st.Capacity
		if st.InitialTeam != 0 {
			// A configured initial owner behaves like a conquest
			// at game start.
			open[st.ID] = &conquest{team: st.InitialTeam, since: cfg.TimeStart}
		} else {
			open[st.ID] = nil
		}
	}

	playerTeam := make(map[string]int64, len(players))
	blocked := make(map[string]bool, len(players))
	roster := make(map[int64]int, len(teams))
	for _, p := range players {
		playerTeam[p.ID] = p.Team
		blocked[p.ID] = p.Blocked
		if !p.Blocked {
			roster[p.Team]++
		}
	}

	log := replayLog(successes, at)

	score := make(map[int64]float64, len(teams))
	for _, s := range log {
		team := playerTeam[s.Player]
		if s.Type != SuccessSimple {
			// Close the open interval and credit whoever held the
			// station, regardless of who acted.
			if c := open[s.Station]; c != nil {
				score[c.team] += cfg.holdingReward(c.since, s.Timestamp)
			}
			if s.Type == SuccessConquest {
				open[s.Station] = &conquest{team: team, since: s.Timestamp}
			} else {
				open[s.Station] = nil
			}
		}
		if !blocked[s.Player] {
			r := cfg.successReward(s.Timestamp)
			if cfg.CapacityDilution {
				if n := capacity[s.Station]; n > 1 {
					r /= float64(n)
				}
			}
			score[team] += r
		}
	}

	// Trailing open conquests accrue up to the evaluation instant.
	for _, st := range stations {
		if c := open[st.ID]; c != nil {
			score[c.team] += cfg.holdingReward(c.since, at)
		}
	}

	if cfg.PlayerNormalization {
		for _, t := range teams {
			if n := roster[t.ID]; n > 0 {
				score[t.ID] /= float64(n)
			}
		}
	}

	snap := Snapshot{
		Time:      at,
		Stations:  make([]StationState, 0, len(stations)),
		Teams:     make([]TeamScore, 0, len(teams)),
		Successes: log,
	}
	for _, st := range stations {
		state := StationState{ID: st.ID}
		if c := open[st.ID]; c != nil {
			state.Controller = c.team
			state.Since = c.since
		}
		snap.Stations = append(snap.Stations, state)
	}
	for _, t := range teams {
		snap.Teams = append(snap.Teams, TeamScore{ID: t.ID, Score: score[t.ID]})
	}
	return snap
}

// replayLog copies the successes strictly before at, sorted by
// (timestamp, id). Insertion order is deliberately ignored so snapshots
// are independent of how events reached storage.
func replayLog(successes []Success, at int64) []Success {
	log := make([]Success, 0, len(successes))
	for _, s := range successes {
		if s.Timestamp < at {
			log = append(log, s)
		}
	}
	sort.Slice(log, func(i, j int) bool {
		if log[i].Timestamp != log[j].Timestamp {
			return log[i].Timestamp < log[j].Timestamp
		}
		return log[i].ID < log[j].ID
	})
	return log
}

// successReward is the one-time reward of a success at timestamp t.
func (c Config) successReward(t int64) float64 {
	value := 1 + c.RewardRate/3600*float64(t-c.TimeStart)
	return c.RewardSuccess * value
}

// holdingReward is the reward for controlling a station over [t0, t1].
// The rate multiplier is sampled at the interval midpoint.
func (c Config) holdingReward(t0, t1 int64) float64 {
	duration := float64(t1 - t0)
	mean := float64(t0+t1) / 2
	value := 1 + c.RewardRate/3600*(mean-float64(c.TimeStart))
	return c.RewardConquest / 60 * value * duration
}
