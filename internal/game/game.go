// Package game defines the core domain types and the score/ownership
// replay engine. It has zero external dependencies — everything here is
// pure Go.
//
// Nothing in this package holds mutable state: every query is a full
// replay of the success log up to an evaluation instant, so identical
// inputs always produce identical snapshots.
package game

// Station is a physical capture point.
type Station struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"` // access code for the station console, opaque to the engine
	Capacity int    `json:"capacity"` // dilutes the simple-success reward, always >= 1
	// InitialTeam owns the station at game start as if it had conquered
	// it then. Zero means the station starts contested.
	InitialTeam int64 `json:"initialTeam"`
}

// Team identifiers are positive; zero stands for "no team" throughout
// the package.
type Team struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // presentation only, ignored by the engine
}

// Player identifiers are externally assigned strings (badge numbers).
// Blocked players stay in the success history but earn no reward and do
// not count toward their team's roster size.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Team    int64  `json:"team"`
	Blocked bool   `json:"blocked"`
}

// SuccessType discriminates the three station actions.
type SuccessType string

const (
	// SuccessSimple scores without affecting ownership.
	SuccessSimple SuccessType = "simple"
	// SuccessNeutralization revokes the current controller without
	// installing a new one.
	SuccessNeutralization SuccessType = "neutralization"
	// SuccessConquest establishes the acting team as controller.
	SuccessConquest SuccessType = "conquest"
)

// Valid reports whether t is one of the three known success types.
func (t SuccessType) Valid() bool {
	switch t {
	case SuccessSimple, SuccessNeutralization, SuccessConquest:
		return true
	}
	return false
}

// Success is one append-only log entry. The ID is monotonic and is used
// only for ordering ties and for undo; Timestamp is Unix seconds.
// Storage order is not trusted: the engine sorts by (Timestamp, ID)
// before every replay.
type Success struct {
	ID        int64       `json:"id"`
	Station   int64       `json:"station"`
	Player    string      `json:"player"`
	Type      SuccessType `json:"type"`
	Timestamp int64       `json:"timestamp"`
}

// Config carries the game window and the reward policy. All times are
// Unix seconds.
//
// RewardRate is the fractional growth per hour applied to both reward
// streams, anchored at TimeStart; zero gives flat rewards. The two
// flags select optional normalizations: CapacityDilution divides each
// event reward by the station capacity, PlayerNormalization divides
// each team's total by its active roster size.
type Config struct {
	TimeStart           int64   `json:"timeStart"`
	TimeStop            int64   `json:"timeStop"`
	RewardSuccess       float64 `json:"rewardSuccess"`       // per qualifying success
	RewardConquest      float64 `json:"rewardConquest"`      // per minute of station control
	RewardRate          float64 `json:"rewardRate"`          // fractional growth per hour
	CapacityDilution    bool    `json:"capacityDilution"`
	PlayerNormalization bool    `json:"playerNormalization"`
}
