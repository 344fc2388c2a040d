package server

import (
	"context"

	"github.com/constracti/the-gexa-war/internal/game"
)

// GameData is one frozen copy of everything the replay engine consumes.
// Reading it inside a single transaction is what keeps concurrent
// snapshot queries consistent without any locking in the engine.
type GameData struct {
	Config    game.Config
	Stations  []game.Station
	Teams     []game.Team
	Players   []game.Player
	Successes []game.Success
}

// Evaluate replays the frozen data at the given instant.
func (d *GameData) Evaluate(at int64) game.Snapshot {
	return game.Evaluate(d.Config, d.Stations, d.Teams, d.Players, d.Successes, at)
}

type adminSession struct {
	AdminID int64
	Email   string
}

type Store interface {
	GameData(ctx context.Context) (*GameData, error)

	Config(ctx context.Context) (game.Config, error)
	UpdateConfig(ctx context.Context, cfg game.Config) error

	ListStations(ctx context.Context) ([]game.Station, error)
	StationByID(ctx context.Context, id int64) (game.Station, error)
	CreateStation(ctx context.Context, st game.Station) (game.Station, error)
	UpdateStation(ctx context.Context, st game.Station) error
	DeleteStation(ctx context.Context, id int64) error

	ListTeams(ctx context.Context) ([]game.Team, error)
	CreateTeam(ctx context.Context, t game.Team) (game.Team, error)
	UpdateTeam(ctx context.Context, t game.Team) error
	DeleteTeam(ctx context.Context, id int64) error

	ListPlayers(ctx context.Context) ([]game.Player, error)
	CreatePlayer(ctx context.Context, p game.Player) error
	UpdatePlayer(ctx context.Context, p game.Player) error
	DeletePlayer(ctx context.Context, id string) error
	ImportPlayers(ctx context.Context, players []game.Player) (int, error)

	// DeclareSuccess runs the acceptance gate and the append in one
	// transaction, so two interleaved conquests of the same station
	// cannot both pass the legality check.
	DeclareSuccess(ctx context.Context, stationID int64, playerID string, typ game.SuccessType, now int64) (game.Success, error)
	// UndoSuccess deletes a success only while it is the latest one of
	// its station.
	UndoSuccess(ctx context.Context, stationID, successID int64) error

	AdminByEmail(ctx context.Context, email string) (adminID int64, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID int64) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
