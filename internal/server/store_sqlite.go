package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/constracti/the-gexa-war/internal/game"
)

// ErrInUse marks a deletion blocked by referencing rows (a team with
// players or successes, a station with successes).
var ErrInUse = errors.New("in use")

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GameData reads the full game state inside one read transaction, so
// the replay engine always sees a consistent cut of the success log and
// the entity tables.
func (s *SQLiteStore) GameData(ctx context.Context) (*GameData, error) {
	// go-libsql rejects sql.TxOptions{ReadOnly: true} ("read only
	// transactions are not supported"), so use default options here too.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}
	defer tx.Rollback()

	data, err := readGameData(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing read transaction: %w", err)
	}
	return data, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readGameData(ctx context.Context, q querier) (*GameData, error) {
	cfg, err := readConfig(ctx, q)
	if err != nil {
		return nil, err
	}
	stations, err := readStations(ctx, q)
	if err != nil {
		return nil, err
	}
	teams, err := readTeams(ctx, q)
	if err != nil {
		return nil, err
	}
	players, err := readPlayers(ctx, q)
	if err != nil {
		return nil, err
	}
	successes, err := readSuccesses(ctx, q)
	if err != nil {
		return nil, err
	}
	return &GameData{
		Config:    cfg,
		Stations:  stations,
		Teams:     teams,
		Players:   players,
		Successes: successes,
	}, nil
}

// --- config ---

func readConfig(ctx context.Context, q querier) (game.Config, error) {
	var cfg game.Config
	var dilution, normalization int
	err := q.QueryRowContext(ctx, `
		SELECT time_start, time_stop, reward_success, reward_conquest, reward_rate,
			capacity_dilution, player_normalization
		FROM config WHERE id = 1
	`).Scan(&cfg.TimeStart, &cfg.TimeStop, &cfg.RewardSuccess, &cfg.RewardConquest,
		&cfg.RewardRate, &dilution, &normalization)
	if errors.Is(err, sql.ErrNoRows) {
		return cfg, game.ErrNotFound
	}
	cfg.CapacityDilution = dilution != 0
	cfg.PlayerNormalization = normalization != 0
	return cfg, err
}

func (s *SQLiteStore) Config(ctx context.Context) (game.Config, error) {
	return readConfig(ctx, s.db)
}

func (s *SQLiteStore) UpdateConfig(ctx context.Context, cfg game.Config) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (id, time_start, time_stop, reward_success, reward_conquest,
			reward_rate, capacity_dilution, player_normalization)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			time_start = excluded.time_start,
			time_stop = excluded.time_stop,
			reward_success = excluded.reward_success,
			reward_conquest = excluded.reward_conquest,
			reward_rate = excluded.reward_rate,
			capacity_dilution = excluded.capacity_dilution,
			player_normalization = excluded.player_normalization
	`, cfg.TimeStart, cfg.TimeStop, cfg.RewardSuccess, cfg.RewardConquest,
		cfg.RewardRate, boolInt(cfg.CapacityDilution), boolInt(cfg.PlayerNormalization))
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- stations ---

func readStations(ctx context.Context, q querier) ([]game.Station, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, code, capacity, initial_team FROM stations ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []game.Station
	for rows.Next() {
		var st game.Station
		var initial sql.NullInt64
		if err := rows.Scan(&st.ID, &st.Name, &st.Code, &st.Capacity, &initial); err != nil {
			return nil, err
		}
		if initial.Valid {
			st.InitialTeam = initial.Int64
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

func (s *SQLiteStore) ListStations(ctx context.Context) ([]game.Station, error) {
	return readStations(ctx, s.db)
}

func (s *SQLiteStore) StationByID(ctx context.Context, id int64) (game.Station, error) {
	var st game.Station
	var initial sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, capacity, initial_team FROM stations WHERE id = ?
	`, id).Scan(&st.ID, &st.Name, &st.Code, &st.Capacity, &initial)
	if errors.Is(err, sql.ErrNoRows) {
		return st, game.ErrNotFound
	}
	if initial.Valid {
		st.InitialTeam = initial.Int64
	}
	return st, err
}

func (s *SQLiteStore) CreateStation(ctx context.Context, st game.Station) (game.Station, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO stations (name, code, capacity, initial_team)
		VALUES (?, ?, ?, NULLIF(?, 0))
		RETURNING id
	`, st.Name, st.Code, st.Capacity, st.InitialTeam).Scan(&st.ID)
	return st, err
}

func (s *SQLiteStore) UpdateStation(ctx context.Context, st game.Station) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE stations SET name = ?, code = ?, capacity = ?, initial_team = NULLIF(?, 0)
		WHERE id = ?
	`, st.Name, st.Code, st.Capacity, st.InitialTeam, st.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteStation(ctx context.Context, id int64) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM successes WHERE station_id = ?
	`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}

// --- teams ---

func readTeams(ctx context.Context, q querier) ([]game.Team, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, color FROM teams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []game.Team
	for rows.Next() {
		var t game.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *SQLiteStore) ListTeams(ctx context.Context) ([]game.Team, error) {
	return readTeams(ctx, s.db)
}

func (s *SQLiteStore) CreateTeam(ctx context.Context, t game.Team) (game.Team, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO teams (name, color) VALUES (?, ?) RETURNING id
	`, t.Name, t.Color).Scan(&t.ID)
	return t, err
}

func (s *SQLiteStore) UpdateTeam(ctx context.Context, t game.Team) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE teams SET name = ?, color = ? WHERE id = ?
	`, t.Name, t.Color, t.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteTeam(ctx context.Context, id int64) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM players WHERE team_id = ?)
			+ (SELECT COUNT(*) FROM stations WHERE initial_team = ?)
	`, id, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}

// --- players ---

func readPlayers(ctx context.Context, q querier) ([]game.Player, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, team_id, blocked FROM players ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []game.Player
	for rows.Next() {
		var p game.Player
		var blocked int
		if err := rows.Scan(&p.ID, &p.Name, &p.Team, &blocked); err != nil {
			return nil, err
		}
		p.Blocked = blocked != 0
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]game.Player, error) {
	return readPlayers(ctx, s.db)
}

func (s *SQLiteStore) CreatePlayer(ctx context.Context, p game.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, team_id, blocked) VALUES (?, ?, ?, ?)
	`, p.ID, p.Name, p.Team, boolInt(p.Blocked))
	return err
}

func (s *SQLiteStore) UpdatePlayer(ctx context.Context, p game.Player) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE players SET name = ?, team_id = ?, blocked = ? WHERE id = ?
	`, p.Name, p.Team, boolInt(p.Blocked), p.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeletePlayer(ctx context.Context, id string) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM successes WHERE player_id = ?
	`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}

// ImportPlayers upserts the parsed roster in one transaction and
// returns the number of rows written.
func (s *SQLiteStore) ImportPlayers(ctx context.Context, players []game.Player) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for _, p := range players {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO players (id, name, team_id, blocked)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				team_id = excluded.team_id
		`, p.ID, p.Name, p.Team, boolInt(p.Blocked))
		if err != nil {
			return 0, fmt.Errorf("importing player %q: %w", p.ID, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return count, nil
}

// --- successes ---

func readSuccesses(ctx context.Context, q querier) ([]game.Success, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, station_id, player_id, type, timestamp
		FROM successes ORDER BY timestamp, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var successes []game.Success
	for rows.Next() {
		var su game.Success
		if err := rows.Scan(&su.ID, &su.Station, &su.Player, &su.Type, &su.Timestamp); err != nil {
			return nil, err
		}
		successes = append(successes, su)
	}
	return successes, rows.Err()
}

// DeclareSuccess validates and appends in a single write transaction:
// the legality check runs against exactly the log the new row joins.
func (s *SQLiteStore) DeclareSuccess(ctx context.Context, stationID int64, playerID string, typ game.SuccessType, now int64) (game.Success, error) {
	var created game.Success

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return created, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	data, err := readGameData(ctx, tx)
	if err != nil {
		return created, err
	}

	if err := data.Config.CheckRunning(now); err != nil {
		return created, err
	}

	var actor *game.Player
	for i := range data.Players {
		if data.Players[i].ID == playerID {
			actor = &data.Players[i]
			break
		}
	}
	if actor == nil {
		return created, game.ErrNotFound
	}

	found := false
	for _, st := range data.Stations {
		if st.ID == stationID {
			found = true
			break
		}
	}
	if !found {
		return created, game.ErrNotFound
	}

	// Evaluate just past now: the replay filter is strictly "before", and
	// a success recorded earlier this same second must count for the gate.
	snap := data.Evaluate(now + 1)
	if err := game.CheckSuccess(snap, stationID, actor.Team, typ); err != nil {
		return created, err
	}

	created = game.Success{
		Station:   stationID,
		Player:    playerID,
		Type:      typ,
		Timestamp: now,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO successes (station_id, player_id, type, timestamp)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, created.Station, created.Player, created.Type, created.Timestamp).Scan(&created.ID)
	if err != nil {
		return created, fmt.Errorf("appending success: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return created, fmt.Errorf("committing success: %w", err)
	}
	return created, nil
}

// UndoSuccess retracts a mis-tap. The check and the delete share a
// transaction for the same reason DeclareSuccess does.
func (s *SQLiteStore) UndoSuccess(ctx context.Context, stationID, successID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	successes, err := readSuccesses(ctx, tx)
	if err != nil {
		return err
	}
	if err := game.CheckUndo(successes, stationID, successID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM successes WHERE id = ?`, successID); err != nil {
		return fmt.Errorf("deleting success: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing deletion: %w", err)
	}
	return nil
}

// --- admins ---

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (int64, string, error) {
	var adminID int64
	var passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", game.ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID int64) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_sessions (admin_id)
		VALUES (?)
		RETURNING id
	`, adminID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}
