package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates an empty database with a small demo game and a default
// admin account. It is a no-op when teams already exist, so restarting
// the server never touches live data.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	var teams int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&teams); err != nil {
		return fmt.Errorf("counting teams: %w", err)
	}
	if teams > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range []struct {
		name, color string
	}{
		{"Red", "#dc3545"},
		{"Green", "#198754"},
		{"Blue", "#0d6efd"},
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO teams (name, color) VALUES (?, ?)`, t.name, t.color); err != nil {
			return fmt.Errorf("seeding team %s: %w", t.name, err)
		}
	}

	for _, st := range []struct {
		name, code string
		capacity   int
	}{
		{"Fountain", "1111", 1},
		{"Old Mill", "2222", 1},
		{"Watchtower", "3333", 2},
		{"Bridge", "4444", 3},
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stations (name, code, capacity) VALUES (?, ?, ?)`,
			st.name, st.code, st.capacity); err != nil {
			return fmt.Errorf("seeding station %s: %w", st.name, err)
		}
	}

	for _, p := range []struct {
		id, name string
		team     int64
	}{
		{"101", "Alice", 1},
		{"102", "Bob", 1},
		{"201", "Carol", 2},
		{"202", "Dave", 2},
		{"301", "Erin", 3},
		{"302", "Frank", 3},
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO players (id, name, team_id) VALUES (?, ?, ?)`,
			p.id, p.name, p.team); err != nil {
			return fmt.Errorf("seeding player %s: %w", p.id, err)
		}
	}

	now := time.Now().Unix()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO config (id, time_start, time_stop, reward_success, reward_conquest, reward_rate)
		VALUES (1, ?, ?, 10, 1, 0.5)
		ON CONFLICT (id) DO NOTHING
	`, now, now+4*3600); err != nil {
		return fmt.Errorf("seeding config: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing default admin password: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO admins (email, password_hash) VALUES (?, ?)
		ON CONFLICT (email) DO NOTHING
	`, "admin@example.com", string(hash)); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	logger.Info("seeded demo game", "admin", "admin@example.com")
	return nil
}
