package server

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/constracti/the-gexa-war/internal/database"
	"github.com/constracti/the-gexa-war/internal/migrations"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer db.Close()
	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Seed(ctx, db, logger); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	var teams, stations, players int
	db.QueryRow(`SELECT COUNT(*) FROM teams`).Scan(&teams)
	db.QueryRow(`SELECT COUNT(*) FROM stations`).Scan(&stations)
	db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&players)
	if teams == 0 || stations == 0 || players == 0 {
		t.Fatalf("seed left empty tables: teams=%d stations=%d players=%d", teams, stations, players)
	}

	if err := Seed(ctx, db, logger); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var teamsAfter int
	db.QueryRow(`SELECT COUNT(*) FROM teams`).Scan(&teamsAfter)
	if teamsAfter != teams {
		t.Errorf("second seed duplicated teams: %d -> %d", teams, teamsAfter)
	}
}
