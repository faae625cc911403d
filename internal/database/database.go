package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saecki/minesweeper/internal/config"
)

// schema is applied on every connect. Statements are idempotent, so a
// restart against an existing database is a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS player (
	player_id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS game_session (
	game_session_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	player_id       BIGINT REFERENCES player (player_id),
	width           INT NOT NULL,
	height          INT NOT NULL,
	mine_count      INT NOT NULL,
	unambiguous     BOOLEAN NOT NULL,
	phase           TEXT NOT NULL,
	state           BYTEA NOT NULL,
	started_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	ended_at        TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS game_session_player_id_idx
	ON game_session (player_id);
`

// Connect opens a pgx pool from the environment config, pings it and
// bootstraps the schema.
func Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := config.NewPgxpoolConfig()
	if err != nil {
		return nil, err
	}
	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to bootstrap schema: %w", err)
	}
	return db, nil
}
