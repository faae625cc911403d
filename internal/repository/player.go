package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type Player struct {
	PlayerId     int64
	Username     string
	PasswordHash []byte
	CreatedAt    pgtype.Timestamptz
}

// CreatePlayer inserts a new player. A taken username surfaces as
// ErrDuplicateUsername.
func (q *Queries) CreatePlayer(
	ctx context.Context, username string, passwordHash []byte,
) (*Player, error) {
	rows, _ := q.db.Query(ctx, `
		INSERT INTO player (username, password_hash)
		VALUES (@username, @password_hash)
		RETURNING *;`,
		pgx.NamedArgs{
			"username":      username,
			"password_hash": passwordHash,
		})
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	if err != nil {
		if isIntegrityViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, username)
		}
		return nil, err
	}
	return player, nil
}

func (q *Queries) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	rows, _ := q.db.Query(ctx, `
		SELECT * FROM player WHERE username = $1;`,
		username)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	if err != nil {
		return nil, notFound(err)
	}
	return player, nil
}
