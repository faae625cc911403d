package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/saecki/minesweeper/mines"
)

// GameSession is a stored game. The playable state lives in the gob
// encoded State blob; the discrete columns mirror it so sessions can be
// filtered without decoding.
type GameSession struct {
	GameSessionId int64
	PlayerId      *int64
	Width         int
	Height        int
	MineCount     int
	Unambiguous   bool
	Phase         string
	State         []byte
	StartedAt     pgtype.Timestamptz
	EndedAt       pgtype.Timestamptz
}

// Game decodes the stored game state.
func (s *GameSession) Game() (*mines.Game, error) {
	g, err := mines.DecodeGame(s.State)
	if err != nil {
		return nil, fmt.Errorf("game session %d: %w", s.GameSessionId, err)
	}
	return g, nil
}

// SetGame encodes the game back into the session and syncs the mirror
// columns.
func (s *GameSession) SetGame(g *mines.Game) error {
	state, err := g.Bytes()
	if err != nil {
		return err
	}
	s.State = state
	s.Phase = g.Phase.String()
	s.Width = g.Board.Width
	s.Height = g.Board.Height
	s.MineCount = g.Board.MineCount
	s.Unambiguous = g.Params.Unambiguous
	return nil
}

func (q *Queries) CreateGameSession(
	ctx context.Context, playerId *int64, g *mines.Game,
) (*GameSession, error) {
	var session GameSession
	if err := session.SetGame(g); err != nil {
		return nil, err
	}

	rows, _ := q.db.Query(ctx, `
		INSERT INTO game_session (
			player_id, width, height, mine_count, unambiguous, phase, state
		)
		VALUES (
			@player_id, @width, @height, @mine_count, @unambiguous, @phase, @state
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"player_id":   playerId,
			"width":       session.Width,
			"height":      session.Height,
			"mine_count":  session.MineCount,
			"unambiguous": session.Unambiguous,
			"phase":       session.Phase,
			"state":       session.State,
		})
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

func (q *Queries) FetchGameSession(
	ctx context.Context, gameSessionId int64,
) (*GameSession, error) {
	rows, _ := q.db.Query(ctx, `
		SELECT * FROM game_session WHERE game_session_id = $1;`,
		gameSessionId)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	if err != nil {
		return nil, notFound(err)
	}
	return session, nil
}

// UpdateGameSession writes back the mutable columns of the session.
func (q *Queries) UpdateGameSession(
	ctx context.Context, session *GameSession,
) (*GameSession, error) {
	rows, _ := q.db.Query(ctx, `
		UPDATE game_session
		SET phase = @phase
			, state = @state
			, ended_at = @ended_at
		WHERE game_session_id = @game_session_id
		RETURNING *;`,
		pgx.NamedArgs{
			"game_session_id": session.GameSessionId,
			"phase":           session.Phase,
			"state":           session.State,
			"ended_at":        session.EndedAt,
		})
	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}
