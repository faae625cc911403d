package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/saecki/minesweeper/internal/repository"
	"github.com/saecki/minesweeper/mines"
)

// Store is the persistence surface the handlers need. *repository.Queries
// implements it against postgres, tests plug in an in-memory fake.
type Store interface {
	CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*repository.Player, error)
	FetchPlayer(ctx context.Context, username string) (*repository.Player, error)
	CreateGameSession(ctx context.Context, playerId *int64, game *mines.Game) (*repository.GameSession, error)
	FetchGameSession(ctx context.Context, gameSessionId int64) (*repository.GameSession, error)
	UpdateGameSession(ctx context.Context, session *repository.GameSession) (*repository.GameSession, error)
}

func sendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}
