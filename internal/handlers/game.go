package handlers

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"

	"github.com/saecki/minesweeper/internal/config"
	"github.com/saecki/minesweeper/internal/middleware"
	"github.com/saecki/minesweeper/internal/repository"
	"github.com/saecki/minesweeper/mines"
)

type GameHandler struct {
	log     *logrus.Logger
	store   Store
	cookies *config.Cookies
	ws      *config.WebSocket
	rnd     *rand.Rand
}

func NewGameHandler(
	log *logrus.Logger,
	store Store,
	cookies *config.Cookies,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		log:     log,
		store:   store,
		cookies: cookies,
		ws:      ws,
		rnd:     rnd,
	}
}

// Create starts a new game session. The first cell is opened right
// away, which is what triggers board generation, so the response
// already contains a revealed zero region.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createGameDTO
	if err := dec.Decode(&dto, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	params, err := dto.gameParams()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}

	game := mines.NewGame(params, h.rnd)
	if !game.Board.IsInBounds(dto.X, dto.Y) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid cell coordinates"))
		return
	}
	if _, err := game.Reveal(r.Context(), dto.X, dto.Y); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to generate a new game: ", err)
		return
	}

	var playerId *int64
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		h.log.Debug("creating session for player ", claims.Username)
		playerId = &claims.PlayerId
	} else {
		h.log.Debug("creating anonymous session")
	}

	session, err := h.store.CreateGameSession(r.Context(), playerId, game)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to create game session: ", err)
		return
	}

	// A tiny board can be won by the very first reveal.
	if game.Phase.Over() {
		session.EndedAt = pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
		if session, err = h.store.UpdateGameSession(r.Context(), session); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.log.Error("unable to update game session: ", err)
			return
		}
	}

	if _, err := sendJSON(w, newGameSessionDTO(session, game)); err != nil {
		h.log.Error(err)
	}
}

func (h *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, ok := h.fetchSession(w, r)
	if !ok {
		return
	}
	game, err := session.Game()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error(err)
		return
	}
	if _, err := sendJSON(w, newGameSessionDTO(session, game)); err != nil {
		h.log.Error(err)
	}
}

func (h *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	var pos posDTO
	if err := dec.Decode(&pos, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	h.updateSession(w, r, func(game *mines.Game) error {
		if !game.Board.IsInBounds(pos.X, pos.Y) {
			return errors.New("invalid cell coordinates")
		}
		_, err := game.Reveal(r.Context(), pos.X, pos.Y)
		return err
	})
}

func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	var pos posDTO
	if err := dec.Decode(&pos, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	h.updateSession(w, r, func(game *mines.Game) error {
		if !game.Board.IsInBounds(pos.X, pos.Y) {
			return errors.New("invalid cell coordinates")
		}
		game.ToggleHint(pos.X, pos.Y)
		return nil
	})
}

func (h *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	h.updateSession(w, r, func(game *mines.Game) error {
		game.Forfeit()
		return nil
	})
}

// Batch executes a newline separated command script from the request
// body as a single update.
func (h *GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	h.updateSession(w, r, func(game *mines.Game) error {
		return executeScript(r.Context(), game, string(body))
	})
}

// Connect upgrades the request to a websocket and runs a command loop:
// every text message is a command script, every successful execution
// persists the session and answers with its JSON state.
func (h *GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session, ok := h.fetchSession(w, r)
	if !ok {
		return
	}
	game, err := session.Game()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error(err)
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade: ", err)
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("read: ", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		script := strings.TrimSpace(string(message))
		h.log.Debug("\t> ", script)

		wasOver := game.Phase.Over()
		if err := executeScript(context.Background(), game, script); err != nil {
			h.log.Error("command: ", err)
			break
		}
		if err := session.SetGame(game); err != nil {
			h.log.Error(err)
			break
		}
		if game.Phase.Over() && !wasOver {
			session.EndedAt = pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
		}
		session, err = h.store.UpdateGameSession(context.Background(), session)
		if err != nil {
			h.log.Error("unable to update game session: ", err)
			break
		}
		if err := c.WriteJSON(newGameSessionDTO(session, game)); err != nil {
			h.log.Error("write: ", err)
			break
		}
		h.log.Debug("\t< <session data>")
	}
}

func (h *GameHandler) fetchSession(w http.ResponseWriter, r *http.Request) (*repository.GameSession, bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	session, err := h.store.FetchGameSession(r.Context(), sessionId)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to fetch game session: ", err)
		return nil, false
	}
	return session, true
}

// updateSession loads the session, applies mutate to its game and
// persists the result. The session's end timestamp is set when the
// move ends the game.
func (h *GameHandler) updateSession(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(game *mines.Game) error,
) {
	session, ok := h.fetchSession(w, r)
	if !ok {
		return
	}
	game, err := session.Game()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error(err)
		return
	}

	wasOver := game.Phase.Over()
	if err := mutate(game); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	if err := session.SetGame(game); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error(err)
		return
	}
	if game.Phase.Over() && !wasOver {
		session.EndedAt = pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
	}

	session, err = h.store.UpdateGameSession(r.Context(), session)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to update game session: ", err)
		return
	}

	if _, err := sendJSON(w, newGameSessionDTO(session, game)); err != nil {
		h.log.Error(err)
	}
}
