package handlers

import (
	"errors"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/saecki/minesweeper/internal/repository"
	"github.com/saecki/minesweeper/mines"
)

var dec = schema.NewDecoder()

func init() {
	dec.IgnoreUnknownKeys(true)
}

type createGameDTO struct {
	Width       int    `schema:"width"`
	Height      int    `schema:"height"`
	MineCount   int    `schema:"mine_count"`
	Difficulty  string `schema:"difficulty"`
	Unambiguous bool   `schema:"unambiguous"`
	X           int    `schema:"x,required"`
	Y           int    `schema:"y,required"`
}

// gameParams resolves the request into board parameters. A difficulty
// name wins over explicit dimensions.
func (dto createGameDTO) gameParams() (mines.GameParams, error) {
	if dto.Difficulty != "" {
		difficulty, err := mines.ParseDifficulty(dto.Difficulty)
		if err != nil {
			return mines.GameParams{}, err
		}
		return difficulty.Params(dto.Unambiguous), nil
	}
	if dto.MineCount <= 0 {
		return mines.GameParams{}, errors.New("either difficulty or mine_count is required")
	}
	params := mines.GameParams{
		Width:       dto.Width,
		Height:      dto.Height,
		MineCount:   dto.MineCount,
		Unambiguous: dto.Unambiguous,
	}
	return params, params.Validate()
}

type posDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

type GameSessionDTO struct {
	GameSessionId  string   `json:"game_session_id"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	MineCount      int      `json:"mine_count"`
	Unambiguous    bool     `json:"unambiguous"`
	Phase          string   `json:"phase"`
	RemainingMines int      `json:"remaining_mines"`
	Grid           []string `json:"grid"`
	StartedAt      int64    `json:"started_at"`
	EndedAt        *int64   `json:"ended_at,omitempty"`
}

func newGameSessionDTO(session *repository.GameSession, game *mines.Game) *GameSessionDTO {
	dto := &GameSessionDTO{
		GameSessionId:  strconv.FormatInt(session.GameSessionId, 10),
		Width:          game.Board.Width,
		Height:         game.Board.Height,
		MineCount:      game.Board.MineCount,
		Unambiguous:    game.Params.Unambiguous,
		Phase:          game.Phase.String(),
		RemainingMines: game.RemainingMines(),
		Grid:           playerGrid(game),
		StartedAt:      session.StartedAt.Time.UnixMilli(),
	}
	if session.EndedAt.Valid {
		endedAt := session.EndedAt.Time.UnixMilli()
		dto.EndedAt = &endedAt
	}
	return dto
}

// playerGrid renders the board as the player may see it, one string per
// row: '.' hidden, 'h' hinted, '*' a revealed mine and '0'..'8' the
// mine neighbor count of a revealed cell.
func playerGrid(game *mines.Game) []string {
	grid := make([]string, 0, game.Board.Height)
	row := make([]byte, game.Board.Width)
	for y := range game.Board.Height {
		for x := range game.Board.Width {
			cell := game.Board.At(x, y)
			switch cell.Vis {
			case mines.Hidden:
				row[x] = '.'
			case mines.Hinted:
				row[x] = 'h'
			case mines.Revealed:
				if cell.Content == mines.Mine {
					row[x] = '*'
				} else {
					row[x] = '0' + byte(cell.Content)
				}
			}
		}
		grid = append(grid, string(row))
	}
	return grid
}
