package mines

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
)

// Phase is the lifecycle state of a game.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhasePlaying
	PhaseWon
	PhaseLost
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	}
	return "unknown"
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "init":
		return PhaseInit, nil
	case "playing":
		return PhasePlaying, nil
	case "won":
		return PhaseWon, nil
	case "lost":
		return PhaseLost, nil
	}
	return 0, fmt.Errorf("invalid phase %q", s)
}

// Over reports whether the game has ended.
func (p Phase) Over() bool {
	return p == PhaseWon || p == PhaseLost
}

// Density is a half open range [Min, Max) of mine densities.
type Density struct {
	Min, Max float64
}

// Difficulty selects one of the preset board sizes.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "unknown"
}

// ParseDifficulty is the inverse of Difficulty.String.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("invalid difficulty %q", s)
}

// Params returns the preset parameters for the difficulty.
func (d Difficulty) Params(unambiguous bool) GameParams {
	switch d {
	case Medium:
		return GameParams{Width: 30, Height: 18, Density: Density{0.16, 0.17}, Unambiguous: unambiguous}
	case Hard:
		return GameParams{Width: 40, Height: 24, Density: Density{0.21, 0.22}, Unambiguous: unambiguous}
	default:
		return GameParams{Width: 20, Height: 14, Density: Density{0.12, 0.13}, Unambiguous: unambiguous}
	}
}

// GameParams describes a board to generate. MineCount takes precedence
// when set; otherwise the count is drawn uniformly from the Density
// range when the game is created. With Unambiguous set, generation
// retries until the board is certified solvable from the first
// revealed cell.
type GameParams struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	MineCount   int     `json:"mine_count,omitempty"`
	Density     Density `json:"-"`
	Unambiguous bool    `json:"unambiguous"`
}

// Validate checks that the parameters describe a playable board.
func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("board dimensions must be positive")
	}
	if p.MineCount < 0 {
		return fmt.Errorf("mine count must not be negative")
	}
	if p.MineCount >= p.Width*p.Height {
		return fmt.Errorf("mine count %d leaves no room on a %dx%d board",
			p.MineCount, p.Width, p.Height)
	}
	if p.MineCount == 0 {
		if p.Density.Min < 0 || p.Density.Max > 1 || p.Density.Max < p.Density.Min {
			return fmt.Errorf("invalid mine density range [%v, %v)",
				p.Density.Min, p.Density.Max)
		}
	}
	return nil
}

func (p GameParams) mineCount(rnd *rand.Rand) int {
	if p.MineCount > 0 {
		return p.MineCount
	}
	cells := p.Width * p.Height
	lo := int(p.Density.Min * float64(cells))
	hi := int(p.Density.Max * float64(cells))
	if hi <= lo {
		return lo
	}
	return lo + rnd.IntN(hi-lo)
}

// Game wraps a board with the player facing rules: lazy first click
// generation, hint protection, chording and the win and loss sweeps.
type Game struct {
	Params GameParams
	Phase  Phase
	Board  *Board

	rnd *rand.Rand
}

// NewGame prepares an empty board; the mine count is drawn right away
// but mines are only placed on the first reveal, so that the clicked
// cell always opens a zero region. rnd may be nil, in which case a
// randomly seeded source is used.
func NewGame(params GameParams, rnd *rand.Rand) *Game {
	if rnd == nil {
		rnd = newSeededRand()
	}
	return &Game{
		Params: params,
		Phase:  PhaseInit,
		Board:  NewBoard(params.Width, params.Height, params.mineCount(rnd)),
		rnd:    rnd,
	}
}

func newSeededRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(),
		new(maphash.Hash).Sum64(),
	))
}

// generate places mines until the first clicked cell is a zero and,
// for unambiguous games, the board is certified solvable from it.
func (g *Game) generate(ctx context.Context, x, y int) error {
	if g.rnd == nil {
		g.rnd = newSeededRand()
	}

	b := g.Board
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		b.Clear()
		b.PlaceMines(g.rnd)
		if b.At(x, y).Content == 0 {
			if !g.Params.Unambiguous || b.Unambiguous(ctx, x, y) {
				return nil
			}
		}
	}
}

// Reveal opens the cell at (x, y) and reports whether that move won
// the game.
//
// The first reveal generates the board; with Unambiguous set this
// loops until certification passes, so a ctx deadline is the only
// bound on generation time. Hinted cells are protected and never open.
// Revealing a revealed numbered cell whose hints match its count
// chords: the remaining unhinted neighbors open, which loses when a
// hint was wrong. Revealing a mine loses. After the game is over,
// Reveal is a no-op.
func (g *Game) Reveal(ctx context.Context, x, y int) (bool, error) {
	if g.Phase.Over() || !g.Board.IsInBounds(x, y) {
		return false, nil
	}

	if g.Phase == PhaseInit {
		if err := g.generate(ctx, x, y); err != nil {
			return false, err
		}
		g.Phase = PhasePlaying
	}

	cell := g.Board.At(x, y)
	if cell.Vis == Hinted {
		return false, nil
	}

	if cell.Content == Mine {
		g.lose(x, y)
		return false, nil
	}

	if cell.Vis == Revealed && g.Board.HintedAdjacents(x, y).Count() == int(cell.Content) {
		for _, off := range compass {
			g.revealIfNotHinted(x+off.DX, y+off.DY)
		}
	}

	g.Board.Reveal(x, y)
	return g.checkWon(), nil
}

func (g *Game) revealIfNotHinted(x, y int) {
	if !g.Board.IsInBounds(x, y) {
		return
	}
	cell := g.Board.At(x, y)
	if cell.Vis == Revealed || cell.Vis == Hinted {
		return
	}
	if cell.Content == Mine {
		g.lose(x, y)
		return
	}
	g.Board.Reveal(x, y)
}

func (g *Game) lose(x, y int) {
	if g.Phase != PhasePlaying {
		return
	}
	g.Board.At(x, y).Vis = Revealed
	g.Phase = PhaseLost
}

func (g *Game) checkWon() bool {
	if g.Phase != PhasePlaying || !g.Board.IsSolved() {
		return false
	}
	g.Phase = PhaseWon
	g.Board.RevealAll()
	return true
}

// ToggleHint flips the hint marker on a concealed cell. Revealed cells
// are left alone.
func (g *Game) ToggleHint(x, y int) {
	if !g.Board.IsInBounds(x, y) {
		return
	}
	cell := g.Board.At(x, y)
	switch cell.Vis {
	case Hidden:
		cell.Vis = Hinted
	case Hinted:
		cell.Vis = Hidden
	}
}

// Forfeit gives up the game, revealing the whole board. Finished games
// are left alone.
func (g *Game) Forfeit() {
	if g.Phase.Over() {
		return
	}
	g.Phase = PhaseLost
	g.Board.RevealAll()
}

// RemainingMines returns the counter shown next to the board: the
// total mines minus the placed hints. It goes negative when the player
// hints too much.
func (g *Game) RemainingMines() int {
	return g.Board.OpenMineCount()
}

// Bytes encodes the game for storage.
func (g *Game) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, fmt.Errorf("encode game: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeGame restores a game encoded with Bytes.
func DecodeGame(data []byte) (*Game, error) {
	var g Game
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return &g, nil
}
