package mines

import (
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

// Log is the package logger. Solver and search tracing is emitted at
// debug level and is quiet by default.
var Log = logrus.New()

// Visibility is the player facing state of a cell. A hinted cell is
// provisionally marked as a mine and must not be revealed by a plain
// click.
type Visibility uint8

const (
	Hidden Visibility = iota
	Hinted
	Revealed
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Hinted:
		return "hinted"
	case Revealed:
		return "revealed"
	}
	return "unknown"
}

// Content is the concealed value of a cell: Mine, or the number of
// adjacent mines of a free cell (0 to 8). The count is fixed when
// mines are placed and never changes afterwards.
type Content int8

const Mine Content = -1

func (c Content) String() string {
	if c == Mine {
		return "mine"
	}
	return "free(" + strconv.Itoa(int(c)) + ")"
}

// Cell pairs a cell's visibility with its content.
type Cell struct {
	Vis     Visibility
	Content Content
}

// Board is a minesweeper grid. Cells is row-major, the cell at (x, y)
// lives at index y*Width + x. MineCount is the target mine count; once
// PlaceMines has run, exactly that many cells contain a mine.
type Board struct {
	Width     int
	Height    int
	MineCount int
	Cells     []Cell
}

// NewBoard returns an all hidden board without any mines placed.
func NewBoard(width, height, mineCount int) *Board {
	return &Board{
		Width:     width,
		Height:    height,
		MineCount: mineCount,
		Cells:     make([]Cell, width*height),
	}
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	clone := *b
	clone.Cells = slices.Clone(b.Cells)
	return &clone
}

func (b *Board) IsInBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At returns the cell at (x, y), which must be in bounds.
func (b *Board) At(x, y int) *Cell {
	return &b.Cells[y*b.Width+x]
}

// Clear resets every cell's content to a zero free cell. Visibility is
// left as is, so hints placed before the first reveal survive a
// regeneration.
func (b *Board) Clear() {
	for i := range b.Cells {
		b.Cells[i].Content = 0
	}
}

// PlaceMines draws MineCount distinct cells uniformly among the cells
// that are not already mines, and increments the neighbor count of the
// free cells around each. It does not reset previous state; call Clear
// first when reusing a board.
func (b *Board) PlaceMines(rnd *rand.Rand) {
	candidates := make([]int, 0, len(b.Cells))
	for i, c := range b.Cells {
		if c.Content != Mine {
			candidates = append(candidates, i)
		}
	}

	n := len(candidates)
	for range b.MineCount {
		i := rnd.IntN(n)
		idx := candidates[i]
		n--
		candidates[i] = candidates[n]

		b.Cells[idx].Content = Mine
		x, y := idx%b.Width, idx/b.Width
		for _, off := range compass {
			nx, ny := x+off.DX, y+off.DY
			if !b.IsInBounds(nx, ny) {
				continue
			}
			if c := b.At(nx, ny); c.Content != Mine {
				c.Content++
			}
		}
	}
}

// Reveal uncovers the cell at (x, y). A zero cell floods outward until
// the frontier consists of numbered cells; hinted cells inside the
// flooded region are uncovered along with it. Out of bounds or already
// revealed cells are a no-op.
func (b *Board) Reveal(x, y int) {
	if !b.IsInBounds(x, y) {
		return
	}

	var queue deque.Deque[int]
	queue.PushBack(y*b.Width + x)
	for queue.Len() > 0 {
		i := queue.PopFront()
		cell := &b.Cells[i]
		if cell.Vis == Revealed {
			continue
		}
		cell.Vis = Revealed
		if cell.Content != 0 {
			continue
		}

		cx, cy := i%b.Width, i/b.Width
		for _, off := range compass {
			nx, ny := cx+off.DX, cy+off.DY
			if b.IsInBounds(nx, ny) && b.At(nx, ny).Vis != Revealed {
				queue.PushBack(ny*b.Width + nx)
			}
		}
	}
}

// RevealAll uncovers every cell, mines included.
func (b *Board) RevealAll() {
	for i := range b.Cells {
		b.Cells[i].Vis = Revealed
	}
}

// OpenMineCount returns the number of mines not yet accounted for by
// hints. It goes negative when more hints are placed than there are
// mines.
func (b *Board) OpenMineCount() int {
	hints := 0
	for _, c := range b.Cells {
		if c.Vis == Hinted {
			hints++
		}
	}
	return b.MineCount - hints
}

// IsSolved reports whether every free cell is revealed. Mines do not
// have to be.
func (b *Board) IsSolved() bool {
	for _, c := range b.Cells {
		if c.Content != Mine && c.Vis != Revealed {
			return false
		}
	}
	return true
}
