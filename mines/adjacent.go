package mines

import "math/bits"

// Adjacents is a bitset over the eight compass neighbors of a cell,
// clockwise from the north-west corner.
type Adjacents uint8

const (
	NorthWest Adjacents = 1 << iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
)

// Offset is a cell position relative to another cell.
type Offset struct {
	DX, DY int
}

// compass lists the neighbor offsets in bit order. The search maps a
// combination index back to the i-th set bit's offset, so this order
// must never change.
var compass = [8]Offset{
	{-1, -1}, // north-west
	{0, -1},  // north
	{1, -1},  // north-east
	{1, 0},   // east
	{1, 1},   // south-east
	{0, 1},   // south
	{-1, 1},  // south-west
	{-1, 0},  // west
}

// Count returns the number of set directions.
func (a Adjacents) Count() int {
	return bits.OnesCount8(uint8(a))
}

// Offsets returns the offsets of all set directions in bit order.
func (a Adjacents) Offsets() []Offset {
	offsets := make([]Offset, 0, a.Count())
	for i, off := range compass {
		if a&(1<<i) != 0 {
			offsets = append(offsets, off)
		}
	}
	return offsets
}

func (b *Board) adjacents(x, y int, vis Visibility) Adjacents {
	var adj Adjacents
	for i, off := range compass {
		nx, ny := x+off.DX, y+off.DY
		if b.IsInBounds(nx, ny) && b.Cells[ny*b.Width+nx].Vis == vis {
			adj |= 1 << i
		}
	}
	return adj
}

// HiddenAdjacents returns the directions of the hidden neighbors of
// (x, y). Out of bounds directions are unset.
func (b *Board) HiddenAdjacents(x, y int) Adjacents {
	return b.adjacents(x, y, Hidden)
}

// HintedAdjacents returns the directions of the hinted neighbors of
// (x, y). Out of bounds directions are unset.
func (b *Board) HintedAdjacents(x, y int) Adjacents {
	return b.adjacents(x, y, Hinted)
}
