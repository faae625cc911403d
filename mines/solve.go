package mines

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrInvalid reports a contradiction in the mine bookkeeping: the
	// current hint and reveal state admits no consistent mine placement.
	ErrInvalid = errors.New("board state is contradictory")

	// ErrAmbiguous reports that more than one consistent mine placement
	// exists, so the board cannot be finished without guessing.
	ErrAmbiguous = errors.New("board is not solvable without guessing")
)

// solveCell applies the two deduction rules to the cell at (x, y).
//
// A hidden cell is revealed first; revealing a mine this way returns
// ErrInvalid since deduction only ever visits cells it has proven
// safe. A zero cell recurses into all neighbors. For a numbered cell,
// when the count minus the hinted neighbors equals the hidden
// neighbors, all hidden neighbors are hinted; when the hinted
// neighbors then match the count, the remaining hidden neighbors are
// revealed recursively.
//
// Revealed cells are skipped unless force is set, which lets callers
// re-run the rules over an already revealed frontier.
func (b *Board) solveCell(x, y int, force bool) error {
	if !b.IsInBounds(x, y) {
		return nil
	}

	cell := b.At(x, y)
	switch cell.Vis {
	case Hidden:
		if cell.Content == Mine {
			return ErrInvalid
		}
		cell.Vis = Revealed
	case Hinted:
		return nil
	case Revealed:
		if !force {
			return nil
		}
	}

	switch n := cell.Content; {
	case n == Mine:
		return ErrInvalid

	case n == 0:
		for _, off := range compass {
			if err := b.solveCell(x+off.DX, y+off.DY, false); err != nil {
				return err
			}
		}

	default:
		hidden := b.HiddenAdjacents(x, y)
		hinted := b.HintedAdjacents(x, y)
		if int(n)-hinted.Count() == hidden.Count() {
			for _, off := range hidden.Offsets() {
				b.At(x+off.DX, y+off.DY).Vis = Hinted
			}
		}

		if b.HintedAdjacents(x, y).Count() == int(n) {
			for _, off := range b.HiddenAdjacents(x, y).Offsets() {
				if err := b.solveCell(x+off.DX, y+off.DY, false); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// Validate checks that the board can be solved by logical deduction
// alone, starting from the cell at (x, y). It operates on a clone; the
// receiver is never modified.
//
// Deduction runs from the start cell and then over the whole revealed
// frontier in row-major passes until a pass changes nothing. When
// deduction stalls on an unsolved board the hypothesis search takes
// over: a unique surviving placement is folded back in and deduction
// resumes, anything else fails with ErrInvalid or ErrAmbiguous.
//
// ctx is polled between rounds. Without a deadline the search is
// unbounded, which mirrors a generation loop that retries forever.
func (b *Board) Validate(ctx context.Context, x, y int) error {
	work := b.Clone()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := work.solveCell(x, y, true); err != nil {
			return err
		}
		if work.IsSolved() {
			return nil
		}

		snap := work.Clone()
		for {
			for sy := range work.Height {
				for sx := range work.Width {
					if work.At(sx, sy).Vis != Revealed {
						continue
					}
					if err := work.solveCell(sx, sy, true); err != nil {
						return err
					}
					if work.IsSolved() {
						return nil
					}
				}
			}

			if slices.Equal(work.Cells, snap.Cells) {
				break
			}
			copy(snap.Cells, work.Cells)
		}

		outcome, next, err := work.guessMines(0, work.Width, 0, work.Height, 0)
		switch {
		case err != nil:
			return err
		case outcome == guessDone:
			return nil
		case outcome == guessProgress:
			work = next
		case outcome == guessNoCandidates:
			return ErrAmbiguous
		}
	}
}

// Unambiguous reports whether the board has exactly one logical
// solution when played from the cell at (x, y).
func (b *Board) Unambiguous(ctx context.Context, x, y int) bool {
	return b.Validate(ctx, x, y) == nil
}
