package mines

import (
	"cmp"
	"errors"
	"slices"

	"github.com/sirupsen/logrus"
)

type guessOutcome uint8

const (
	// guessDone means a hypothesis led to a fully solved board.
	guessDone guessOutcome = iota
	// guessProgress carries the unique surviving board so the caller
	// can fold it back into deduction.
	guessProgress
	// guessNoCandidates means no cell in the region is underdetermined,
	// leaving the search without a handle to make progress.
	guessNoCandidates
)

// candidate is a revealed numbered cell with some, but not all, of its
// hidden neighbors known to be mines. hidden is captured at scan time
// so that combination index i keeps mapping to the same neighbor.
type candidate struct {
	x, y    int
	missing int
	hidden  Adjacents
}

// guessMines decides whether the stalled board region has a unique
// consistent continuation. For every underdetermined cell, ordered by
// the size of its hypothesis space, it enumerates all placements of
// the missing mines onto hidden neighbors. Each placement is checked
// for local contradictions and then pinned down recursively over a
// wider window. Exactly one surviving placement resolves the region;
// none or several reject the board with ErrInvalid or ErrAmbiguous.
func (b *Board) guessMines(xs, xe, ys, ye, depth int) (guessOutcome, *Board, error) {
	var candidates []candidate
	for y := ys; y < ye; y++ {
		for x := xs; x < xe; x++ {
			cell := b.At(x, y)
			if cell.Vis != Revealed || cell.Content == Mine {
				continue
			}

			hidden := b.HiddenAdjacents(x, y)
			hinted := b.HintedAdjacents(x, y)
			missing := int(cell.Content) - hinted.Count()
			if missing > 0 && missing < hidden.Count() {
				candidates = append(candidates, candidate{x, y, missing, hidden})
			}
		}
	}
	if len(candidates) == 0 {
		Log.WithField("depth", depth).Debug("no candidate cells")
		return guessNoCandidates, nil, nil
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.hidden.Count()-a.missing, b.hidden.Count()-b.missing),
			cmp.Compare(a.missing, b.missing),
		)
	})

	numAmbiguous := 0
guessing:
	for _, c := range candidates {
		if b.OpenMineCount() < c.missing {
			// Some hints must have been placed incorrectly.
			Log.WithFields(logrus.Fields{
				"depth": depth, "x": c.x, "y": c.y,
			}).Debug("cell is missing more mines than remain")
			return 0, nil, ErrInvalid
		}

		numHidden := c.hidden.Count()
		offsets := c.hidden.Offsets()

		var valid *Board
	hypotheses:
		for comb := range combinations(numHidden, c.missing) {
			hyp := b.Clone()
			for i, off := range offsets {
				if comb[i] {
					hyp.At(c.x+off.DX, c.y+off.DY).Vis = Hinted
				}
			}

			// Check whether these guesses already contradict a nearby
			// cell before descending.
			if hyp.overHinted(max(c.x-2, 0), min(c.x+3, b.Width), max(c.y-2, 0), min(c.y+3, b.Height)) {
				Log.WithField("depth", depth).Debug("hypothesis contradicts a neighbor")
				continue hypotheses
			}

			if hyp.OpenMineCount() == 0 {
				// All mines are accounted for, so no cell may be
				// missing any.
				if hyp.underHinted() {
					Log.WithField("depth", depth).Debug("hypothesis leaves unresolved cells without mines")
					continue hypotheses
				}
			} else {
				outcome, next, err := hyp.guessMines(max(c.x-3, 0), min(c.x+4, b.Width), max(c.y-3, 0), min(c.y+4, b.Height), depth+1)
				if err != nil {
					if errors.Is(err, ErrInvalid) {
						continue hypotheses
					}
					// Deeper forks are ambiguous, but if every other
					// hypothesis turns out invalid everything up to
					// here still has to be right.
				} else {
					switch outcome {
					case guessDone:
						return guessDone, nil, nil
					case guessProgress:
						hyp = next
					}
				}
			}

			if valid == nil {
				valid = hyp
			} else {
				Log.WithFields(logrus.Fields{
					"depth": depth, "x": c.x, "y": c.y,
				}).Debug("multiple placements survive")
				numAmbiguous++
				continue guessing
			}
		}

		if valid != nil {
			if valid.IsSolved() {
				Log.WithField("depth", depth).Debug("solved")
				return guessDone, nil, nil
			}

			// Lock in the progress so deduction can have another go.
			if depth == 1 && Log.IsLevelEnabled(logrus.DebugLevel) {
				Log.Debug("progress\n" + FormatBoard(valid, -1, -1, depth))
			}
			return guessProgress, valid, nil
		}
	}

	if numAmbiguous > 0 {
		Log.WithFields(logrus.Fields{
			"depth": depth, "ambiguous": numAmbiguous,
		}).Debug("no unique placement")
		return 0, nil, ErrAmbiguous
	}
	Log.WithField("depth", depth).Debug("all placements contradictory")
	return 0, nil, ErrInvalid
}

// overHinted reports whether any revealed numbered cell in the region
// has more hinted neighbors than its count allows.
func (b *Board) overHinted(xs, xe, ys, ye int) bool {
	for y := ys; y < ye; y++ {
		for x := xs; x < xe; x++ {
			cell := b.At(x, y)
			if cell.Vis != Revealed || cell.Content == Mine {
				continue
			}
			if b.HintedAdjacents(x, y).Count() > int(cell.Content) {
				return true
			}
		}
	}
	return false
}

// underHinted reports whether any revealed numbered cell still has
// fewer hinted neighbors than its count.
func (b *Board) underHinted() bool {
	for y := range b.Height {
		for x := range b.Width {
			cell := b.At(x, y)
			if cell.Vis != Revealed || cell.Content == Mine {
				continue
			}
			if b.HintedAdjacents(x, y).Count() < int(cell.Content) {
				return true
			}
		}
	}
	return false
}
