package handlers

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/saecki/minesweeper/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"o": 2,
	"h": 2,
	"f": 0,
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

// executeCommand applies a single move to the game. Commands are a
// letter followed by space separated arguments: "o x y" opens a cell,
// "h x y" toggles a hint and "f" forfeits.
func executeCommand(ctx context.Context, g *mines.Game, c string) error {
	parts := strings.Split(c, " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	switch parts[0] {
	case "o":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		if !g.Board.IsInBounds(x, y) {
			return errors.New("invalid cell coordinates")
		}
		_, err = g.Reveal(ctx, x, y)
		return err
	case "h":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		if !g.Board.IsInBounds(x, y) {
			return errors.New("invalid cell coordinates")
		}
		g.ToggleHint(x, y)
		return nil
	case "f":
		g.Forfeit()
		return nil
	}
	return errors.New("invalid command")
}

// executeScript runs a newline separated batch of commands, stopping
// early once the game is over.
func executeScript(ctx context.Context, g *mines.Game, script string) error {
	for _, line := range byPiece(strings.TrimSpace(script), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := executeCommand(ctx, g, line); err != nil {
			return err
		}
		if g.Phase.Over() {
			break
		}
	}
	return nil
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
