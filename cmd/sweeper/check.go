package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saecki/minesweeper/mines"
)

var checkFlags struct {
	start string
}

var checkCmd = &cobra.Command{
	Use:   "check <snapshot>",
	Short: "Certify that a saved board is solvable without guessing",
	Long: `check loads a board snapshot and replays it by deduction from the
starting cell. The exit code reports the verdict: 0 when the board is
solvable without guessing, 1 when finishing it requires a guess and 2
when the board state is contradictory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.start, "start", "", "solve from this x,y cell instead of the first revealed zero")
}

func checkStart(b *mines.Board) (int, int, error) {
	if checkFlags.start != "" {
		return parsePoint(checkFlags.start, b.Width, b.Height)
	}
	for y := range b.Height {
		for x := range b.Width {
			cell := b.At(x, y)
			if cell.Vis == mines.Revealed && cell.Content == 0 {
				return x, y, nil
			}
		}
	}
	return 0, 0, errors.New("board has no revealed zero cell, pass --start x,y")
}

func runCheck(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	game, err := mines.LoadSnapshot(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	x, y, err := checkStart(game.Board)
	if err != nil {
		return err
	}

	err = game.Board.Validate(cmd.Context(), x, y)
	switch {
	case errors.Is(err, mines.ErrAmbiguous):
		fmt.Printf("%s: solvable only by guessing\n", path)
		os.Exit(1)
	case errors.Is(err, mines.ErrInvalid):
		fmt.Printf("%s: board state is contradictory\n", path)
		os.Exit(2)
	case err != nil:
		return err
	}

	fmt.Printf("%s: solvable without guessing\n", path)
	return nil
}
