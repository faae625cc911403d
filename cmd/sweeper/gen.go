package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saecki/minesweeper/mines"
)

var genFlags struct {
	width       int
	height      int
	mineCount   int
	density     float64
	difficulty  string
	start       string
	unambiguous bool
	count       int
	seed        uint64
	output      string
	timeout     time.Duration
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate boards",
	Long: `gen generates boards and prints them with the starting cell
highlighted. The starting cell always opens a zero region; with
--unambiguous, generation retries until the board is certified solvable
from it by deduction alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGen(cmd)
	},
}

func init() {
	rootCmd.AddCommand(genCmd)

	// Define our --help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	genCmd.Flags().Bool("help", false, "Help for this command")

	genCmd.Flags().IntVarP(&genFlags.width, "width", "w", 9, "board width in cells")
	genCmd.Flags().IntVarP(&genFlags.height, "height", "h", 9, "board height in cells")
	genCmd.Flags().IntVarP(&genFlags.mineCount, "mines", "m", 0, "number of mines to place")
	genCmd.Flags().Float64Var(&genFlags.density, "density", 0.15, "mine density used when --mines is not given")
	genCmd.Flags().StringVarP(&genFlags.difficulty, "difficulty", "d", "", "preset board size (easy, medium, hard)")
	genCmd.Flags().StringVar(&genFlags.start, "start", "", "first cell to open as x,y (default the board center)")
	genCmd.Flags().BoolVarP(&genFlags.unambiguous, "unambiguous", "u", false, "only emit boards solvable without guessing")
	genCmd.Flags().IntVarP(&genFlags.count, "count", "n", 1, "number of boards to generate")
	genCmd.Flags().Uint64Var(&genFlags.seed, "seed", 0, "seed for deterministic generation")
	genCmd.Flags().StringVarP(&genFlags.output, "output", "o", "", "write board snapshots to this file")
	genCmd.Flags().DurationVar(&genFlags.timeout, "timeout", 0, "abort generation after this long")
}

func genParams() (mines.GameParams, error) {
	if genFlags.difficulty != "" {
		difficulty, err := mines.ParseDifficulty(genFlags.difficulty)
		if err != nil {
			return mines.GameParams{}, err
		}
		return difficulty.Params(genFlags.unambiguous), nil
	}
	params := mines.GameParams{
		Width:       genFlags.width,
		Height:      genFlags.height,
		MineCount:   genFlags.mineCount,
		Density:     mines.Density{Min: genFlags.density, Max: genFlags.density + 0.01},
		Unambiguous: genFlags.unambiguous,
	}
	return params, params.Validate()
}

func runGen(cmd *cobra.Command) error {
	params, err := genParams()
	if err != nil {
		return err
	}

	x, y := params.Width/2, params.Height/2
	if genFlags.start != "" {
		if x, y, err = parsePoint(genFlags.start, params.Width, params.Height); err != nil {
			return err
		}
	}

	var rnd *rand.Rand
	if genFlags.seed != 0 {
		rnd = rand.New(rand.NewPCG(genFlags.seed, genFlags.seed))
	}

	ctx := cmd.Context()
	if genFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, genFlags.timeout)
		defer cancel()
	}

	for i := range genFlags.count {
		game := mines.NewGame(params, rnd)
		if _, err := game.Reveal(ctx, x, y); err != nil {
			return fmt.Errorf("generation aborted: %w", err)
		}

		if i > 0 {
			fmt.Println()
		}
		fmt.Print(mines.FormatBoard(game.Board, x, y, 0))

		if genFlags.output != "" {
			data, err := game.Snapshot()
			if err != nil {
				return err
			}
			path := genFlags.output
			if genFlags.count > 1 {
				path = numberedPath(path, i+1)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("unable to write snapshot: %w", err)
			}
		}
	}
	return nil
}

func numberedPath(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), n, ext)
}
