package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Generate and certify minesweeper boards",
	Long: `sweeper generates minesweeper boards and certifies that they can be
solved by deduction alone.

Generate a board and print it
	sweeper gen -w 16 -h 16 -m 40

Generate a board that never requires guessing and save it
	sweeper gen -u --difficulty medium -o board.yaml

Certify a saved board
	sweeper check board.yaml
`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func parsePoint(s string, width, height int) (int, int, error) {
	xs, ys, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, fmt.Errorf("invalid cell %q, expected x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell %q, expected x,y", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell %q, expected x,y", s)
	}
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, fmt.Errorf("cell %d,%d is outside the %dx%d board", x, y, width, height)
	}
	return x, y, nil
}
