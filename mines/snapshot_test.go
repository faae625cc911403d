package mines

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	g := fixtureGame(fixtureBoard(5, 5, [][2]int{{2, 2}, {2, 3}}))
	ctx := context.Background()
	_, err := g.Reveal(ctx, 0, 0)
	require.NoError(t, err)
	g.ToggleHint(2, 2)

	data, err := g.Snapshot()
	require.NoError(t, err)
	assert.Contains(t, string(data), "width: 5")
	assert.Contains(t, string(data), "phase: playing")

	var s Snapshot
	require.NoError(t, yaml.Unmarshal(data, &s))
	assert.Equal(t, "02*20", s.Content[2])
	assert.Equal(t, "oohoo", s.Visibility[2])
	assert.Equal(t, "oo.oo", s.Visibility[4])

	restored, err := LoadSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, g.Phase, restored.Phase)
	assert.Equal(t, g.Params.Unambiguous, restored.Params.Unambiguous)
	assert.Equal(t, g.Board, restored.Board)

	cell := restored.Board.At(2, 2)
	assert.Equal(t, Hinted, cell.Vis)
	assert.Equal(t, Mine, cell.Content)

	// the restored game is playable and one cell away from winning
	won, err := restored.Reveal(ctx, 2, 4)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, PhaseWon, restored.Phase)
}

func TestSnapshotFreshGame(t *testing.T) {
	t.Parallel()

	g := NewGame(GameParams{Width: 4, Height: 3, MineCount: 2, Unambiguous: true}, nil)
	data, err := g.Snapshot()
	require.NoError(t, err)

	restored, err := LoadSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, PhaseInit, restored.Phase)
	assert.True(t, restored.Params.Unambiguous)
	assert.Equal(t, 2, restored.Board.MineCount)
	for i, c := range restored.Board.Cells {
		assert.Equal(t, Cell{}, c, "cell %d", i)
	}
}

func TestLoadSnapshotRejectsBadInput(t *testing.T) {
	t.Parallel()

	g := fixtureGame(fixtureBoard(5, 5, [][2]int{{2, 2}}))
	data, err := g.Snapshot()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{name: "unknown phase", mutate: func(s *Snapshot) { s.Phase = "paused" }},
		{name: "zero width", mutate: func(s *Snapshot) { s.Width = 0 }},
		{name: "negative height", mutate: func(s *Snapshot) { s.Height = -3 }},
		{name: "missing content row", mutate: func(s *Snapshot) { s.Content = s.Content[1:] }},
		{name: "missing visibility row", mutate: func(s *Snapshot) { s.Visibility = s.Visibility[:4] }},
		{name: "short row", mutate: func(s *Snapshot) { s.Content[2] = "012" }},
		{name: "bad content", mutate: func(s *Snapshot) { s.Content[0] = "0000X" }},
		{name: "nine adjacent mines", mutate: func(s *Snapshot) { s.Content[0] = "00009" }},
		{name: "bad visibility", mutate: func(s *Snapshot) { s.Visibility[0] = "....?" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var s Snapshot
			require.NoError(t, yaml.Unmarshal(data, &s))
			test.mutate(&s)
			bad, err := yaml.Marshal(&s)
			require.NoError(t, err)
			_, err = LoadSnapshot(bad)
			assert.Error(t, err)
		})
	}

	_, err = LoadSnapshot([]byte("]["))
	assert.Error(t, err)
}
