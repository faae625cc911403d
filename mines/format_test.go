package mines

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBoard(t *testing.T) {
	t.Parallel()

	b := fixtureBoard(3, 2, [][2]int{{0, 0}})
	b.Reveal(1, 0)

	out := FormatBoard(b, 1, 0, 1)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "       0 1 2", lines[0])
	assert.Equal(t, "     0"+
		styleHidden+" *"+styleReset+
		styleHighlight+" 1"+styleReset+
		styleHidden+"  "+styleReset,
		lines[1])
	assert.Equal(t, "     1"+
		styleHidden+" 1"+styleReset+
		styleHidden+" 1"+styleReset+
		styleHidden+"  "+styleReset,
		lines[2])
}

func TestFormatBoardStyles(t *testing.T) {
	t.Parallel()

	b := fixtureBoard(3, 2, [][2]int{{0, 0}})
	b.Reveal(2, 0)
	b.At(0, 1).Vis = Hinted

	out := FormatBoard(b, -1, -1, 0)
	assert.True(t, strings.HasPrefix(out, "   0 1 2\n"))
	assert.NotContains(t, out, styleHighlight)
	assert.Equal(t, 1, strings.Count(out, styleHidden))
	assert.Equal(t, 1, strings.Count(out, styleHinted))
	assert.Equal(t, 4, strings.Count(out, styleRevealed))
	assert.Equal(t, 6, strings.Count(out, styleReset))
}
