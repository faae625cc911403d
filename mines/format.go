package mines

import (
	"fmt"
	"strings"
)

// Bold inverted ANSI styles, one per visibility plus one for the
// highlighted cell.
const (
	styleHighlight = "\x1b[1;7;34m"
	styleHidden    = "\x1b[1;7;90m"
	styleHinted    = "\x1b[1;7;33m"
	styleRevealed  = "\x1b[1;7;92m"
	styleReset     = "\x1b[0m"
)

// FormatBoard renders the complete board state, mines included, with
// ANSI colors for terminal diagnostics. The cell at (hx, hy) is
// highlighted; pass negative coordinates to highlight nothing. indent
// shifts the block right by four spaces per level, which keeps nested
// search traces readable.
func FormatBoard(b *Board, hx, hy, indent int) string {
	var sb strings.Builder
	pad := strings.Repeat(" ", indent*4)

	sb.WriteString(pad)
	sb.WriteString("  ")
	for x := range b.Width {
		fmt.Fprintf(&sb, "%2d", x)
	}
	sb.WriteByte('\n')

	for y := range b.Height {
		sb.WriteString(pad)
		fmt.Fprintf(&sb, "%2d", y)
		for x := range b.Width {
			cell := b.At(x, y)
			switch {
			case x == hx && y == hy:
				sb.WriteString(styleHighlight)
			case cell.Vis == Hidden:
				sb.WriteString(styleHidden)
			case cell.Vis == Hinted:
				sb.WriteString(styleHinted)
			default:
				sb.WriteString(styleRevealed)
			}
			switch {
			case cell.Content == Mine:
				sb.WriteString(" *")
			case cell.Content == 0:
				sb.WriteString("  ")
			default:
				fmt.Fprintf(&sb, " %d", cell.Content)
			}
			sb.WriteString(styleReset)
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
