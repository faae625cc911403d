package mines

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

// Snapshot is the YAML representation of a game, meant for saving a
// board to disk and resuming it later. Content rows use the digits 0-8
// for free cells and * for mines; visibility rows use . for hidden, h
// for hinted and o for revealed cells.
type Snapshot struct {
	Width       int      `yaml:"width"`
	Height      int      `yaml:"height"`
	MineCount   int      `yaml:"mine_count"`
	Phase       string   `yaml:"phase"`
	Unambiguous bool     `yaml:"unambiguous"`
	Content     []string `yaml:"content"`
	Visibility  []string `yaml:"visibility"`
}

// Snapshot encodes the game as a YAML document.
func (g *Game) Snapshot() ([]byte, error) {
	s := Snapshot{
		Width:       g.Board.Width,
		Height:      g.Board.Height,
		MineCount:   g.Board.MineCount,
		Phase:       g.Phase.String(),
		Unambiguous: g.Params.Unambiguous,
	}

	for y := range g.Board.Height {
		var content, vis strings.Builder
		for x := range g.Board.Width {
			cell := g.Board.At(x, y)

			if cell.Content == Mine {
				content.WriteByte('*')
			} else {
				content.WriteByte('0' + byte(cell.Content))
			}

			switch cell.Vis {
			case Hidden:
				vis.WriteByte('.')
			case Hinted:
				vis.WriteByte('h')
			case Revealed:
				vis.WriteByte('o')
			}
		}
		s.Content = append(s.Content, content.String())
		s.Visibility = append(s.Visibility, vis.String())
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// LoadSnapshot restores a playable game from a YAML document produced
// by Snapshot.
func LoadSnapshot(data []byte) (*Game, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("snapshot has invalid dimensions %dx%d", s.Width, s.Height)
	}
	phase, err := ParsePhase(s.Phase)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if len(s.Content) != s.Height || len(s.Visibility) != s.Height {
		return nil, fmt.Errorf("snapshot must have %d content and visibility rows", s.Height)
	}

	board := NewBoard(s.Width, s.Height, s.MineCount)
	for y := range s.Height {
		content, vis := s.Content[y], s.Visibility[y]
		if len(content) != s.Width || len(vis) != s.Width {
			return nil, fmt.Errorf("snapshot row %d must have %d cells", y, s.Width)
		}

		for x := range s.Width {
			cell := board.At(x, y)

			switch c := content[x]; {
			case c == '*':
				cell.Content = Mine
			case c >= '0' && c <= '8':
				cell.Content = Content(c - '0')
			default:
				return nil, fmt.Errorf("snapshot row %d: invalid content %q", y, c)
			}

			switch vis[x] {
			case '.':
				cell.Vis = Hidden
			case 'h':
				cell.Vis = Hinted
			case 'o':
				cell.Vis = Revealed
			default:
				return nil, fmt.Errorf("snapshot row %d: invalid visibility %q", y, vis[x])
			}
		}
	}

	return &Game{
		Params: GameParams{
			Width:       s.Width,
			Height:      s.Height,
			MineCount:   s.MineCount,
			Unambiguous: s.Unambiguous,
		},
		Phase: phase,
		Board: board,
	}, nil
}
