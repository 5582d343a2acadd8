package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jaminalder/reversi/internal/domain"
)

func glyph(s domain.Stone) string {
	switch s {
	case domain.DarkStone:
		return "●"
	case domain.LightStone:
		return "○"
	default:
		return " "
	}
}

// drawBoard writes the 8x8 grid with row and column numbers.
func drawBoard(w io.Writer, g *domain.Game) {
	var sb strings.Builder
	sb.WriteString("    1 2 3 4 5 6 7 8 (col)\n")
	sb.WriteString("   +-+-+-+-+-+-+-+-+\n")
	for r := 1; r <= domain.Size; r++ {
		fmt.Fprintf(&sb, " %d |", r)
		for c := 1; c <= domain.Size; c++ {
			sb.WriteString(glyph(g.Board[r][c]))
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("   +-+-+-+-+-+-+-+-+\n")
	fmt.Fprintf(&sb, "(row)  dark %d  light %d  moves %d\n",
		g.Board.Count(domain.DarkStone), g.Board.Count(domain.LightStone), g.HistoryLen())
	_, _ = io.WriteString(w, sb.String())
}
