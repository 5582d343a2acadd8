package domain

import "fmt"

// Outcome is the final standing of a game.
type Outcome uint8

const (
	DarkWins Outcome = iota
	LightWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case DarkWins:
		return "Dark wins"
	case LightWins:
		return "Light wins"
	default:
		return "Draw"
	}
}

// Result compares stone counts. Equal counts are a Draw.
func (g *Game) Result() Outcome {
	dark, light := g.Board.Count(DarkStone), g.Board.Count(LightStone)
	switch {
	case dark > light:
		return DarkWins
	case dark < light:
		return LightWins
	default:
		return Draw
	}
}

// Summary renders the outcome with the final score.
func (g *Game) Summary() string {
	return fmt.Sprintf("%s (dark %d - light %d)", g.Result(), g.Board.Count(DarkStone), g.Board.Count(LightStone))
}
