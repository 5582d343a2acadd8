package domain

import "fmt"

const (
	// Size is the width of the playable area.
	Size = 8
	// Cells is the number of playable cells.
	Cells = Size * Size
)

// Position addresses a cell. Playable cells use 1..8, the border uses 0 and 9.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Scan order: E, SE, S, SW, W, NW, N, NE.
var directions = [8]Position{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

// Board is the 8x8 playing area surrounded by a ring of Outside cells,
// so directional scans stop at the border without explicit range checks.
type Board [Size + 2][Size + 2]Stone

// NewBoard returns the standard opening layout.
func NewBoard() Board {
	var b Board
	for r := 1; r <= Size; r++ {
		for c := 1; c <= Size; c++ {
			b[r][c] = Empty
		}
	}
	b[4][4], b[5][5] = LightStone, LightStone
	b[4][5], b[5][4] = DarkStone, DarkStone
	return b
}

// InPlayableRange reports whether (row, col) is inside the 8x8 area.
func (b *Board) InPlayableRange(row, col int) bool {
	return row >= 1 && row <= Size && col >= 1 && col <= Size
}

// InScanRange reports whether (row, col) is inside the grid including the border.
func (b *Board) InScanRange(row, col int) bool {
	return row >= 0 && row <= Size+1 && col >= 0 && col <= Size+1
}

// Get returns the stone at (row, col).
func (b *Board) Get(row, col int) (Stone, error) {
	if !b.InScanRange(row, col) {
		return Outside, fmt.Errorf("get (%d,%d): %w", row, col, ErrOutOfRange)
	}
	return b[row][col], nil
}

// Set writes a stone into a playable cell. The border is never writable.
func (b *Board) Set(row, col int, s Stone) error {
	if !b.InPlayableRange(row, col) {
		return fmt.Errorf("set (%d,%d): %w", row, col, ErrInvalidPosition)
	}
	b[row][col] = s
	return nil
}

// HasEmptyCell reports whether any playable cell is still Empty.
func (b *Board) HasEmptyCell() bool {
	for r := 1; r <= Size; r++ {
		for c := 1; c <= Size; c++ {
			if b[r][c] == Empty {
				return true
			}
		}
	}
	return false
}

// Count returns the number of playable cells holding s.
func (b *Board) Count(s Stone) int {
	n := 0
	for r := 1; r <= Size; r++ {
		for c := 1; c <= Size; c++ {
			if b[r][c] == s {
				n++
			}
		}
	}
	return n
}

// Complement returns 64 minus the opponent's stone count, which equals the
// side's own count once the board is full.
func (b *Board) Complement(side Side) int {
	return Cells - b.Count(side.Opponent().Stone())
}

// Flip reverses the color of every listed cell.
func (b *Board) Flip(ps []Position) {
	for _, p := range ps {
		b[p.Row][p.Col] = b[p.Row][p.Col].Opposite()
	}
}

// FindCapturable returns the opposing stones that placing s at (row, col)
// would capture. An empty result means the placement is illegal.
func (b *Board) FindCapturable(row, col int, s Stone) ([]Position, error) {
	if !s.IsColor() {
		return nil, fmt.Errorf("find capturable with %v: %w", s, ErrInvalidStone)
	}
	if !b.InPlayableRange(row, col) {
		return nil, fmt.Errorf("find capturable at (%d,%d): %w", row, col, ErrOutOfRange)
	}
	opp := s.Opposite()
	var out []Position
	for _, d := range directions {
		r, c := row+d.Row, col+d.Col
		start := len(out)
		for b[r][c] == opp {
			out = append(out, Position{r, c})
			r += d.Row
			c += d.Col
		}
		if b[r][c] != s {
			out = out[:start]
		}
	}
	return out, nil
}
