package domain

import (
	"errors"
	"fmt"
)

// Errors returned by domain operations.
var (
	ErrOutOfRange      = errors.New("out of range")
	ErrInvalidPosition = fmt.Errorf("invalid position: %w", ErrOutOfRange)
	ErrOccupied        = errors.New("cell occupied")
	ErrNoCapture       = errors.New("no stones to capture")
	ErrNoHistory       = errors.New("no history")
	ErrNoRedo          = fmt.Errorf("redo stack empty: %w", ErrNoHistory)
	ErrInvalidStone    = errors.New("stone must be dark or light")
)

// Move records one placement and the stones it captured.
type Move struct {
	Side    Side
	Pos     Position
	Flipped []Position
}

// Game holds the state of one Reversi match.
type Game struct {
	Board Board
	Turn  Side
	Over  bool

	undo []Move // most recent last
	redo []Move // most recent last
}

// New returns a new game with Dark to move.
func New() *Game {
	return &Game{Board: NewBoard(), Turn: Dark}
}

// Play places the current side's stone at (row, col). Nothing is mutated
// unless the move is legal.
func (g *Game) Play(row, col int) error {
	if !g.Board.InPlayableRange(row, col) {
		return fmt.Errorf("play (%d,%d): %w", row, col, ErrOutOfRange)
	}
	if g.Board[row][col] != Empty {
		return fmt.Errorf("play (%d,%d): %w", row, col, ErrOccupied)
	}
	stone := g.Turn.Stone()
	flipped, err := g.Board.FindCapturable(row, col, stone)
	if err != nil {
		return err
	}
	if len(flipped) == 0 {
		return fmt.Errorf("play (%d,%d): %w", row, col, ErrNoCapture)
	}

	g.Board[row][col] = stone
	g.Board.Flip(flipped)
	g.undo = append(g.undo, Move{Side: g.Turn, Pos: Position{row, col}, Flipped: flipped})
	g.redo = nil
	g.settle(g.Turn)
	return nil
}

// settle ends the game on a full board, otherwise hands the turn to mover's opponent.
func (g *Game) settle(mover Side) {
	if g.Board.HasEmptyCell() {
		g.Turn = mover.Opponent()
		return
	}
	g.Over = true
	g.Turn = mover
}

// Pass hands the turn to the other side without checking legality.
func (g *Game) Pass() { g.Turn = g.Turn.Opponent() }

// Undo takes back the most recent move and gives the turn back to its mover.
func (g *Game) Undo() error {
	if len(g.undo) == 0 {
		return ErrNoHistory
	}
	mv := g.undo[len(g.undo)-1]
	g.undo = g.undo[:len(g.undo)-1]

	g.Board.Flip(mv.Flipped)
	if err := g.Board.Set(mv.Pos.Row, mv.Pos.Col, Empty); err != nil {
		return err
	}
	g.Turn = mv.Side
	g.Over = false
	g.redo = append(g.redo, mv)
	return nil
}

// Redo replays the most recently undone move.
func (g *Game) Redo() error {
	if len(g.redo) == 0 {
		return ErrNoRedo
	}
	mv := g.redo[len(g.redo)-1]
	g.redo = g.redo[:len(g.redo)-1]

	g.Board.Flip(mv.Flipped)
	if err := g.Board.Set(mv.Pos.Row, mv.Pos.Col, mv.Side.Stone()); err != nil {
		return err
	}
	g.settle(mv.Side)
	g.undo = append(g.undo, mv)
	return nil
}

// IsOver reports whether the board is full.
func (g *Game) IsOver() bool { return g.Over }

// HistoryLen returns the number of moves that can be undone.
func (g *Game) HistoryLen() int { return len(g.undo) }

// RedoLen returns the number of moves that can be redone.
func (g *Game) RedoLen() int { return len(g.redo) }

// LegalMoves lists every position where side could play right now.
func (g *Game) LegalMoves(side Side) []Position {
	var out []Position
	for r := 1; r <= Size; r++ {
		for c := 1; c <= Size; c++ {
			if g.Board[r][c] != Empty {
				continue
			}
			if ps, _ := g.Board.FindCapturable(r, c, side.Stone()); len(ps) > 0 {
				out = append(out, Position{r, c})
			}
		}
	}
	return out
}

// CanMove reports whether side has at least one legal placement.
func (g *Game) CanMove(side Side) bool { return len(g.LegalMoves(side)) > 0 }

// Moves returns copies of the undo and redo stacks in chronological order.
func (g *Game) Moves() (undo, redo []Move) {
	return copyMoves(g.undo), copyMoves(g.redo)
}

// Clone returns a deep copy of g.
func (g *Game) Clone() *Game {
	cp := *g
	cp.undo = copyMoves(g.undo)
	cp.redo = copyMoves(g.redo)
	return &cp
}

func copyMoves(ms []Move) []Move {
	if ms == nil {
		return nil
	}
	out := make([]Move, len(ms))
	for i, m := range ms {
		out[i] = Move{Side: m.Side, Pos: m.Pos, Flipped: append([]Position(nil), m.Flipped...)}
	}
	return out
}

// Restore rebuilds a game by replaying undo then redo through Play and
// undoing len(redo) moves afterwards. Captured stones in the input are
// ignored and recomputed.
func Restore(undo, redo []Move) (*Game, error) {
	g := New()
	replay := func(i int, mv Move) error {
		g.Turn = mv.Side
		if err := g.Play(mv.Pos.Row, mv.Pos.Col); err != nil {
			return fmt.Errorf("replay move %d %v %v: %w", i+1, mv.Side, mv.Pos, err)
		}
		return nil
	}
	for i, mv := range undo {
		if err := replay(i, mv); err != nil {
			return nil, err
		}
	}
	for i, mv := range redo {
		if err := replay(len(undo)+i, mv); err != nil {
			return nil, err
		}
	}
	for range redo {
		if err := g.Undo(); err != nil {
			return nil, err
		}
	}
	return g, nil
}
