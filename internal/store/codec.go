package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/jaminalder/reversi/internal/domain"
)

// ErrCorrupt is returned when persisted history cannot be parsed or replayed.
var ErrCorrupt = errors.New("persisted data corrupt")

var moveLineRe = regexp.MustCompile(`^(BLACK|WHITE) ([1-8]) ([1-8])$`)

func sideToken(s domain.Side) string {
	if s == domain.Dark {
		return "BLACK"
	}
	return "WHITE"
}

// Encode writes the undo count followed by one "<SIDE> <row> <col>" line per
// move, undo moves first.
func Encode(w io.Writer, undo, redo []domain.Move) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", len(undo)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, list := range [][]domain.Move{undo, redo} {
		for _, mv := range list {
			if _, err := fmt.Fprintf(bw, "%s %d %d\n", sideToken(mv.Side), mv.Pos.Row, mv.Pos.Col); err != nil {
				return fmt.Errorf("write move: %w", err)
			}
		}
	}
	return bw.Flush()
}

// Decode parses a stream written by Encode. Captured stones are not stored,
// so the returned moves carry no Flipped positions.
func Decode(r io.Reader) (undo, redo []domain.Move, err error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, nil, fmt.Errorf("read header: %w", err)
		}
		return nil, nil, fmt.Errorf("line 1: missing move count: %w", ErrCorrupt)
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || count < 0 {
		return nil, nil, fmt.Errorf("line 1: bad move count %q: %w", sc.Text(), ErrCorrupt)
	}

	var moves []domain.Move
	for line := 2; sc.Scan(); line++ {
		m := moveLineRe.FindStringSubmatch(sc.Text())
		if m == nil {
			return nil, nil, fmt.Errorf("line %d: %q: %w", line, sc.Text(), ErrCorrupt)
		}
		side := domain.Dark
		if m[1] == "WHITE" {
			side = domain.Light
		}
		row, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		moves = append(moves, domain.Move{Side: side, Pos: domain.Position{Row: row, Col: col}})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read moves: %w", err)
	}
	if count > len(moves) {
		return nil, nil, fmt.Errorf("undo count %d exceeds %d moves: %w", count, len(moves), ErrCorrupt)
	}
	return moves[:count:count], moves[count:], nil
}
