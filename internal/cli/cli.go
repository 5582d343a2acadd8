// Package cli implements the line-oriented prompt used by cmd/reversi.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/reversi/internal/domain"
	"github.com/jaminalder/reversi/internal/store"
)

// Store persists and restores a game's move history.
type Store interface {
	Save(name string, g *domain.Game) error
	Load(name string) (*domain.Game, error)
}

var (
	cellInputRe = regexp.MustCompile(`^([1-8])([1-8])$`)
	errInputEOF = errors.New("input closed")
)

// Prompt drives games from text input.
type Prompt struct {
	in       *bufio.Scanner
	out      io.Writer
	store    Store
	saveName string
}

// New returns a prompt reading from in and writing to out. Games are saved
// to and loaded from saveName in st.
func New(in io.Reader, out io.Writer, st Store, saveName string) *Prompt {
	return &Prompt{in: bufio.NewScanner(in), out: out, store: st, saveName: saveName}
}

func (p *Prompt) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Prompt) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errInputEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Run shows the title menu until the user quits or input ends.
func (p *Prompt) Run() error {
	p.printf("== Reversi ==\n")
	for {
		p.printf("-- Menu --\n1. New game\n2. Continue saved game\n9. Quit\n")
		line, err := p.readLine()
		if errors.Is(err, errInputEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch line {
		case "1":
			p.printf("Starting a new game\n")
			err = p.play(domain.New())
		case "2":
			g, lerr := p.store.Load(p.saveName)
			if lerr != nil {
				log.Error().Err(lerr).Str("file", p.saveName).Msg("load failed")
				p.printf("Load failed: %s\n", loadFailure(lerr))
				continue
			}
			p.printf("Loaded saved game\n")
			err = p.play(g)
		case "9":
			p.printf("Bye\n")
			return nil
		default:
			p.printf("Enter 1, 2 or 9\n")
			continue
		}
		if errors.Is(err, errInputEOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func loadFailure(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "no saved game"
	case errors.Is(err, store.ErrCorrupt):
		return "saved game is corrupt"
	default:
		return err.Error()
	}
}

// play runs one game until it ends or the user leaves it.
func (p *Prompt) play(g *domain.Game) error {
	for {
		drawBoard(p.out, g)
		if g.IsOver() {
			p.printf("Game over: %s\n", g.Summary())
			return nil
		}
		p.printf("-- %s to move --\n", g.Turn)
		if !g.CanMove(g.Turn) {
			p.printf("%s has no legal move, enter p to pass\n", g.Turn)
		}
		p.printf("e.g. 43 places at row 4, column 3. p pass, u undo, r redo, 0 quit\n")

		line, err := p.readLine()
		if err != nil {
			return err
		}
		switch line {
		case "0":
			done, err := p.quit(g)
			if err != nil || done {
				return err
			}
			continue
		case "p":
			g.Pass()
			continue
		case "u":
			if err := g.Undo(); err != nil {
				p.printf("Nothing to undo\n")
			}
			continue
		case "r":
			if err := g.Redo(); err != nil {
				p.printf("Nothing to redo\n")
			}
			continue
		}

		m := cellInputRe.FindStringSubmatch(line)
		if m == nil {
			p.printf("Invalid input, e.g. 43\n")
			continue
		}
		row, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		if err := g.Play(row, col); err != nil {
			log.Debug().Err(err).Msg("move rejected")
			p.printf("%s\n", moveFailure(err))
		}
	}
}

func moveFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrOccupied):
		return "A stone is already there"
	case errors.Is(err, domain.ErrNoCapture):
		return "No stones to capture there"
	default:
		return "Out of range"
	}
}

// quit asks whether to save. It reports false when the user cancels.
func (p *Prompt) quit(g *domain.Game) (bool, error) {
	p.printf("Leaving the game. Save it? [(y)es/(n)o/(c)ancel]\n")
	for {
		line, err := p.readLine()
		if err != nil {
			return true, err
		}
		switch line {
		case "y":
			if err := p.store.Save(p.saveName, g); err != nil {
				log.Error().Err(err).Str("file", p.saveName).Msg("save failed")
				p.printf("Save failed: %v\n", err)
			} else {
				p.printf("Game saved\n")
			}
			return true, nil
		case "n":
			p.printf("Game discarded\n")
			return true, nil
		case "c":
			p.printf("Back to the game\n")
			return false, nil
		default:
			p.printf("Enter y, n or c\n")
		}
	}
}
