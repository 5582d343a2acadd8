package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jaminalder/reversi/internal/domain"
	"github.com/jaminalder/reversi/internal/store"
)

const saveName = "othello_gamestate.txt"

func run(t *testing.T, dir, input string) string {
	t.Helper()
	fs, err := store.NewFileStore(dir)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, New(strings.NewReader(input), &out, fs, saveName).Run())
	return out.String()
}

func TestMenu(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		out := run(t, t.TempDir(), "9\n")
		require.Contains(t, out, "Bye")
	})

	t.Run("bad choice then eof", func(t *testing.T) {
		out := run(t, t.TempDir(), "5\n")
		require.Contains(t, out, "Enter 1, 2 or 9")
	})

	t.Run("continue without save", func(t *testing.T) {
		out := run(t, t.TempDir(), "2\n9\n")
		require.Contains(t, out, "Load failed: no saved game")
	})

	t.Run("continue from corrupt save", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, saveName), []byte("2\nBLACK 3 4\n"), 0o644))
		out := run(t, dir, "2\n9\n")
		require.Contains(t, out, "Load failed: saved game is corrupt")
	})
}

func TestPlayCommands(t *testing.T) {
	out := run(t, t.TempDir(), "1\n11\n44\n99\nzz\n34\nu\nr\nr\np\n0\nx\nn\n9\n")

	require.Contains(t, out, "Starting a new game")
	require.Contains(t, out, "No stones to capture there")
	require.Contains(t, out, "A stone is already there")
	require.Equal(t, 2, strings.Count(out, "Invalid input"), "99 and zz are both rejected")
	require.Contains(t, out, "Nothing to redo")
	require.Contains(t, out, "-- light to move --")
	require.Contains(t, out, "Enter y, n or c")
	require.Contains(t, out, "Game discarded")
	require.Contains(t, out, " 3 | | | |●| | | | |")
}

func TestSaveThenContinue(t *testing.T) {
	dir := t.TempDir()
	out := run(t, dir, "1\n34\n33\nu\n0\nc\n0\ny\n9\n")
	require.Contains(t, out, "Back to the game")
	require.Contains(t, out, "Game saved")

	b, err := os.ReadFile(filepath.Join(dir, saveName))
	require.NoError(t, err)
	require.Equal(t, "1\nBLACK 3 4\nWHITE 3 3\n", string(b))

	out = run(t, dir, "2\nr\n0\nn\n9\n")
	require.Contains(t, out, "Loaded saved game")
	require.Contains(t, out, "moves 2")
}

func TestGameOverEndsGame(t *testing.T) {
	g := domain.New()
	for r := 1; r <= domain.Size; r++ {
		for c := 1; c <= domain.Size; c++ {
			g.Board[r][c] = domain.DarkStone
		}
	}
	g.Board[1][1] = domain.Empty
	g.Board[1][2] = domain.LightStone

	var out bytes.Buffer
	p := New(strings.NewReader("11\n"), &out, nil, saveName)
	require.NoError(t, p.play(g))
	require.Contains(t, out.String(), "Game over: Dark wins (dark 64 - light 0)")
}

func TestPassHint(t *testing.T) {
	g := domain.New()
	for r := 1; r <= domain.Size; r++ {
		for c := 1; c <= domain.Size; c++ {
			g.Board[r][c] = domain.DarkStone
		}
	}
	g.Board[1][1] = domain.Empty
	g.Turn = domain.Light

	var out bytes.Buffer
	p := New(strings.NewReader(""), &out, nil, saveName)
	require.ErrorIs(t, p.play(g), errInputEOF)
	require.Contains(t, out.String(), "light has no legal move, enter p to pass")
}
