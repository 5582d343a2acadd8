package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jaminalder/reversi/internal/domain"
	"github.com/jaminalder/reversi/internal/store"
)

// minimal renderer for tests: encode history length as bytes
func testRenderer(gs GameState) []byte {
	return []byte(fmt.Sprintf("moves=%d", gs.Game.HistoryLen()))
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewServiceWithRenderer(testRenderer)
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	s.SetStore(fs)
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newTestService(t)
	gs, err := s.CreateGame()
	require.NoError(t, err)
	require.NotEmpty(t, gs.ID)
	require.Equal(t, domain.Dark, gs.Game.Turn)
	require.False(t, gs.Created.IsZero() || gs.Updated.IsZero(), "expected timestamps to be set")

	got, ok := s.Get(gs.ID)
	require.True(t, ok)
	require.Equal(t, gs.ID, got.ID)

	_, ok = s.Get("missing")
	require.False(t, ok)
}

func TestPlayUndoRedoPass(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame()

	st, err := s.Play(gs.ID, 3, 4)
	require.NoError(t, err)
	require.Equal(t, domain.Light, st.Game.Turn)
	require.Equal(t, 1, st.Game.HistoryLen())

	st, err = s.Play(gs.ID, 1, 1)
	require.ErrorIs(t, err, domain.ErrNoCapture)
	require.Equal(t, 1, st.Game.HistoryLen(), "rejected move returns unchanged state")

	st, err = s.Undo(gs.ID)
	require.NoError(t, err)
	require.Equal(t, domain.Dark, st.Game.Turn)

	st, err = s.Redo(gs.ID)
	require.NoError(t, err)
	require.Equal(t, domain.Light, st.Game.Turn)

	_, err = s.Redo(gs.ID)
	require.ErrorIs(t, err, domain.ErrNoHistory)

	st, err = s.Pass(gs.ID)
	require.NoError(t, err)
	require.Equal(t, domain.Dark, st.Game.Turn)

	_, err = s.Play("missing", 3, 4)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotsAreIndependent(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame()
	_, err := s.Play(gs.ID, 3, 4)
	require.NoError(t, err)

	snap, _ := s.Get(gs.ID)
	require.NoError(t, snap.Game.Undo())

	latest, _ := s.Get(gs.ID)
	require.Equal(t, 1, latest.Game.HistoryLen())
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame()
	_, err := s.Play(gs.ID, 3, 4)
	require.NoError(t, err)
	_, err = s.Play(gs.ID, 3, 3)
	require.NoError(t, err)
	_, err = s.Undo(gs.ID)
	require.NoError(t, err)
	require.NoError(t, s.Save(gs.ID))

	saved, _ := s.Get(gs.ID)
	_, err = s.Play(gs.ID, 5, 3)
	require.NoError(t, err)

	st, err := s.Load(gs.ID)
	require.NoError(t, err)
	require.Equal(t, saved.Game.Board, st.Game.Board)
	require.Equal(t, saved.Game.Turn, st.Game.Turn)
	require.Equal(t, 1, st.Game.HistoryLen())
	require.Equal(t, 1, st.Game.RedoLen())
}

func TestLoadFailureKeepsGame(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame()
	_, err := s.Play(gs.ID, 3, 4)
	require.NoError(t, err)

	st, err := s.Load(gs.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, 1, st.Game.HistoryLen())
}

func TestSaveWithoutStore(t *testing.T) {
	s := NewService()
	gs, _ := s.CreateGame()
	require.ErrorIs(t, s.Save(gs.ID), ErrNoStore)
	_, err := s.Load(gs.ID)
	require.ErrorIs(t, err, ErrNoStore)
	require.ErrorIs(t, s.Save("missing"), ErrNotFound)
}

func TestSubscribeAndBroadcast(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	ch, unsub := s.Subscribe(ctx, gs.ID)
	defer unsub()

	if _, err := s.Play(gs.ID, 3, 4); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	select {
	case b, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed unexpectedly")
		}
		if string(b) != "moves=1" {
			t.Fatalf("unexpected broadcast payload: %q", string(b))
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for broadcast")
	}
}

func TestRejectedMoveDoesNotBroadcast(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, unsub := s.Subscribe(ctx, gs.ID)
	defer unsub()

	_, err := s.Play(gs.ID, 1, 1)
	require.True(t, errors.Is(err, domain.ErrNoCapture))
	select {
	case b := <-ch:
		t.Fatalf("unexpected broadcast %q", string(b))
	default:
	}
}

func TestDropSlowSubscriber(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame()

	// Slow subscriber: never read
	ctxSlow, cancelSlow := context.WithCancel(context.Background())
	defer cancelSlow()
	slowCh, _ := s.Subscribe(ctxSlow, gs.ID)

	// Fast subscriber: will read
	ctxFast, cancelFast := context.WithTimeout(context.Background(), time.Second*2)
	defer cancelFast()
	fastCh, unsubFast := s.Subscribe(ctxFast, gs.ID)
	defer unsubFast()

	// Two quick updates; slow should be dropped to avoid blocking fast
	if _, err := s.Play(gs.ID, 3, 4); err != nil {
		t.Fatalf("play1: %v", err)
	}
	select {
	case <-fastCh:
	case <-ctxFast.Done():
		t.Fatalf("fast subscriber did not receive first update")
	}
	if _, err := s.Play(gs.ID, 3, 3); err != nil {
		t.Fatalf("play2: %v", err)
	}
	select {
	case <-fastCh:
	case <-ctxFast.Done():
		t.Fatalf("fast subscriber did not receive second update")
	}

	// Slow subscriber got the first payload buffered, then was closed.
	<-slowCh
	_, ok := <-slowCh
	require.False(t, ok, "slow subscriber should be closed")
}

func TestUnsubscribeDuringBroadcast(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame()

	for i := 0; i < 2000; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		_, unsub := s.Subscribe(ctx, gs.ID)

		var (
			wg  sync.WaitGroup
			err error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err = s.Pass(gs.ID)
		}()
		go func() {
			defer wg.Done()
			unsub()
		}()
		wg.Wait()
		cancel()
		require.NoError(t, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Empty(t, s.subs[gs.ID])
}
