package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/reversi/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")
	ErrNoStore  = errors.New("no history store configured")
)

// HistoryStore persists and restores a game's move history.
type HistoryStore interface {
	Save(name string, g *domain.Game) error
	Load(name string) (*domain.Game, error)
}

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Game    *domain.Game
	Created time.Time
	Updated time.Time
}

func (gs *GameState) snapshot() GameState {
	cp := *gs
	cp.Game = gs.Game.Clone()
	return cp
}

// subscriber guards its channel so a send never races with close.
type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

// send delivers b without blocking. It reports false when the buffer is full.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service manages games and subscribers. Each game is mutated only while
// mu is held.
type Service struct {
	mu     sync.Mutex
	games  map[string]*GameState
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte
	store  HistoryStore
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService() *Service { return NewServiceWithRenderer(func(gs GameState) []byte { return nil }) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
	if renderer == nil {
		renderer = func(gs GameState) []byte { return nil }
	}
	return &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: renderer,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// SetStore sets where Save and Load keep history.
func (s *Service) SetStore(st HistoryStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = st
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	gs := &GameState{ID: id, Game: domain.New(), Created: now, Updated: now}
	s.games[id] = gs
	log.Info().Str("game", id).Msg("game created")
	cp := gs.snapshot()
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := gs.snapshot()
	return &cp, true
}

// Play places the current side's stone at row r, column c (1..8).
func (s *Service) Play(id string, r, c int) (*GameState, error) {
	return s.apply(id, "play", func(g *domain.Game) error {
		if err := g.Play(r, c); err != nil {
			return err
		}
		if g.IsOver() {
			log.Info().Str("game", id).Str("result", g.Summary()).Msg("game over")
		}
		return nil
	})
}

// Pass hands the turn to the other side.
func (s *Service) Pass(id string) (*GameState, error) {
	return s.apply(id, "pass", func(g *domain.Game) error {
		g.Pass()
		return nil
	})
}

// Undo takes back the most recent move.
func (s *Service) Undo(id string) (*GameState, error) {
	return s.apply(id, "undo", (*domain.Game).Undo)
}

// Redo replays the most recently undone move.
func (s *Service) Redo(id string) (*GameState, error) {
	return s.apply(id, "redo", (*domain.Game).Redo)
}

// Save persists the game's history under its id.
func (s *Service) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Save(historyName(id), gs.Game); err != nil {
		return fmt.Errorf("save game %s: %w", id, err)
	}
	log.Info().Str("game", id).Int("moves", gs.Game.HistoryLen()).Msg("game saved")
	return nil
}

// Load replaces the game with the history saved under its id. A failed load
// leaves the current game untouched.
func (s *Service) Load(id string) (*GameState, error) {
	return s.apply(id, "load", func(g *domain.Game) error {
		if s.store == nil {
			return ErrNoStore
		}
		loaded, err := s.store.Load(historyName(id))
		if err != nil {
			return fmt.Errorf("load game %s: %w", id, err)
		}
		*g = *loaded
		log.Info().Str("game", id).Int("moves", g.HistoryLen()).Msg("game loaded")
		return nil
	})
}

func historyName(id string) string { return id + ".txt" }

// apply runs op on the game under the lock, then broadcasts the new state.
func (s *Service) apply(id, op string, fn func(*domain.Game) error) (*GameState, error) {
	var toDrop []*subscriber

	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if err := fn(gs.Game); err != nil {
		cp := gs.snapshot()
		s.mu.Unlock()
		log.Debug().Str("game", id).Str("op", op).Err(err).Msg("rejected")
		return &cp, err
	}
	gs.Updated = time.Now()
	log.Debug().Str("game", id).Str("op", op).Stringer("turn", gs.Game.Turn).Msg("applied")

	// Snapshot state and subscribers
	cp := gs.snapshot()
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	// Fan-out; drop slow subscribers by closing and marking for deletion
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		log.Warn().Str("game", id).Int("count", len(toDrop)).Msg("dropped slow subscribers")
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
	}
	return &cp, nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
