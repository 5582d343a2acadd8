package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/jaminalder/reversi/internal/app"
	"github.com/jaminalder/reversi/internal/domain"
	"github.com/jaminalder/reversi/internal/store"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	heartbeat time.Duration
}

type boardData struct {
	ID    string
	Game  *domain.Game
	Error string
	Dark  int
	Light int
	Hint  string
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	data := boardData{
		ID:    gs.ID,
		Game:  gs.Game,
		Error: errMsg,
		Dark:  gs.Game.Board.Count(domain.DarkStone),
		Light: gs.Game.Board.Count(domain.LightStone),
	}
	if !gs.Game.IsOver() && !gs.Game.CanMove(gs.Game.Turn) {
		data.Hint = fmt.Sprintf("%s has no legal move and must pass", gs.Game.Turn)
	}
	return renderTemplate(h.tpl.board, "", data)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	data := struct {
		ID        string
		BoardHTML template.HTML
	}{ID: gs.ID, BoardHTML: template.HTML(h.renderBoard(*gs, ""))}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	// Render page with embedded board container
	_, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	ri, errR := strconv.Atoi(r.Form.Get("r"))
	ci, errC := strconv.Atoi(r.Form.Get("c"))
	if errR != nil || errC != nil {
		h.respond(w, r, nil, fmt.Errorf("bad coordinates: %w", domain.ErrOutOfRange))
		return
	}
	gs, err := h.svc.Play(chi.URLParam(r, "id"), ri, ci)
	h.respond(w, r, gs, err)
}

func (h *handlers) pass(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Pass(chi.URLParam(r, "id"))
	h.respond(w, r, gs, err)
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Undo(chi.URLParam(r, "id"))
	h.respond(w, r, gs, err)
}

func (h *handlers) redo(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Redo(chi.URLParam(r, "id"))
	h.respond(w, r, gs, err)
}

func (h *handlers) save(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.svc.Save(id)
	h.respond(w, r, nil, err)
}

func (h *handlers) load(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Load(chi.URLParam(r, "id"))
	h.respond(w, r, gs, err)
}

// respond writes the board fragment, with an inline message when err is set.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, gs *app.GameState, err error) {
	id := chi.URLParam(r, "id")
	if gs == nil {
		if g, ok := h.svc.Get(id); ok {
			gs = g
		}
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
		hlog.FromRequest(r).Debug().Err(err).Str("game", id).Msg("request rejected")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		return "Out of range"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrNoCapture):
		return "No stones to capture there"
	case errors.Is(err, domain.ErrNoRedo):
		return "Nothing to redo"
	case errors.Is(err, domain.ErrNoHistory):
		return "Nothing to undo"
	case errors.Is(err, store.ErrNotFound):
		return "No saved game"
	case errors.Is(err, store.ErrCorrupt):
		return "Saved game is corrupt"
	case errors.Is(err, app.ErrNoStore):
		return "Saving is disabled"
	default:
		return "Request failed"
	}
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, _ := h.svc.Subscribe(ctx, id)
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: board\n")
			_, _ = fmt.Fprintf(w, "data: %s\n\n", singleLine(b))
			flusher.Flush()
		}
	}
}
