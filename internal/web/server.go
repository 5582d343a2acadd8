package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/reversi/internal/app"
)

// Option customizes the server.
type Option func(*handlers)

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
	return func(h *handlers) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// NewServer wires routes and returns an http.Handler. It installs the board
// fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts ...Option) http.Handler {
	h := &handlers{svc: s, tpl: loadTemplates(), heartbeat: 15 * time.Second}
	for _, opt := range opts {
		opt(h)
	}
	s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("took", d).
			Msg("request")
	}))

	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/pass", h.pass)
		r.Post("/undo", h.undo)
		r.Post("/redo", h.redo)
		r.Post("/save", h.save)
		r.Post("/load", h.load)
		r.Get("/events", h.events)
	})
	return r
}
