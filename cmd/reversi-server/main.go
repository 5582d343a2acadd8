package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/reversi/internal/app"
	"github.com/jaminalder/reversi/internal/config"
	"github.com/jaminalder/reversi/internal/store"
	"github.com/jaminalder/reversi/internal/web"
)

func main() {
	cfgPath := flag.String("config", "", "path to yaml config")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := config.SetupLogger(cfg.Log, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("logger")
	}

	fs, err := store.NewFileStore(cfg.Store.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("store")
	}
	svc := app.NewService()
	svc.SetStore(fs)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.NewServer(svc, web.WithHeartbeat(cfg.Server.Heartbeat)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Dir).Msg("reversi server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server")
	}
}
