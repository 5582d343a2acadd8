package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/reversi/internal/cli"
	"github.com/jaminalder/reversi/internal/config"
	"github.com/jaminalder/reversi/internal/store"
)

func main() {
	cfgPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := config.SetupLogger(cfg.Log, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("logger")
	}

	fs, err := store.NewFileStore(cfg.Store.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("store")
	}
	if err := cli.New(os.Stdin, os.Stdout, fs, cfg.Store.File).Run(); err != nil {
		log.Fatal().Err(err).Msg("prompt")
	}
}
