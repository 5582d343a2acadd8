package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the text and HTTP front ends.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr      string        `yaml:"addr"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

type StoreConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", Heartbeat: 15 * time.Second},
		Store:  StoreConfig{Dir: ".", File: "othello_gamestate.txt"},
		Log:    LogConfig{Level: "info", Pretty: true},
	}
}

// Load reads a yaml file over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SetupLogger configures the global zerolog logger to write to w.
func SetupLogger(c LogConfig, w io.Writer) error {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("bad log level %q: %w", c.Level, err)
	}
	zerolog.SetGlobalLevel(level)
	if c.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}
