// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures zerolog for the engine.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/related-engine/pkg/types"
)

// New builds the root logger from config: JSON to stderr by default,
// human-readable console output when requested.
func New(cfg types.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
