// Package gui is the desktop front end of v2browse, built with fyne. Builds
// tagged nogui replace it with a stub so headless binaries skip the
// OpenGL dependencies.
package gui

import (
	"context"

	"v2browse/internal/config"
	"v2browse/internal/log"
)

type settings struct {
	ctx       context.Context
	cfg       *config.Config
	logger    *log.Logger
	startPath string
	watch     <-chan []byte
}

// Option configures the window.
type Option func(*settings)

// WithConfig sets the configuration; its start path is opened first.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		if cfg != nil {
			s.cfg = cfg
			s.startPath = cfg.UI.StartPath
		}
	}
}

// WithStartPath sets the directory opened first.
func WithStartPath(p string) Option {
	return func(s *settings) { s.startPath = p }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithContext sets the context requests run under.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithContainerWatch reloads the container whenever ch delivers a blob
// written by another process.
func WithContainerWatch(ch <-chan []byte) Option {
	return func(s *settings) { s.watch = ch }
}

func newSettings(opts []Option) settings {
	s := settings{
		ctx:    context.Background(),
		cfg:    config.New(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
