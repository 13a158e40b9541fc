package app

import (
	"io"
	"time"

	"github.com/okian/decades/internal/adapters/repository"
	"github.com/okian/decades/pkg/logger"
	"github.com/okian/decades/pkg/metrics"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics manager runs are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithStore persists every successful summary to s.
func WithStore(s repository.Store) Option {
	return func(p *Pipeline) {
		p.store = s
	}
}

// WithOutput sets where the console table is printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.out = w
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithRunID fixes the run id instead of generating a UUID.
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		if id != "" {
			p.newID = func() string { return id }
		}
	}
}
