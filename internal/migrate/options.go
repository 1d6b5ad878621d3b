package migrate

import (
	"log/slog"
	"time"

	"github.com/aretw0/viewmig/internal/config"
	"github.com/aretw0/viewmig/pkg/domain"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConfirmer configures who approves each rewrite. Defaults to AutoConfirm.
func WithConfirmer(c Confirmer) Option {
	return func(r *Runner) {
		r.confirmer = c
	}
}

// WithHooks registers observability callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(r *Runner) {
		r.hooks = h
	}
}

// WithDryRun reports what would change without writing any file.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// WithConfig configures globs, extensions, excludes and manifest values.
func WithConfig(cfg config.Config) Option {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}
