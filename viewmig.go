package viewmig

import (
	"context"
	"log/slog"

	"github.com/aretw0/viewmig/internal/config"
	"github.com/aretw0/viewmig/internal/metrics"
	"github.com/aretw0/viewmig/internal/migrate"
	"github.com/aretw0/viewmig/internal/view"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/transpile"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the release version of viewmig.
var Version = "0.1.0"

// ConvertDomain converts a domain literal into a Python expression.
func ConvertDomain(text string) (string, error) {
	return transpile.ConvertDomain(text)
}

// ConvertAttrs converts an attrs dictionary into one expression per attribute.
func ConvertAttrs(attrs string) (transpile.AttrSet, error) {
	return transpile.GetNewAttrs(attrs)
}

// CombineStates folds a comma separated states list into an invisible expression.
func CombineStates(invisible, states string) string {
	return transpile.CombineInvisible(invisible, states)
}

// ConvertView rewrites every attrs and states modifier of a view document
// and returns the new content with the number of converted nodes.
func ConvertView(content string) (string, int, error) {
	out, res, err := view.Convert(content)
	if err != nil {
		return "", 0, err
	}
	return out, len(res.Changes), nil
}

// Migrator runs migration paths over an addons tree.
type Migrator struct {
	root   string
	cfg    config.Config
	logger *slog.Logger
	hooks   domain.Hooks
	dryRun  bool
	metrics *metrics.Metrics
}

// Option defines a functional option for configuring the Migrator.
type Option func(*Migrator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Migrator) {
		m.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Migrator) {
		m.hooks = hooks
	}
}

// WithDryRun reports changes without writing files.
func WithDryRun(dryRun bool) Option {
	return func(m *Migrator) {
		m.dryRun = dryRun
	}
}

// WithAuthor sets the author written into manifests.
func WithAuthor(author string, maintainers ...string) Option {
	return func(m *Migrator) {
		m.cfg.Author = author
		m.cfg.Maintainers = maintainers
	}
}

// New creates a Migrator for root, reading viewmig.yaml from root when present.
func New(root string, opts ...Option) *Migrator {
	cfg, err := config.LoadFrom(root, "")
	if err != nil {
		cfg = config.Default()
	}
	m := &Migrator{root: root, cfg: cfg, metrics: metrics.New()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Migrate runs the migration path starting at major version from. Every
// file is applied without confirmation.
func (m *Migrator) Migrate(ctx context.Context, from int) (*domain.Report, error) {
	opts := []migrate.Option{
		migrate.WithConfig(m.cfg),
		migrate.WithHooks(metrics.MergeHooks(m.hooks, m.metrics.Hooks())),
		migrate.WithDryRun(m.dryRun),
	}
	if m.logger != nil {
		opts = append(opts, migrate.WithLogger(m.logger))
	}
	return migrate.New(m.root, opts...).Run(ctx, from)
}

// Gatherer exposes the file and node counters of every run of this Migrator,
// ready to be served with promhttp.HandlerFor.
func (m *Migrator) Gatherer() prometheus.Gatherer {
	return m.metrics.Registry
}
