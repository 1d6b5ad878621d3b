package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/viewmig/internal/config"
	"github.com/aretw0/viewmig/internal/discovery"
	"github.com/aretw0/viewmig/internal/logging"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/registry"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Runner applies migration steps to the addons tree at Root.
type Runner struct {
	root      string
	logger    *slog.Logger
	confirmer Confirmer
	hooks     domain.Hooks
	dryRun    bool
	cfg       config.Config
	now       func() time.Time
	steps     *registry.Registry
}

// New creates a Runner for the addons tree at root.
func New(root string, opts ...Option) *Runner {
	r := &Runner{
		root:      root,
		logger:    logging.NewNop(),
		confirmer: AutoConfirm{},
		cfg:       config.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.steps = registry.NewRegistry()
	r.steps.Register(StepViews, func(ctx context.Context, _ int) (domain.StepReport, error) {
		return r.ConvertViews(ctx)
	})
	r.steps.Register(StepTreeList, func(ctx context.Context, _ int) (domain.StepReport, error) {
		return r.RenameTreeToList(ctx)
	})
	r.steps.Register(StepManifests, r.UpdateManifests)
	return r
}

// Root returns the addons directory the runner works on.
func (r *Runner) Root() string {
	return r.root
}

// NewReportID returns a sortable unique report ID.
func NewReportID(t time.Time) string {
	return t.Format("20060102_150405") + "-" + uuid.NewString()[:8]
}

// Run executes every step of the migration path starting at from.
// Per-file failures are recorded in the report and returned together as a
// *multierror.Error; a cancelled context stops the run between files.
func (r *Runner) Run(ctx context.Context, from int) (*domain.Report, error) {
	path, err := PathFor(from)
	if err != nil {
		return nil, err
	}

	report := domain.NewReport(NewReportID(r.now()), r.root, path.From, path.To)
	report.Started = r.now()
	report.DryRun = r.dryRun

	r.logger.Info("starting migration", "from", path.From, "to", path.To, "root", r.root, "dry_run", r.dryRun)

	var errs *multierror.Error
	for _, name := range path.Steps {
		step, err := r.RunStep(ctx, name, path.To)
		report.Steps = append(report.Steps, step)
		if err != nil {
			if ctx.Err() != nil {
				report.Finished = r.now()
				return report, err
			}
			errs = multierror.Append(errs, err)
		}
		r.logger.Info("step finished", "step", name,
			"succeeded", len(step.Succeeded), "failed", len(step.Failed), "skipped", len(step.Skipped))
	}

	for _, note := range path.Notes {
		r.logger.Warn("manual step required", "note", note)
	}
	report.Steps = append(report.Steps, domain.StepReport{
		Name:      "manual",
		Succeeded: []string{},
		Failed:    []domain.Failure{},
		Skipped:   []string{},
		Notes:     path.Notes,
	})

	report.Finished = r.now()
	if err := errs.ErrorOrNil(); err != nil {
		r.logger.Error("migration finished with errors", "failed", report.FailedCount())
		return report, err
	}
	r.logger.Info("migration finished", "succeeded", report.SucceededCount())
	return report, nil
}

// RunStep executes a single step by name. to is the target major version,
// used by the manifest step.
func (r *Runner) RunStep(ctx context.Context, name string, to int) (domain.StepReport, error) {
	return r.steps.Execute(ctx, name, to)
}

func (r *Runner) finder() *discovery.Finder {
	return discovery.New(r.root, r.cfg.ExcludeDirs...)
}

func (r *Runner) rel(path string) string {
	if rel, err := filepath.Rel(r.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func newStep(name string) domain.StepReport {
	return domain.StepReport{
		Name:      name,
		Succeeded: []string{},
		Failed:    []domain.Failure{},
		Skipped:   []string{},
	}
}

// tracker records per-file outcomes of one step and fires the hooks.
type tracker struct {
	r    *Runner
	step domain.StepReport
	errs *multierror.Error
}

func (r *Runner) track(name string) *tracker {
	return &tracker{r: r, step: newStep(name)}
}

func (t *tracker) event(typ domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: t.r.now(), Type: typ, Step: t.step.Name}
}

func (t *tracker) start(ctx context.Context, path string) {
	if t.r.hooks.OnFileStart != nil {
		t.r.hooks.OnFileStart(ctx, &domain.FileEvent{EventBase: t.event(domain.EventFileStart), Path: path})
	}
}

func (t *tracker) done(ctx context.Context, path, outcome string, err error) {
	switch outcome {
	case domain.OutcomeSucceeded:
		t.step.Succeeded = append(t.step.Succeeded, path)
	case domain.OutcomeSkipped:
		t.step.Skipped = append(t.step.Skipped, path)
	case domain.OutcomeFailed:
		t.step.Failed = append(t.step.Failed, domain.Failure{Path: path, Reason: err.Error()})
		t.errs = multierror.Append(t.errs, fmt.Errorf("%s: %w", path, err))
		t.r.logger.Error("failed to process file", "step", t.step.Name, "file", path, "error", err, "kind", domain.ErrorKind(err))
	}
	if t.r.hooks.OnFileDone != nil {
		t.r.hooks.OnFileDone(ctx, &domain.FileEvent{EventBase: t.event(domain.EventFileDone), Path: path, Outcome: outcome, Err: err})
	}
}

func (t *tracker) conversion(ctx context.Context, path, kind, before, after string) {
	if t.r.hooks.OnConversion != nil {
		t.r.hooks.OnConversion(ctx, &domain.ConversionEvent{
			EventBase: t.event(domain.EventConversion),
			Path:      path,
			Kind:      kind,
			Before:    before,
			After:     after,
		})
	}
}

func (t *tracker) note(format string, args ...any) {
	t.step.Notes = append(t.step.Notes, fmt.Sprintf(format, args...))
}

func (t *tracker) result() (domain.StepReport, error) {
	return t.step, t.errs.ErrorOrNil()
}

// confirm asks the confirmer unless this is a dry run, in which case the
// change is reported as succeeded without being written.
func (t *tracker) confirm(ctx context.Context, path, preview string) (bool, error) {
	if t.r.dryRun {
		return true, nil
	}
	return t.r.confirmer.Confirm(ctx, t.step.Name, path, preview)
}
