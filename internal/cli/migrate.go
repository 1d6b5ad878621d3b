package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/viewmig/internal/backup"
	"github.com/aretw0/viewmig/internal/config"
	"github.com/aretw0/viewmig/internal/discovery"
	"github.com/aretw0/viewmig/internal/manifest"
	"github.com/aretw0/viewmig/internal/migrate"
	"github.com/aretw0/viewmig/internal/reports"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/hashicorp/go-multierror"
)

// ErrAborted is returned when the user declines to start a migration.
var ErrAborted = errors.New("migration aborted by user")

// ErrVersionMismatch is returned when the detected version differs from the requested one.
var ErrVersionMismatch = errors.New("detected version does not match")

// MigrateOptions contains the configuration for a migration run.
type MigrateOptions struct {
	Dir        string
	ConfigPath string
	From       int  // 0 means detect
	Yes        bool // skip every confirmation
	// ConfirmFiles asks before writing each file; otherwise only the run is confirmed.
	ConfirmFiles bool
	DryRun     bool
	NoBackup   bool
	Force      bool // run even when the detected version differs from From
	Debug      bool
	Author     string
	// Steps, when set, runs only these steps instead of the whole path.
	Steps []string

	In  io.Reader
	Out io.Writer
}

// Session holds what a migration command needs once options are resolved.
type Session struct {
	Opts   MigrateOptions
	Config config.Config
	Logger *slog.Logger
	closer io.Closer
	in     *bufio.Reader
}

// NewSession loads the configuration and opens the log file.
func NewSession(opts MigrateOptions) (*Session, error) {
	if !discovery.IsDir(opts.Dir) {
		return nil, fmt.Errorf("the directory '%s' does not exist", opts.Dir)
	}
	cfg, err := config.LoadFrom(opts.Dir, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Author != "" {
		cfg.Author = opts.Author
	}
	logger, closer, err := createLogger(opts.Debug, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	return &Session{
		Opts:   opts,
		Config: cfg,
		Logger: logger,
		closer: closer,
		in:     bufio.NewReader(opts.In),
	}, nil
}

// Close releases the log file.
func (s *Session) Close() error {
	return s.closer.Close()
}

// DetectVersion returns the major version declared by the addons manifests.
func (s *Session) DetectVersion() (int, error) {
	s.Logger.Info("detecting Odoo version", "dir", s.Opts.Dir)
	paths, err := discovery.New(s.Opts.Dir, s.Config.ExcludeDirs...).Manifests()
	if err != nil {
		return 0, err
	}
	major, from, err := manifest.DetectVersion(paths)
	if err != nil {
		s.Logger.Warn("could not determine Odoo version", "error", err)
		return 0, err
	}
	s.Logger.Info("detected Odoo version", "version", major, "manifest", from)
	return major, nil
}

// resolveFrom picks the source version from the flag and the detection.
func (s *Session) resolveFrom() (int, error) {
	detected, err := s.DetectVersion()
	switch {
	case s.Opts.From == 0 && err != nil:
		return 0, fmt.Errorf("could not detect the Odoo version, pass --from: %w", err)
	case s.Opts.From == 0:
		return detected, nil
	case err == nil && detected != s.Opts.From && !s.Opts.Force:
		return 0, fmt.Errorf("%w: detected version is %d, expected %d (use --force to continue)", ErrVersionMismatch, detected, s.Opts.From)
	}
	return s.Opts.From, nil
}

// ask prints question and reads a y/n answer. Yes answers true without asking.
func (s *Session) ask(question string) (bool, error) {
	if s.Opts.Yes {
		return true, nil
	}
	fmt.Fprintf(s.Opts.Out, "%s (y/n): ", question)
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

func (s *Session) confirmer() migrate.Confirmer {
	if s.Opts.Yes || !s.Opts.ConfirmFiles {
		return migrate.AutoConfirm{}
	}
	return migrate.NewPromptConfirmer(s.in, s.Opts.Out)
}

func (s *Session) runner() *migrate.Runner {
	return migrate.New(s.Opts.Dir,
		migrate.WithLogger(s.Logger),
		migrate.WithConfig(s.Config),
		migrate.WithConfirmer(s.confirmer()),
		migrate.WithDryRun(s.Opts.DryRun),
		migrate.WithHooks(createDebugHooks(s.Logger)),
	)
}

// Backup archives the addons directory unless disabled.
func (s *Session) Backup(ctx context.Context) (string, error) {
	if s.Opts.NoBackup || s.Opts.DryRun {
		return "", nil
	}
	s.Logger.Info("creating backup", "dir", s.Opts.Dir, "dest", s.Config.BackupDir)
	path, err := backup.Create(ctx, s.Opts.Dir, s.Config.BackupDir, time.Now())
	if err != nil {
		return "", fmt.Errorf("backup failed, aborting update: %w", err)
	}
	s.Logger.Info("backup created", "path", path)
	return path, nil
}

// Store returns the report store of the addons directory.
func (s *Session) Store() *reports.FileStore {
	return reportStore(s.Opts.Dir, s.Config)
}

func reportStore(dir string, cfg config.Config) *reports.FileStore {
	base := cfg.ReportDir
	if !filepath.IsAbs(base) {
		base = filepath.Join(dir, base)
	}
	return reports.NewFileStore(base)
}

// RunMigrate resolves the source version, asks for confirmation, backs the
// addons up, runs the migration and saves the report. A report is returned
// whenever the run started, together with the collected file errors.
func RunMigrate(ctx context.Context, opts MigrateOptions) (*domain.Report, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Migrate(ctx)
}

// Migrate runs the whole flow on an open session.
func (s *Session) Migrate(ctx context.Context) (*domain.Report, error) {
	from, err := s.resolveFrom()
	if err != nil {
		return nil, err
	}
	path, err := migrate.PathFor(from)
	if err != nil {
		return nil, err
	}

	out := s.Opts.Out
	fmt.Fprintln(out, "\n--- Pre-update summary ---")
	fmt.Fprintf(out, "You are about to update from Odoo %d to %d.\n", path.From, path.To)
	if s.Opts.DryRun {
		fmt.Fprintln(out, "Dry run: no file will be written.")
	} else if !s.Opts.NoBackup {
		fmt.Fprintf(out, "A backup of '%s' will be created.\n", s.Opts.Dir)
	}
	fmt.Fprintln(out, "IMPORTANT: Please ensure you have a separate backup of your database.")

	ok, err := s.ask("Do you want to continue?")
	if err != nil {
		return nil, err
	}
	if !ok {
		s.Logger.Info("update process aborted by user")
		return nil, ErrAborted
	}

	backupPath, err := s.Backup(ctx)
	if err != nil {
		return nil, err
	}

	var report *domain.Report
	var runErr error
	if len(s.Opts.Steps) > 0 {
		report, runErr = s.runSteps(ctx, path)
	} else {
		report, runErr = s.runner().Run(ctx, from)
	}
	if report == nil {
		return nil, runErr
	}
	report.Backup = backupPath

	if err := s.Store().Save(ctx, report); err != nil {
		s.Logger.Warn("failed to save report", "error", err)
	} else {
		s.Logger.Info("report saved", "id", report.ID)
	}
	return report, runErr
}

func (s *Session) runSteps(ctx context.Context, path migrate.Path) (*domain.Report, error) {
	r := s.runner()
	report := domain.NewReport(migrate.NewReportID(time.Now()), s.Opts.Dir, path.From, path.To)
	report.DryRun = s.Opts.DryRun

	var errs *multierror.Error
	for _, name := range s.Opts.Steps {
		step, err := r.RunStep(ctx, name, path.To)
		report.Steps = append(report.Steps, step)
		if err != nil {
			if ctx.Err() != nil {
				report.Finished = time.Now()
				return report, err
			}
			errs = multierror.Append(errs, err)
		}
	}
	report.Finished = time.Now()
	return report, errs.ErrorOrNil()
}
