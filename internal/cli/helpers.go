package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/viewmig/internal/logging"
	"github.com/aretw0/viewmig/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger. Migrations always log to
// logFile as well, so a run can be audited after the terminal is gone.
func createLogger(debug bool, logFile string) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return logging.NewWithFile(level, logFile)
}

// printSystemMessage prints a standardized system message to w.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnFileStart: func(ctx context.Context, e *domain.FileEvent) {
			logger.Debug("File Start", "step", e.Step, "file", e.Path)
		},
		OnFileDone: func(ctx context.Context, e *domain.FileEvent) {
			if e.Err != nil {
				logger.Debug("File Done (Error)", "step", e.Step, "file", e.Path, "err", e.Err)
			} else {
				logger.Debug("File Done", "step", e.Step, "file", e.Path, "outcome", e.Outcome)
			}
		},
		OnConversion: func(ctx context.Context, e *domain.ConversionEvent) {
			logger.Debug("Conversion", "file", e.Path, "kind", e.Kind, "before", e.Before, "after", e.After)
		},
	}
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// HandleExecutionError maps interruptions to a clean exit.
func HandleExecutionError(err error) error {
	if isInterrupted(err) {
		return nil
	}
	return err
}
