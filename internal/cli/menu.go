package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/viewmig/internal/presentation/tui"
)

// menuChoices maps a menu entry to its source version.
var menuChoices = map[string]int{"1": 15, "2": 16, "3": 17}

func displayMenu(w io.Writer) {
	fmt.Fprintln(w, "\n--- Odoo Update Menu ---")
	fmt.Fprintln(w, "1. Update from Odoo 15 to Odoo 16")
	fmt.Fprintln(w, "2. Update from Odoo 16 to Odoo 17")
	fmt.Fprintln(w, "3. Update from Odoo 17 to Odoo 18")
	fmt.Fprintln(w, "4. Exit")
	fmt.Fprintln(w, "------------------------")
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func getUserChoice(in *bufio.Reader, out io.Writer) (string, error) {
	for {
		fmt.Fprint(out, "Enter your choice (1-4): ")
		choice, err := readLine(in)
		if err != nil {
			return "", err
		}
		if choice == "4" {
			return choice, nil
		}
		if _, ok := menuChoices[choice]; ok {
			return choice, nil
		}
		fmt.Fprintln(out, "Invalid choice. Please enter a number between 1 and 4.")
	}
}

// RunMenu runs the interactive menu until the user exits. When opts.Dir is
// empty the addons directory is asked for first. Reports are printed with
// glamour when pretty is set.
func RunMenu(ctx context.Context, opts MigrateOptions, pretty bool) error {
	in := bufio.NewReader(opts.In)
	opts.In = in
	out := opts.Out

	if opts.Dir == "" {
		fmt.Fprint(out, "Enter the path to your custom addons directory (e.g., ./custom_addons): ")
		dir, err := readLine(in)
		if err != nil {
			return HandleExecutionError(err)
		}
		opts.Dir = dir
	}

	s, err := NewSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()
	s.Logger.Info("starting Odoo update")

	detected, err := s.DetectVersion()
	if err != nil {
		ok, err := s.ask("Could not detect version. Continue anyway?")
		if err != nil || !ok {
			return HandleExecutionError(err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		displayMenu(out)
		choice, err := getUserChoice(in, out)
		if err != nil {
			return HandleExecutionError(err)
		}
		if choice == "4" {
			s.Logger.Info("exiting")
			return nil
		}

		from := menuChoices[choice]
		if detected != 0 && detected != from {
			s.Logger.Error("invalid option", "detected", detected, "expected", from)
			printSystemMessage(out, "Invalid option. Detected version is %d, expected %d.", detected, from)
			continue
		}

		s.Opts.From = from
		s.Opts.Force = detected == 0
		report, err := s.Migrate(ctx)
		switch {
		case errors.Is(err, ErrAborted):
			continue
		case report == nil && err != nil:
			s.Logger.Error("update process failed", "error", err)
			printSystemMessage(out, "Update failed: %v", err)
			continue
		}

		if perr := tui.PrintReport(out, report, pretty); perr != nil {
			s.Logger.Warn("failed to print report", "error", perr)
		}
		if err != nil {
			if isInterrupted(err) {
				return nil
			}
			s.Logger.Error("update process finished with errors", "failed", report.FailedCount())
			printSystemMessage(out, "Update failed. Please check '%s' for details.", s.Config.LogFile)
			continue
		}
		s.Logger.Info("update process completed successfully")
		printSystemMessage(out, "Update finished. Please check '%s' for details.", s.Config.LogFile)
	}
}
