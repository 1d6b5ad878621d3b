package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/viewmig/internal/config"
	"github.com/aretw0/viewmig/internal/presentation/tui"
	"github.com/aretw0/viewmig/internal/reports"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List and show saved migration reports",
}

var reportListCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List saved reports",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd, args)
		if err != nil {
			return err
		}
		ids, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No reports found.")
			return nil
		}
		for _, id := range ids {
			r, err := store.Load(cmd.Context(), id)
			if err != nil {
				fmt.Fprintf(out, "%s\t(unreadable: %v)\n", id, err)
				continue
			}
			fmt.Fprintf(out, "%s\t%d -> %d\tsucceeded=%d failed=%d\n", id, r.From, r.To, r.SucceededCount(), r.FailedCount())
		}
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved report (the latest one when no ID is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd, nil)
		if err != nil {
			return err
		}
		var r *domain.Report
		if len(args) == 1 {
			r, err = store.Load(cmd.Context(), args[0])
		} else {
			r, err = store.Latest(cmd.Context())
		}
		if errors.Is(err, domain.ErrReportNotFound) {
			return fmt.Errorf("no such report in %s", store.BasePath)
		}
		if err != nil {
			return err
		}
		return tui.PrintReport(cmd.OutOrStdout(), r, tui.IsTerminal(os.Stdout))
	},
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete saved reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd, nil)
		if err != nil {
			return err
		}
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}
		}
		return nil
	},
}

func openStore(cmd *cobra.Command, args []string) (*reports.FileStore, error) {
	dir := dirArg(cmd, args, ".")
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(dir, configPath)
	if err != nil {
		return nil, err
	}
	base := cfg.ReportDir
	if !filepath.IsAbs(base) {
		base = filepath.Join(dir, base)
	}
	return reports.NewFileStore(base), nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportListCmd, reportShowCmd, reportDeleteCmd)
}
