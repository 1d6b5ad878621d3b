package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/viewmig/internal/cli"
	"github.com/aretw0/viewmig/internal/migrate"
	"github.com/aretw0/viewmig/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [dir]",
	Short: "Migrate an addons directory to the next Odoo version",
	Long: `Runs every automated step of the migration path starting at the source version:

  15 -> 16  no automated code steps, the manual steps are listed
  16 -> 17  attrs and states view modifiers are converted
  17 -> 18  tree views are renamed to list and manifests are updated

A zip backup is created first and a JSON report is saved under
.viewmig/reports in the addons directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, args, nil)
	},
}

var viewsCmd = &cobra.Command{
	Use:   "views [dir]",
	Short: "Convert attrs and states view modifiers only",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, args, []string{migrate.StepViews})
	},
}

var treeListCmd = &cobra.Command{
	Use:   "tree2list [dir]",
	Short: "Rename the tree view type to list only",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, args, []string{migrate.StepTreeList})
	},
}

var manifestCmd = &cobra.Command{
	Use:   "manifest [dir]",
	Short: "Update manifest version, author and maintainers only",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, args, []string{migrate.StepManifests})
	},
}

func runMigration(cmd *cobra.Command, args []string, steps []string) error {
	opts := migrateOptions(cmd, args)
	if opts.Dir == "" {
		opts.Dir = "."
	}
	opts.Steps = steps

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	report, err := cli.RunMigrate(ctx, opts)
	if errors.Is(err, cli.ErrAborted) {
		return nil
	}
	if report != nil {
		if perr := tui.PrintReport(os.Stdout, report, tui.IsTerminal(os.Stdout)); perr != nil {
			return perr
		}
	}
	if err := cli.HandleExecutionError(err); err != nil {
		if report != nil && report.FailedCount() > 0 {
			return fmt.Errorf("%d file(s) failed, see the report above", report.FailedCount())
		}
		return err
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{migrateCmd, viewsCmd, treeListCmd, manifestCmd} {
		addMigrateFlags(c)
		rootCmd.AddCommand(c)
	}
}
