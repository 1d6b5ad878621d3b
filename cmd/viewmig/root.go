package main

import (
	"fmt"
	"os"

	"github.com/aretw0/viewmig/internal/cli"
	"github.com/aretw0/viewmig/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "viewmig",
	Short: "viewmig migrates Odoo addons across major versions",
	Long: `viewmig rewrites the code of custom Odoo addons for a newer major version.
It converts attrs and states view modifiers into Python expressions, renames
tree views to list and updates module manifests.

Run without a subcommand to open the interactive menu.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := migrateOptions(cmd, args)
		pretty := tui.IsTerminal(os.Stdout)
		if pretty {
			tui.PrintBanner(os.Stdout)
		}
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.RunMenu(ctx, opts, pretty)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Addons directory (defaults to the first argument)")
	rootCmd.PersistentFlags().String("config", "", "Configuration file (defaults to viewmig.yaml in the addons directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// dirArg returns --dir, or the first argument, or def.
func dirArg(cmd *cobra.Command, args []string, def string) string {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = def
	}
	return dir
}

// migrateOptions reads the flags shared by the migration commands.
func migrateOptions(cmd *cobra.Command, args []string) cli.MigrateOptions {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	opts := cli.MigrateOptions{
		Dir:        dirArg(cmd, args, ""),
		ConfigPath: configPath,
		Debug:      debug,
		In:         os.Stdin,
		Out:        os.Stdout,
	}
	if f := cmd.Flags().Lookup("yes"); f != nil {
		opts.Yes, _ = cmd.Flags().GetBool("yes")
		opts.ConfirmFiles = !opts.Yes
	}
	if f := cmd.Flags().Lookup("dry-run"); f != nil {
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	}
	if f := cmd.Flags().Lookup("no-backup"); f != nil {
		opts.NoBackup, _ = cmd.Flags().GetBool("no-backup")
	}
	if f := cmd.Flags().Lookup("force"); f != nil {
		opts.Force, _ = cmd.Flags().GetBool("force")
	}
	if f := cmd.Flags().Lookup("from"); f != nil {
		opts.From, _ = cmd.Flags().GetInt("from")
	}
	if f := cmd.Flags().Lookup("author"); f != nil {
		opts.Author, _ = cmd.Flags().GetString("author")
	}
	return opts
}

// addMigrateFlags registers the flags shared by the migration commands.
func addMigrateFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("from", "f", 0, "Source Odoo major version (detected from the manifests when omitted)")
	cmd.Flags().BoolP("yes", "y", false, "Apply every change without asking")
	cmd.Flags().Bool("dry-run", false, "Report the changes without writing any file")
	cmd.Flags().Bool("no-backup", false, "Skip the zip backup of the addons directory")
	cmd.Flags().Bool("force", false, "Run even when the detected version differs from --from")
	cmd.Flags().String("author", "", "Author written into manifests (overrides the configuration)")
}
