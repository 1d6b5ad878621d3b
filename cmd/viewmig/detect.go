package main

import (
	"fmt"

	"github.com/aretw0/viewmig/internal/config"
	"github.com/aretw0/viewmig/internal/discovery"
	"github.com/aretw0/viewmig/internal/manifest"
	"github.com/aretw0/viewmig/internal/migrate"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "Print the Odoo version declared by the addons manifests",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := dirArg(cmd, args, ".")
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadFrom(dir, configPath)
		if err != nil {
			return err
		}

		paths, err := discovery.New(dir, cfg.ExcludeDirs...).Manifests()
		if err != nil {
			return err
		}
		major, from, err := manifest.DetectVersion(paths)
		if err != nil {
			return fmt.Errorf("could not determine Odoo version: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Detected Odoo %d (from %s)\n", major, from)
		if path, err := migrate.PathFor(major); err == nil {
			fmt.Fprintf(out, "Next migration: %d -> %d\n", path.From, path.To)
		} else {
			fmt.Fprintf(out, "No migration path from %d (supported: %v)\n", major, migrate.SupportedVersions())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
