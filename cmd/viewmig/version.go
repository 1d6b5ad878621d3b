package main

import (
	"fmt"

	"github.com/aretw0/viewmig"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of viewmig",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "viewmig version %s\n", viewmig.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
