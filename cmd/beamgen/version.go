package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/precast/internal/version"
	"github.com/chazu/precast/pkg/beam"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of beamgen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "beamgen v%s\n", version.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "commit %s, built %s\n", version.GitCommit, version.BuildTime)
		if !beam.CheckVersion(version.Version) {
			fmt.Fprintln(cmd.OutOrStdout(), "warning: generator does not support this version")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
