package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/carcassonne/config"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective run file",
		Long: `Print the configuration that evolve would start from, after the run file
and the global flags, as a TOML run file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Write(cmd.OutOrStdout(), a.cfg)
		},
	}
}
