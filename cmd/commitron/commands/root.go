// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands wires the commitron CLI: `generate` runs the full
// diff-to-commit flow, `check` validates an existing message.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the commitron root command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("COMMITRON_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "commitron",
		Short:         "Commitron - Conventional Commit messages from your staged diff",
		Long:          "Commitron generates a Conventional Commit message for the staged diff with an AI model, validates it against the commit grammar, and commits on confirmation.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().String("config", "", "path to the rules file (default .commitron.yaml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of Commitron",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Commitron version %s\n", version)
		},
	})

	cmd.AddCommand(NewGenerateCommand())
	cmd.AddCommand(NewCheckCommand())

	return cmd
}
