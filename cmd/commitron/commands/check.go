// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitron/cmd/commitron/internal/clierr"
	"github.com/bartekus/commitron/internal/message"
)

// NewCheckCommand returns the `commitron check` command. It validates
// and normalizes an existing commit message, which makes it usable as
// a commit-msg hook: `commitron check "$1"`.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a commit message against the commit grammar",
		Long:  "Reads a commit message from a file (or stdin when no file is given), validates it against the Conventional Commit grammar, and prints the canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}

	cmd.Flags().Bool("write", false, "rewrite the file with the canonical form")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, err := loadRules(cmd)
	if err != nil {
		return clierr.Wrap(clierr.CodeUsage, "loading rules", err)
	}

	var raw []byte
	var path string
	if len(args) == 1 {
		path = args[0]
		raw, err = os.ReadFile(path)
		if err != nil {
			return clierr.Wrap(clierr.CodeUsage, "reading message file", err)
		}
	} else {
		raw, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return clierr.Wrap(clierr.CodeUsage, "reading message from stdin", err)
		}
	}

	msg, err := message.Parse(r, string(raw))
	if err != nil {
		return clierr.Wrap(clierr.CodeGeneric, "invalid commit message", err)
	}

	text := msg.String()
	if write, _ := cmd.Flags().GetBool("write"); write && path != "" {
		if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
			return clierr.Wrap(clierr.CodeGeneric, "rewriting message file", err)
		}
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
