// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitron/cmd/commitron/internal/clierr"
	"github.com/bartekus/commitron/internal/generate"
	"github.com/bartekus/commitron/internal/gitops"
	"github.com/bartekus/commitron/internal/rules"
	"github.com/bartekus/commitron/internal/ux"
)

// NewGenerateCommand returns the `commitron generate` command, the
// main diff-to-commit flow.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message for the staged diff and commit",
		Long:  "Reads the staged diff, asks the configured model for a Conventional Commit message, validates and reformats it, and commits after confirmation",
		RunE:  runGenerate,
	}

	// Flags in alphabetical order for deterministic help output
	cmd.Flags().Bool("dry-run", false, "print the message without committing")
	cmd.Flags().String("model", "", "override the configured model")
	cmd.Flags().Int("retries", 0, "override the configured retry budget")
	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	verbose, _ := cmd.Flags().GetBool("verbose")

	r, err := loadRules(cmd)
	if err != nil {
		return clierr.Wrap(clierr.CodeUsage, "loading rules", err)
	}

	git := gitops.NewClient()
	if err := git.CheckPrerequisites(ctx); err != nil {
		return clierr.Wrap(clierr.CodeGit, "git prerequisites", err)
	}

	diff, err := git.StagedDiff(ctx)
	if err != nil {
		return clierr.Wrap(clierr.CodeGit, "reading staged changes", err)
	}
	if diff == "" {
		ux.Warning(errOut, "No staged changes found. Use 'git add <files>' first.")
		return nil
	}
	if len(diff) > gitops.LargeDiffBytes {
		ux.Warning(errOut, fmt.Sprintf("Large diff (%d bytes); generation may be slow.", len(diff)))
	}

	stats, err := git.StagedStats(ctx)
	if err != nil {
		return clierr.Wrap(clierr.CodeGit, "reading staged stats", err)
	}
	fmt.Fprintln(out, ux.StatsPanel(stats))

	gen, err := generate.NewOpenAIGenerator(r.Model, r.Temperature)
	if err != nil {
		return clierr.Wrap(clierr.CodeUsage, "configuring generator", err)
	}

	logf := func(string, ...any) {}
	if verbose {
		logf = func(format string, a ...any) {
			ux.Info(errOut, fmt.Sprintf(format, a...))
		}
	}

	ux.Info(out, "Generating commit message...")
	policy := generate.NewPolicy(r, gen, generate.WithLogf(logf))
	msg, state, err := policy.Run(ctx, diff)
	if err != nil {
		var genErr *generate.GenerationError
		if errors.As(err, &genErr) {
			return clierr.Wrap(clierr.CodeGeneration, "generating commit message", err)
		}
		return clierr.Wrap(clierr.CodeGeneric, "generating commit message", err)
	}
	if state.Status == generate.StatusFallback {
		ux.Warning(errOut, "Model output stayed malformed; applied the deterministic auto-fix.")
	}

	text := msg.String()
	fmt.Fprintln(out, ux.MessagePreview(text))

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return nil
	}
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		if !ux.Confirm(out, cmd.InOrStdin(), "Proceed with this commit?", true) {
			ux.Warning(errOut, "Commit canceled.")
			return nil
		}
	}

	if err := git.Commit(ctx, text); err != nil {
		return clierr.Wrap(clierr.CodeGit, "committing", err)
	}
	ux.Success(out, "Changes committed.")
	return nil
}

// loadRules resolves the rules file from --config or the default
// location, then applies flag overrides.
func loadRules(cmd *cobra.Command) (*rules.Rules, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = rules.DefaultConfigFile
	}
	r, err := rules.Load(path)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("model"); f != nil && f.Changed {
		r.Model = f.Value.String()
	}
	if f := cmd.Flags().Lookup("retries"); f != nil && f.Changed {
		n, _ := cmd.Flags().GetInt("retries")
		r.Retries = n
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
