// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitops talks to the git binary for the three things the tool
// needs: the staged diff, its change statistics, and the final commit.
// All commands go through the Runner seam so tests never shell out.
package gitops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// LargeDiffBytes is the size above which a staged diff earns a
// performance warning.
const LargeDiffBytes = 1 << 20

// ErrNotARepository means the working directory is not inside a git
// work tree.
var ErrNotARepository = errors.New("not inside a git repository")

// ErrGitMissing means the git binary is not on PATH.
var ErrGitMissing = errors.New("git is not installed")

// Runner executes a git subcommand and returns its stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return stdout.String(), nil
}

// Stats summarizes the staged changes.
type Stats struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// Client wraps a Runner with the staged-changes operations.
type Client struct {
	runner Runner
}

// NewClient builds a Client that shells out to git.
func NewClient() *Client {
	return &Client{runner: execRunner{}}
}

// NewClientWithRunner builds a Client over a custom Runner.
func NewClientWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

// CheckPrerequisites verifies git is installed and the working
// directory is inside a work tree.
func (c *Client) CheckPrerequisites(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, "--version"); err != nil {
		return fmt.Errorf("%w: %v", ErrGitMissing, err)
	}
	if _, err := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return fmt.Errorf("%w: %v", ErrNotARepository, err)
	}
	return nil
}

// StagedDiff returns the staged diff, empty when nothing is staged.
func (c *Client) StagedDiff(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, "diff", "--cached", "--no-color")
	if err != nil {
		return "", fmt.Errorf("reading staged diff: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// StagedStats aggregates `git diff --cached --numstat` into totals.
// Binary files show up as "-" columns and count as changed files with
// no line totals.
func (c *Client) StagedStats(ctx context.Context) (Stats, error) {
	out, err := c.runner.Run(ctx, "diff", "--cached", "--numstat")
	if err != nil {
		return Stats{}, fmt.Errorf("reading staged stats: %w", err)
	}

	var stats Stats
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		stats.FilesChanged++
		if fields[0] == "-" || fields[1] == "-" {
			continue
		}
		ins, err := strconv.Atoi(fields[0])
		if err != nil {
			return Stats{}, fmt.Errorf("parsing numstat line %q: %w", line, err)
		}
		del, err := strconv.Atoi(fields[1])
		if err != nil {
			return Stats{}, fmt.Errorf("parsing numstat line %q: %w", line, err)
		}
		stats.Insertions += ins
		stats.Deletions += del
	}
	return stats, nil
}

// Commit records the staged changes with the given message.
func (c *Client) Commit(ctx context.Context, msg string) error {
	if _, err := c.runner.Run(ctx, "commit", "-m", msg); err != nil {
		return fmt.Errorf("committing staged changes: %w", err)
	}
	return nil
}
