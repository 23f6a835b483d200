// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ux styles the terminal output: the staged-change statistics
// panel, the message preview, and the confirm prompt.
package ux

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/bartekus/commitron/internal/gitops"
)

var (
	colorAccent  = lipgloss.Color("#7AA2F7")
	colorSuccess = lipgloss.Color("#9ECE6A")
	colorWarning = lipgloss.Color("#E0AF68")
	colorError   = lipgloss.Color("#F7768E")
	colorMuted   = lipgloss.Color("#565F89")
)

// Styles holds the pre-configured lipgloss styles used across the CLI.
var Styles = struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}

// Success prints a success line with a checkmark.
func Success(w io.Writer, text string) {
	fmt.Fprintf(w, "%s %s\n", Styles.Success.Render("✓"), text)
}

// Warning prints a warning line.
func Warning(w io.Writer, text string) {
	fmt.Fprintf(w, "%s %s\n", Styles.Warning.Render("⚠"), Styles.Warning.Render(text))
}

// Error prints an error line.
func Error(w io.Writer, text string) {
	fmt.Fprintf(w, "%s %s\n", Styles.Error.Render("✗"), Styles.Error.Render(text))
}

// Info prints a secondary line.
func Info(w io.Writer, text string) {
	fmt.Fprintf(w, "%s %s\n", Styles.Muted.Render("│"), text)
}

// StatsPanel renders the staged-change statistics box shown before the
// confirm prompt.
func StatsPanel(stats gitops.Stats) string {
	content := strings.Join([]string{
		fmt.Sprintf("Files changed  %s", Styles.Title.Render(fmt.Sprintf("%d", stats.FilesChanged))),
		fmt.Sprintf("Insertions    %s", Styles.Success.Render(fmt.Sprintf("+%d", stats.Insertions))),
		fmt.Sprintf("Deletions     %s", Styles.Error.Render(fmt.Sprintf("-%d", stats.Deletions))),
	}, "\n")
	title := Styles.Title.Render("Staged changes")
	return Styles.Box.Render(title + "\n" + content)
}

// MessagePreview renders the generated commit message in a box.
func MessagePreview(msg string) string {
	return Styles.Box.Render(Styles.Title.Render("Commit message") + "\n" + msg)
}

// Confirm asks a yes/no question on stdin. When stdin is not a
// terminal there is nobody to ask, so the default is returned.
func Confirm(w io.Writer, r io.Reader, prompt string, def bool) bool {
	if f, ok := r.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return def
	}
	suffix := "[Y/n]"
	if !def {
		suffix = "[y/N]"
	}
	fmt.Fprintf(w, "%s %s ", prompt, Styles.Muted.Render(suffix))

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
