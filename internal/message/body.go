// SPDX-License-Identifier: AGPL-3.0-or-later

package message

import (
	"regexp"
	"strings"

	"github.com/bartekus/commitron/internal/rules"
)

var (
	blankRunRE = regexp.MustCompile(`\n{3,}`)
	listMarkRE = regexp.MustCompile(`^([-*•]|\d+\.|[a-zA-Z]\.)\s+(.+)$`)
	trailingWS = regexp.MustCompile(`[ \t]+$`)
)

// FormatDescription re-wraps free-form body text at the configured
// width while keeping paragraph and list structure intact. Empty input
// is a no-op.
func FormatDescription(r *rules.Rules, raw string) string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if raw == "" {
		return ""
	}
	raw = blankRunRE.ReplaceAllString(raw, "\n\n")

	var paragraphs []string
	for _, paragraph := range strings.Split(raw, "\n\n") {
		var wrapped []string
		for _, line := range strings.Split(strings.TrimSpace(paragraph), "\n") {
			line = trailingWS.ReplaceAllString(line, "")
			wrapped = append(wrapped, formatBodyLine(r, line)...)
		}
		if len(wrapped) > 0 {
			paragraphs = append(paragraphs, strings.Join(wrapped, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// formatBodyLine wraps one physical line. List items keep their marker
// on the first line and get a hanging indent on continuations. An
// already-indented line (a previous continuation) keeps its indent, so
// formatting is idempotent.
func formatBodyLine(r *rules.Rules, line string) []string {
	trimmed := strings.TrimLeft(line, " ")
	if indent := line[:len(line)-len(trimmed)]; indent != "" {
		wrapped := wrapLine(trimmed, r.MaxBodyWidth-len(indent))
		for i := range wrapped {
			wrapped[i] = indent + wrapped[i]
		}
		return wrapped
	}

	m := listMarkRE.FindStringSubmatch(line)
	if m == nil {
		return wrapLine(line, r.MaxBodyWidth)
	}

	marker, content := m[1], m[2]
	indent := strings.Repeat(" ", len(marker)+1)
	wrapped := wrapLine(content, r.MaxBodyWidth-len(indent))
	if len(wrapped) == 0 {
		return nil
	}

	out := make([]string, 0, len(wrapped))
	out = append(out, marker+" "+wrapped[0])
	for _, cont := range wrapped[1:] {
		out = append(out, indent+cont)
	}
	return out
}

// wrapLine greedily fills words up to width, breaking only at
// whitespace. A word longer than width is broken after a hyphen when it
// has one under the budget; otherwise it overflows unbroken rather than
// being cut mid-word.
func wrapLine(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(text)
	var lines []string
	cur := ""
	flush := func() {
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
	}
	for _, word := range words {
		if cur != "" && len(cur)+1+len(word) <= width {
			cur += " " + word
			continue
		}
		if cur == "" && len(word) <= width {
			cur = word
			continue
		}
		flush()
		for len(word) > width {
			cut := strings.LastIndexByte(word[:width], '-')
			if cut <= 0 {
				break // unbreakable, let it overflow
			}
			lines = append(lines, word[:cut+1])
			word = word[cut+1:]
		}
		cur = word
	}
	flush()
	return lines
}
