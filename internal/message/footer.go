// SPDX-License-Identifier: AGPL-3.0-or-later

package message

import (
	"strings"

	"github.com/bartekus/commitron/internal/rules"
)

// FormatFooter normalizes footer text to the recognized prefix
// vocabulary. Lines without a recognized prefix are dropped or
// auto-prefixed with "Refs:" depending on the configured policy.
// Retained lines are word-wrapped; wrapped continuations are indented
// by one space, the git trailer continuation convention, so every
// logical footer line still starts with a recognized prefix.
func FormatFooter(r *rules.Rules, raw string) string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		continuation := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if continuation {
			for _, w := range wrapLine(line, r.MaxBodyWidth-1) {
				out = append(out, " "+w)
			}
			continue
		}
		if r.FooterPrefix(line) == "" {
			if r.FooterPolicy == rules.FooterPolicyDrop {
				continue
			}
			line = "Refs: " + line
		}
		wrapped := wrapLine(line, r.MaxBodyWidth-1)
		out = append(out, wrapped[0])
		for _, cont := range wrapped[1:] {
			out = append(out, " "+cont)
		}
	}
	return strings.Join(out, "\n")
}
