// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"regexp"
	"strings"

	"github.com/bartekus/commitron/internal/message"
	"github.com/bartekus/commitron/internal/rules"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// fallbackSubject is used when the candidate title has no usable
// subject at all.
const fallbackSubject = "Apply staged changes"

// Fallback deterministically repairs the last candidate without calling
// the generator again: the type is coerced into the vocabulary, an
// invalid scope is dropped, the subject is truncated to fit, and the
// original title is kept as a note at the top of the description so
// nothing is lost silently. The result is built via FromSanitizedParts;
// every field is made conformant here.
func Fallback(r *rules.Rules, candidate string) *message.CommitMessage {
	candidate = strings.TrimSpace(strings.ReplaceAll(candidate, "\r\n", "\n"))
	parts := strings.SplitN(blankRuns.ReplaceAllString(candidate, "\n\n"), "\n\n", 3)

	rawTitle := strings.TrimSpace(parts[0])
	if nl := strings.IndexByte(rawTitle, '\n'); nl >= 0 {
		rawTitle = strings.TrimSpace(rawTitle[:nl])
	}

	header, subject := "", rawTitle
	if colon := strings.IndexByte(rawTitle, ':'); colon >= 0 {
		header = strings.TrimSpace(rawTitle[:colon])
		subject = strings.TrimSpace(rawTitle[colon+1:])
	}

	breaking := false
	if strings.HasSuffix(header, "!") {
		rest := strings.TrimSpace(strings.TrimSuffix(header, "!"))
		if rest != "" {
			// Unambiguous position, right before the colon.
			breaking = true
		}
		header = rest
	}

	typeTok, scope := header, ""
	if open := strings.IndexByte(header, '('); open >= 0 {
		typeTok = strings.TrimSpace(header[:open])
		if close := strings.LastIndexByte(header, ')'); close > open {
			scope = strings.TrimSpace(header[open+1 : close])
		}
	}
	typeTok = strings.ToLower(typeTok)
	if !r.HasType(typeTok) {
		typeTok = r.FallbackType
	}
	if scope != "" && !r.ScopeValid(scope) {
		scope = ""
	}

	subject = message.NormalizeSubject(subject)
	if subject == "" {
		subject = fallbackSubject
	}

	prefix := message.HeaderPrefix(typeTok, scope, breaking)
	if len(prefix) >= r.MaxTitleLength {
		// A valid but enormous scope can eat the whole budget.
		scope = ""
		prefix = message.HeaderPrefix(typeTok, scope, breaking)
	}
	title, ok := message.TruncateSubject(prefix, subject, r.MaxTitleLength)
	if !ok {
		room := r.MaxTitleLength - len(prefix)
		if room > len(subject) {
			room = len(subject)
		}
		title = prefix + strings.TrimSpace(subject[:room])
	}

	note := "Original title: " + rawTitle
	description := message.FormatDescription(r, note)
	if len(parts) > 1 {
		if body := message.FormatDescription(r, parts[1]); body != "" {
			description += "\n\n" + body
		}
	}
	var footer string
	if len(parts) > 2 {
		footer = message.FormatFooter(r, parts[2])
	}

	return message.FromSanitizedParts(title, description, footer, breaking)
}
