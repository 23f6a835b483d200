// SPDX-License-Identifier: AGPL-3.0-or-later

// Package message is the Conventional Commit grammar engine: it parses
// raw candidate text into a validated CommitMessage, re-wraps the body
// and footer, and serializes the result back to commit text.
//
// A CommitMessage is created either by Parse, which validates, or by
// FromSanitizedParts, which trusts the caller to supply fields that
// already conform to the grammar (the deterministic fallback path).
// Instances are immutable once assembled.
package message

import (
	"strings"

	"github.com/bartekus/commitron/internal/rules"
)

// CommitMessage is a structured, grammar-conformant commit message.
type CommitMessage struct {
	Title            string
	Description      string
	Footer           string
	IsBreakingChange bool
}

// Parse validates and normalizes raw commit text. The first blank line
// separates title from body, the second separates body from footer.
func Parse(r *rules.Rules, raw string) (*CommitMessage, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if raw == "" {
		return nil, errf(KindEmptyInput, "cannot parse an empty commit message")
	}

	// Collapse runs of blank lines first so they cannot shift the
	// body into the footer slot.
	raw = blankRunRE.ReplaceAllString(raw, "\n\n")
	parts := strings.SplitN(raw, "\n\n", 3)

	title, breaking, err := ParseTitle(r, parts[0])
	if err != nil {
		return nil, err
	}

	var description, footer string
	if len(parts) > 1 {
		description = FormatDescription(r, parts[1])
	}
	if len(parts) > 2 {
		footer = FormatFooter(r, parts[2])
	}

	return &CommitMessage{
		Title:            title,
		Description:      description,
		Footer:           footer,
		IsBreakingChange: breaking,
	}, nil
}

// FromSanitizedParts constructs a CommitMessage from fields the caller
// has already made grammar-conformant. No validation runs; the contract
// is the construction site, not a skipped check.
func FromSanitizedParts(title, description, footer string, breaking bool) *CommitMessage {
	return &CommitMessage{
		Title:            title,
		Description:      description,
		Footer:           footer,
		IsBreakingChange: breaking,
	}
}

// String serializes the message: title, then a blank line and the
// description when present, then a blank line and the footer when
// present. It is the inverse of the blank-line split in Parse.
func (m *CommitMessage) String() string {
	parts := []string{m.Title}
	if m.Description != "" {
		parts = append(parts, "", m.Description)
	}
	if m.Footer != "" {
		parts = append(parts, "", m.Footer)
	}
	return strings.Join(parts, "\n")
}
