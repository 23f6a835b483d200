// SPDX-License-Identifier: AGPL-3.0-or-later

package message

import "fmt"

// Kind classifies a grammar violation. The retry policy uses the kind
// to build a corrective prompt that names the exact failure.
type Kind int

const (
	// KindEmptyInput means there was nothing to parse. Not retryable:
	// re-prompting a generator about an empty message corrects nothing.
	KindEmptyInput Kind = iota
	// KindMissingSeparator means the title has no colon, or nothing
	// after it.
	KindMissingSeparator
	// KindEmptyHeader means the breaking-change marker was the only
	// thing before the colon.
	KindEmptyHeader
	// KindMalformedScope means parentheses are present but unbalanced,
	// misplaced, or enclose nothing.
	KindMalformedScope
	// KindInvalidScopeChars means the scope fails the character-class
	// pattern.
	KindInvalidScopeChars
	// KindUnknownType means the type token is not in the vocabulary.
	KindUnknownType
	// KindTypeCase means the type token is in the vocabulary only after
	// lowercasing; Suggestion carries the lowercase form.
	KindTypeCase
	// KindTitleTooLong means the title exceeds the limit and no word
	// boundary under budget exists to truncate at.
	KindTitleTooLong
)

// String returns a short stable name for the kind, used in corrective
// prompts and log output.
func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty input"
	case KindMissingSeparator:
		return "missing separator"
	case KindEmptyHeader:
		return "empty header"
	case KindMalformedScope:
		return "malformed scope"
	case KindInvalidScopeChars:
		return "invalid scope characters"
	case KindUnknownType:
		return "unknown type"
	case KindTypeCase:
		return "type case"
	case KindTitleTooLong:
		return "title too long"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a grammar violation. It carries enough detail for the retry
// policy to tell the generator exactly what to fix.
type Error struct {
	Kind Kind
	Msg  string
	// Suggestion holds the lowercase type token for KindTypeCase.
	Suggestion string
}

func (e *Error) Error() string { return e.Msg }

// Retryable reports whether re-generating a candidate could fix the
// violation. Only empty input is beyond correction.
func (e *Error) Retryable() bool { return e.Kind != KindEmptyInput }

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
