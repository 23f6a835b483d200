// SPDX-License-Identifier: AGPL-3.0-or-later

package message

import (
	"strings"
	"unicode"

	"github.com/bartekus/commitron/internal/rules"
)

// ParseTitle validates a raw title line against the Conventional Commit
// grammar and returns the canonical form plus the breaking-change flag.
//
// The grammar is `type[(scope)][!]: subject`. Parsing is an explicit
// scan, not a single regex, so each failure carries a precise Kind.
func ParseTitle(r *rules.Rules, raw string) (string, bool, error) {
	title := strings.TrimSpace(raw)

	colon := strings.IndexByte(title, ':')
	if colon < 0 {
		return "", false, errf(KindMissingSeparator,
			"title must contain ':' separating the type from the subject")
	}
	// Split on the first colon only, so subjects may contain colons.
	header := strings.TrimSpace(title[:colon])
	subject := strings.TrimSpace(title[colon+1:])
	if subject == "" {
		return "", false, errf(KindMissingSeparator,
			"subject after ':' must not be empty")
	}

	breaking := false
	if strings.HasSuffix(header, "!") {
		breaking = true
		header = strings.TrimSpace(strings.TrimSuffix(header, "!"))
		if header == "" {
			return "", false, errf(KindEmptyHeader,
				"breaking-change '!' cannot be the only thing before ':'")
		}
	}

	typeTok, scope, serr := splitHeader(header)
	if serr != nil {
		return "", false, serr
	}
	if scope != "" && !r.ScopeValid(scope) {
		return "", false, errf(KindInvalidScopeChars,
			"scope %q contains invalid characters; allowed pattern: %s", scope, r.ScopePattern)
	}
	if !r.HasType(typeTok) {
		if lower := strings.ToLower(typeTok); r.HasType(lower) {
			e := errf(KindTypeCase,
				"type %q must be lowercase; did you mean %q?", typeTok, lower)
			e.Suggestion = lower
			return "", false, e
		}
		return "", false, errf(KindUnknownType,
			"type %q is not one of: %s", typeTok, strings.Join(r.Types, ", "))
	}

	subject = NormalizeSubject(subject)
	prefix := HeaderPrefix(typeTok, scope, breaking)
	canonical := prefix + subject

	if len(canonical) > r.MaxTitleLength {
		shortened, ok := TruncateSubject(prefix, subject, r.MaxTitleLength)
		if !ok {
			return "", false, errf(KindTitleTooLong,
				"title is %d characters, limit is %d, and it cannot be shortened at a word boundary",
				len(canonical), r.MaxTitleLength)
		}
		canonical = shortened
	}
	return canonical, breaking, nil
}

// splitHeader separates `type(scope)` into its parts. A header with no
// parentheses is all type.
func splitHeader(header string) (string, string, *Error) {
	if strings.HasSuffix(header, ")") {
		open := strings.IndexByte(header, '(')
		if open <= 0 {
			return "", "", errf(KindMalformedScope,
				"malformed scope in %q; use 'type(scope)' or just 'type'", header)
		}
		scope := header[open+1 : len(header)-1]
		if scope == "" {
			return "", "", errf(KindMalformedScope,
				"scope cannot be empty when parentheses are present")
		}
		if strings.ContainsAny(scope, "()") {
			return "", "", errf(KindMalformedScope,
				"unbalanced parentheses in scope %q", scope)
		}
		return header[:open], scope, nil
	}
	if strings.ContainsAny(header, "()") {
		return "", "", errf(KindMalformedScope,
			"malformed scope in %q; use 'type(scope)' or just 'type'", header)
	}
	return header, "", nil
}

// HeaderPrefix rebuilds the canonical `type[(scope)][!]: ` prefix.
func HeaderPrefix(typeTok, scope string, breaking bool) string {
	var b strings.Builder
	b.WriteString(typeTok)
	if scope != "" {
		b.WriteByte('(')
		b.WriteString(scope)
		b.WriteByte(')')
	}
	if breaking {
		b.WriteByte('!')
	}
	b.WriteString(": ")
	return b.String()
}

// NormalizeSubject capitalizes the first letter and strips a single
// trailing period. An ellipsis is left alone.
func NormalizeSubject(subject string) string {
	if strings.HasSuffix(subject, ".") && !strings.HasSuffix(subject, "...") {
		subject = strings.TrimSuffix(subject, ".")
	}
	runes := []rune(subject)
	if len(runes) > 0 && unicode.IsLower(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// TruncateSubject rebuilds the subject word by word while the running
// title stays within max, stopping at the last word that fits. Returns
// false when not even the first word fits.
func TruncateSubject(prefix, subject string, max int) (string, bool) {
	words := strings.Fields(subject)
	if len(words) == 0 || len(prefix)+len(words[0]) > max {
		return "", false
	}
	shortened := words[0]
	for _, w := range words[1:] {
		if len(prefix)+len(shortened)+1+len(w) > max {
			break
		}
		shortened += " " + w
	}
	return prefix + shortened, true
}
