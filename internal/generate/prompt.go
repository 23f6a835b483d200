// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"fmt"
	"strings"

	"github.com/bartekus/commitron/internal/message"
	"github.com/bartekus/commitron/internal/rules"
)

// systemPrompt frames every chat-completion request.
const systemPrompt = "You are a Git commit message generator. " +
	"You analyze staged diffs and respond with a single Conventional Commit message and nothing else."

// BuildPrompt constructs the initial generation prompt for a staged diff.
func BuildPrompt(r *rules.Rules, diff string) string {
	types := strings.Join(r.Types, ", ")
	return fmt.Sprintf(`Generate a Git commit message for the staged changes below.

## Staged diff
`+"```diff\n%s\n```"+`

## Requirements
1. Format: "<type>[(scope)][!]: <brief description>", one blank line, then an optional body.
2. The title must be at most %d characters.
3. The type must be one of: %s (lowercase).
4. The scope, if used, is a short lowercase token narrowing the affected area ([a-z0-9-]).
5. Append "!" to the type/scope only for a breaking change.
6. Wrap body lines at %d characters.
7. Use the imperative mood and explain what and why, not how.
8. Footer lines, if any, must start with "Refs:", "Closes:" or "BREAKING CHANGE:".

Return ONLY the commit message. No explanations, no code fences.`,
		diff, r.MaxTitleLength, types, r.MaxBodyWidth)
}

// BuildRetryPrompt constructs the corrective follow-up prompt after a
// grammar violation. It names the exact failure and carries the prior
// candidate so the model fixes rather than regenerates from scratch.
func BuildRetryPrompt(r *rules.Rules, prior string, verr *message.Error) string {
	var hint string
	switch verr.Kind {
	case message.KindTitleTooLong:
		hint = fmt.Sprintf("Shorten the title to at most %d characters.", r.MaxTitleLength)
	case message.KindTypeCase:
		hint = fmt.Sprintf("Use the lowercase type %q.", verr.Suggestion)
	case message.KindUnknownType:
		hint = fmt.Sprintf("Use one of the allowed types: %s.", strings.Join(r.Types, ", "))
	case message.KindMalformedScope, message.KindInvalidScopeChars:
		hint = "Fix the scope: lowercase letters, digits and hyphens inside parentheses, or omit it."
	default:
		hint = "Follow the format \"<type>[(scope)][!]: <brief description>\"."
	}
	return fmt.Sprintf(`Your previous commit message was rejected: %s.
%s

Previous message:
%s

Return ONLY the corrected commit message. No explanations, no code fences.`,
		verr.Msg, hint, prior)
}
