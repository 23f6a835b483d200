// SPDX-License-Identifier: AGPL-3.0-or-later

// Package generate turns a staged diff into a validated CommitMessage.
// It owns the prompt construction, the correction/retry state machine
// around an injected Generator, and the deterministic fallback that
// repairs the last candidate when the retry budget runs out.
package generate

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces raw candidate text from a prompt. Implementations
// must return the model output with no additional framing.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// GenerationError reports that the generator itself failed on the final
// attempt. It is distinct from a grammar-validation failure, which the
// policy recovers from via the fallback.
type GenerationError struct {
	Attempts int
	Last     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed after %d attempt(s): %v", e.Attempts, e.Last)
}

func (e *GenerationError) Unwrap() error { return e.Last }

// stripFences removes a single pair of enclosing backtick fences from
// model output. Models wrap answers in code blocks despite being told
// not to.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") && len(text) > 6 {
		text = strings.TrimPrefix(text, "```")
		// Drop an info string such as ```text on the opening fence.
		if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.ContainsAny(text[:nl], " \t") && nl < 16 {
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}
	if strings.HasPrefix(text, "`") && strings.HasSuffix(text, "`") && len(text) >= 2 {
		return strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}
