// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"context"
	"errors"
	"time"

	"github.com/bartekus/commitron/internal/message"
	"github.com/bartekus/commitron/internal/rules"
)

// Status is a position in the correction/retry state machine.
type Status string

const (
	StatusGenerating Status = "generating"
	StatusValidating Status = "validating"
	StatusRetrying   Status = "retrying"
	StatusAccepted   Status = "accepted"
	StatusFallback   Status = "fallback"
)

// State is the policy's position, passed by value between steps. The
// attempt counter and the last candidate are the only mutable data in
// the whole flow, and they live here rather than in closure captures.
type State struct {
	Status    Status
	Attempt   int
	Candidate string
	LastErr   *message.Error
}

// Policy runs generate/validate/retry rounds against a Generator until
// a candidate satisfies the grammar, then hands back the CommitMessage.
// When the retry budget runs out on a grammar failure it repairs the
// last candidate deterministically instead of calling the generator
// again. One Policy owns one in-flight candidate at a time.
type Policy struct {
	rules   *rules.Rules
	gen     Generator
	backoff time.Duration
	sleep   func(time.Duration)
	logf    func(format string, args ...any)
}

// Option configures a Policy.
type Option func(*Policy)

// WithBackoff sets the base delay unit for linear backoff between
// attempts. Attempt n waits n times this unit.
func WithBackoff(d time.Duration) Option {
	return func(p *Policy) { p.backoff = d }
}

// WithSleep replaces the blocking delay, so tests run without waiting.
func WithSleep(f func(time.Duration)) Option {
	return func(p *Policy) { p.sleep = f }
}

// WithLogf sets a verbose-progress sink.
func WithLogf(f func(format string, args ...any)) Option {
	return func(p *Policy) { p.logf = f }
}

// NewPolicy builds a Policy over the given rules and generator. The
// retry budget comes from the rules.
func NewPolicy(r *rules.Rules, gen Generator, opts ...Option) *Policy {
	p := &Policy{
		rules:   r,
		gen:     gen,
		backoff: time.Second,
		sleep:   time.Sleep,
		logf:    func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run drives the state machine for one diff until a terminal state.
// It returns the message for StatusAccepted and StatusFallback, a
// *GenerationError when the generator fails with nothing to repair,
// and a non-retryable grammar error as-is.
func (p *Policy) Run(ctx context.Context, diff string) (*message.CommitMessage, State, error) {
	state := State{Status: StatusGenerating, Attempt: 1}
	prompt := BuildPrompt(p.rules, diff)
	budget := p.rules.Retries

	for {
		text, err := p.gen.Generate(ctx, prompt)
		if err != nil {
			if state.Attempt >= budget {
				if state.Candidate != "" {
					// The generator died on the final attempt but an
					// earlier candidate exists; repair that instead.
					state.Status = StatusFallback
					return Fallback(p.rules, state.Candidate), state, nil
				}
				return nil, state, &GenerationError{Attempts: state.Attempt, Last: err}
			}
			p.logf("generator failed on attempt %d: %v", state.Attempt, err)
			p.sleep(time.Duration(state.Attempt) * p.backoff)
			state = State{Status: StatusGenerating, Attempt: state.Attempt + 1, Candidate: state.Candidate, LastErr: state.LastErr}
			continue
		}

		candidate := stripFences(text)
		state.Status = StatusValidating
		state.Candidate = candidate

		msg, perr := message.Parse(p.rules, candidate)
		if perr == nil {
			state.Status = StatusAccepted
			return msg, state, nil
		}

		var verr *message.Error
		if !errors.As(perr, &verr) || !verr.Retryable() {
			return nil, state, perr
		}
		state.LastErr = verr
		p.logf("candidate rejected on attempt %d (%s): %v", state.Attempt, verr.Kind, verr)

		if state.Attempt >= budget {
			state.Status = StatusFallback
			return Fallback(p.rules, candidate), state, nil
		}

		state.Status = StatusRetrying
		p.sleep(time.Duration(state.Attempt) * p.backoff)
		prompt = BuildRetryPrompt(p.rules, candidate, verr)
		state = State{Status: StatusGenerating, Attempt: state.Attempt + 1, Candidate: candidate, LastErr: verr}
	}
}
