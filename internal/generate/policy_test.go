// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/commitron/internal/message"
	"github.com/bartekus/commitron/internal/rules"
)

// scriptedGenerator replays canned outputs and errors, one per call,
// and records every prompt it was given.
type scriptedGenerator struct {
	outputs []string
	errs    []error
	prompts []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	var out string
	if i < len(g.outputs) {
		out = g.outputs[i]
	}
	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	return out, err
}

func newTestPolicy(r *rules.Rules, gen Generator, sleeps *[]time.Duration) *Policy {
	return NewPolicy(r, gen,
		WithBackoff(time.Millisecond),
		WithSleep(func(d time.Duration) { *sleeps = append(*sleeps, d) }),
	)
}

func TestPolicy_AcceptsFirstCandidate(t *testing.T) {
	r := rules.Default()
	gen := &scriptedGenerator{outputs: []string{"feat: add parser\n\nExplain the change."}}
	var sleeps []time.Duration

	msg, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff text")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, state.Status)
	assert.Equal(t, 1, state.Attempt)
	assert.Equal(t, "feat: Add parser", msg.Title)
	assert.Len(t, gen.prompts, 1)
	assert.Empty(t, sleeps, "no backoff on a clean first attempt")
}

func TestPolicy_StripsCodeFences(t *testing.T) {
	r := rules.Default()
	gen := &scriptedGenerator{outputs: []string{"```\nfeat: add parser\n```"}}
	var sleeps []time.Duration

	msg, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, state.Status)
	assert.Equal(t, "feat: Add parser", msg.Title)
}

func TestPolicy_RetriesOnGrammarFailure(t *testing.T) {
	r := rules.Default()
	gen := &scriptedGenerator{outputs: []string{"no separator here", "feat: add parser"}}
	var sleeps []time.Duration

	msg, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, state.Status)
	assert.Equal(t, 2, state.Attempt)
	assert.Equal(t, "feat: Add parser", msg.Title)

	require.Len(t, gen.prompts, 2)
	// The corrective prompt names the failure and carries the prior candidate.
	assert.Contains(t, gen.prompts[1], "no separator here")
	assert.Contains(t, gen.prompts[1], "must contain ':'")
	assert.Equal(t, []time.Duration{time.Millisecond}, sleeps)
}

func TestPolicy_LinearBackoff(t *testing.T) {
	r := rules.Default()
	require.Equal(t, 3, r.Retries)
	gen := &scriptedGenerator{outputs: []string{"bad", "still bad", "feat: add parser"}}
	var sleeps []time.Duration

	_, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, state.Status)
	assert.Equal(t, []time.Duration{1 * time.Millisecond, 2 * time.Millisecond}, sleeps)
}

func TestPolicy_FallbackAfterBudget(t *testing.T) {
	r := rules.Default()
	r.Retries = 2
	gen := &scriptedGenerator{outputs: []string{"FEAT: Add Parser", "FEAT: Add Parser"}}
	var sleeps []time.Duration

	msg, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
	require.NoError(t, err)
	assert.Equal(t, StatusFallback, state.Status)
	require.NotNil(t, state.LastErr)
	assert.Equal(t, message.KindTypeCase, state.LastErr.Kind)

	assert.Equal(t, "feat: Add Parser", msg.Title)
	assert.Contains(t, msg.Description, "Original title: FEAT: Add Parser")
}

func TestPolicy_FallbackIsDeterministic(t *testing.T) {
	r := rules.Default()
	r.Retries = 2

	run := func() *message.CommitMessage {
		gen := &scriptedGenerator{outputs: []string{"Wip(My API): Change All The Things In Every Single Place At Once", "Wip(My API): Change All The Things In Every Single Place At Once"}}
		var sleeps []time.Duration
		msg, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
		require.NoError(t, err)
		require.Equal(t, StatusFallback, state.Status)
		return msg
	}
	assert.Equal(t, run(), run())
}

func TestPolicy_GeneratorErrorRetriedThenAccepted(t *testing.T) {
	r := rules.Default()
	gen := &scriptedGenerator{
		outputs: []string{"", "feat: add parser"},
		errs:    []error{fmt.Errorf("connection reset"), nil},
	}
	var sleeps []time.Duration

	msg, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, state.Status)
	assert.Equal(t, 2, state.Attempt)
	assert.Equal(t, "feat: Add parser", msg.Title)
	// Same prompt on a pure communication retry, no correction to make.
	assert.Equal(t, gen.prompts[0], gen.prompts[1])
}

func TestPolicy_GeneratorErrorOnEveryAttempt(t *testing.T) {
	r := rules.Default()
	boom := fmt.Errorf("upstream unavailable")
	gen := &scriptedGenerator{errs: []error{boom, boom, boom}}
	var sleeps []time.Duration

	_, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
	require.Error(t, err)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, 3, genErr.Attempts)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, gen.prompts, 3)
	assert.NotEqual(t, StatusFallback, state.Status)
}

func TestPolicy_GeneratorErrorOnFinalAttemptRepairsLastCandidate(t *testing.T) {
	r := rules.Default()
	r.Retries = 2
	gen := &scriptedGenerator{
		outputs: []string{"wip: rework everything", ""},
		errs:    []error{nil, fmt.Errorf("timeout")},
	}
	var sleeps []time.Duration

	msg, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
	require.NoError(t, err)
	assert.Equal(t, StatusFallback, state.Status)
	assert.Equal(t, "chore: Rework everything", msg.Title)
	assert.Contains(t, msg.Description, "Original title: wip: rework everything")
}

func TestPolicy_EmptyCandidateNotRetried(t *testing.T) {
	r := rules.Default()
	gen := &scriptedGenerator{outputs: []string{""}}
	var sleeps []time.Duration

	_, state, err := newTestPolicy(r, gen, &sleeps).Run(context.Background(), "diff")
	require.Error(t, err)

	var verr *message.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, message.KindEmptyInput, verr.Kind)
	assert.Len(t, gen.prompts, 1, "empty output is not correctable by re-prompting")
	assert.NotEqual(t, StatusFallback, state.Status)
	assert.Empty(t, sleeps)
}
