// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/commitron/cmd/commitron/internal/clierr"
)

// execute runs the root command with args and returns stdout, stderr
// and the execution error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeMessageFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheck_ValidFile(t *testing.T) {
	path := writeMessageFile(t, "feat: add the title checker\n\nExplain why.\n")

	out, _, err := execute(t, "", "check", path)
	require.NoError(t, err)
	assert.Equal(t, "feat: Add the title checker\n\nExplain why.\n", out)
}

func TestCheck_Stdin(t *testing.T) {
	out, _, err := execute(t, "fix(parser): handle empty scope\n", "check")
	require.NoError(t, err)
	assert.Equal(t, "fix(parser): Handle empty scope\n", out)
}

func TestCheck_InvalidMessage(t *testing.T) {
	path := writeMessageFile(t, "no separator here\n")

	_, _, err := execute(t, "", "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid commit message")
	assert.Equal(t, clierr.CodeGeneric, clierr.ExitCodeOf(err))
}

func TestCheck_MissingFile(t *testing.T) {
	_, _, err := execute(t, "", "check", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
}

func TestCheck_WriteRewritesFile(t *testing.T) {
	path := writeMessageFile(t, "feat: add thing.\n")

	out, _, err := execute(t, "", "check", "--write", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "feat: Add thing\n", string(data))
}

func TestCheck_CustomRulesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("types: [feat]\nfallback_type: feat\n"), 0o644))

	// "docs" is outside the narrowed vocabulary.
	path := writeMessageFile(t, "docs: update readme\n")
	_, _, err := execute(t, "", "check", "--config", cfg, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"docs"`)
}

func TestCheck_BadRulesFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("footer_policy: keep\n"), 0o644))

	_, _, err := execute(t, "", "check", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Commitron version")
}
