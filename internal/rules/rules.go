// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rules holds the Conventional Commit grammar configuration:
// the commit-type vocabulary, scope pattern, length limits, footer
// prefix vocabulary, and the policy for un-prefixed footer lines.
// Rules are read-only after Load; the grammar functions in
// internal/message take them by pointer and never mutate them.
package rules

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// FooterPolicy decides what happens to footer lines that do not start
// with a recognized prefix.
type FooterPolicy string

const (
	// FooterPolicyDrop discards un-prefixed footer lines.
	FooterPolicyDrop FooterPolicy = "drop"
	// FooterPolicyRefs keeps un-prefixed footer lines by prefixing
	// them with "Refs:". This is the default: dropping model output
	// silently would lose information the audit trail is meant to keep.
	FooterPolicyRefs FooterPolicy = "refs"
)

// DefaultConfigFile is the optional per-repository rules file.
const DefaultConfigFile = ".commitron.yaml"

// Rules is the grammar configuration for parsing, validating and
// re-formatting commit messages.
type Rules struct {
	Types          []string     `yaml:"types"`
	ScopePattern   string       `yaml:"scope_pattern"`
	MaxTitleLength int          `yaml:"max_title_length"`
	MaxBodyWidth   int          `yaml:"max_body_width"`
	FooterPrefixes []string     `yaml:"footer_prefixes"`
	FooterPolicy   FooterPolicy `yaml:"footer_policy"`

	// FallbackType is the type token the deterministic fallback coerces
	// an unrecognizable type to.
	FallbackType string `yaml:"fallback_type"`

	// Generation settings, overridable per repository.
	Model       string  `yaml:"model"`
	Retries     int     `yaml:"retries"`
	Temperature float32 `yaml:"temperature"`

	scopeRE *regexp.Regexp
}

// Default returns the built-in rules, already validated.
func Default() *Rules {
	r := &Rules{
		Types: []string{
			"build", "ci", "chore", "docs", "feat", "fix",
			"perf", "refactor", "revert", "style", "test", "security",
		},
		ScopePattern:   "^[a-z0-9-]+$",
		MaxTitleLength: 50,
		MaxBodyWidth:   72,
		FooterPrefixes: []string{"Refs:", "Closes:", "BREAKING CHANGE:"},
		FooterPolicy:   FooterPolicyRefs,
		FallbackType:   "chore",
		Model:          "gpt-4o-mini",
		Retries:        3,
		Temperature:    0.3,
	}
	if err := r.Validate(); err != nil {
		panic(fmt.Sprintf("default rules invalid: %v", err))
	}
	return r
}

// Load reads a rules file and merges it over the defaults. A missing
// file is not an error; the defaults are returned unchanged.
func Load(path string) (*Rules, error) {
	r := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing rules YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules in %s: %w", path, err)
	}
	return r, nil
}

// Validate checks the configuration and compiles the scope pattern.
func (r *Rules) Validate() error {
	if len(r.Types) == 0 {
		return fmt.Errorf("types must not be empty")
	}
	for i, t := range r.Types {
		if t == "" {
			return fmt.Errorf("type at index %d is empty", i)
		}
	}
	if r.MaxTitleLength <= 0 {
		return fmt.Errorf("max_title_length must be positive, got %d", r.MaxTitleLength)
	}
	if r.MaxBodyWidth <= 0 {
		return fmt.Errorf("max_body_width must be positive, got %d", r.MaxBodyWidth)
	}
	switch r.FooterPolicy {
	case FooterPolicyDrop, FooterPolicyRefs:
	default:
		return fmt.Errorf("footer_policy must be %q or %q, got %q",
			FooterPolicyDrop, FooterPolicyRefs, r.FooterPolicy)
	}
	if !r.HasType(r.FallbackType) {
		return fmt.Errorf("fallback_type %q is not in the type vocabulary", r.FallbackType)
	}
	if r.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", r.Retries)
	}

	re, err := regexp.Compile(r.ScopePattern)
	if err != nil {
		return fmt.Errorf("compiling scope_pattern: %w", err)
	}
	r.scopeRE = re
	return nil
}

// HasType reports whether t is a member of the type vocabulary.
// Membership is case-sensitive.
func (r *Rules) HasType(t string) bool {
	for _, known := range r.Types {
		if t == known {
			return true
		}
	}
	return false
}

// ScopeValid reports whether s matches the configured scope pattern.
func (r *Rules) ScopeValid(s string) bool {
	return r.scopeRE.MatchString(s)
}

// FooterPrefix returns the recognized prefix that line starts with,
// or "" if the line is un-prefixed.
func (r *Rules) FooterPrefix(line string) string {
	for _, p := range r.FooterPrefixes {
		if len(line) >= len(p) && line[:len(p)] == p {
			return p
		}
	}
	return ""
}
