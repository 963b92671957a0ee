// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules loads and validates replacement rule files.
//
// The canonical format is the JSON the predecessor tooling used:
//
//	{"replacements": [{"old": "4704.32", "new": "2723.00"}, ...]}
//
// YAML files with the same shape are accepted as well. Rules are applied
// in file order, so earlier rules see the original text and later rules
// see the output of earlier ones.
package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfops/pkg/types"
)

// Load reads a rule set from path. The format is chosen by extension:
// .yaml/.yml parse as YAML, everything else as JSON.
func Load(path string) (*types.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var rs types.RuleSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rs); err != nil {
			return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &rs); err != nil {
			return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
		}
	}

	if err := Validate(&rs); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return &rs, nil
}

// Digest returns the hex SHA-256 of the rules file, recorded in the
// journal so a run can be tied to the exact rules that produced it.
func Digest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading rules file: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Validate checks a rule set for the errors that would make a batch run
// meaningless: no rules at all, a rule with an empty search string, or two
// rules competing for the same search string.
func Validate(rs *types.RuleSet) error {
	if len(rs.Replacements) == 0 {
		return fmt.Errorf("replacements list is empty")
	}

	seen := make(map[string]int, len(rs.Replacements))
	for i, r := range rs.Replacements {
		if r.Old == "" {
			return fmt.Errorf("replacement %d has an empty old string", i)
		}
		if prev, dup := seen[r.Old]; dup {
			return fmt.Errorf("replacements %d and %d both match %q", prev, i, r.Old)
		}
		seen[r.Old] = i
	}
	return nil
}
