// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Rule is a single text replacement: every occurrence of Old becomes New.
// An empty New deletes the match.
type Rule struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// RuleSet is the on-disk replacement configuration. Producers of the
// legacy JSON format carry extra layout keys (pad, slack, fs_min, fs_max);
// those applied to the overlay renderer of the predecessor scripts and are
// ignored here, since rewriting text operators in place preserves layout.
type RuleSet struct {
	Replacements []Rule `json:"replacements" yaml:"replacements"`
}
