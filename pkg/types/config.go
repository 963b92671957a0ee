package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdfops/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ReplaceConfig holds settings for the bulk replacement stage.
type ReplaceConfig struct {
	// SrcDir is the directory containing input PDFs.
	SrcDir string `json:"src_dir" yaml:"src_dir"`

	// OutDir is the directory for modified copies. When empty, the stage
	// writes under SrcDir/_edited.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// RulesPath is the path to the replacement rules file (JSON or YAML).
	RulesPath string `json:"rules_path" yaml:"rules_path"`

	// Recursive controls whether subdirectories of SrcDir are processed.
	Recursive bool `json:"recursive" yaml:"recursive"`

	// Suffix is appended to each output filename before the .pdf extension
	// (e.g. "_edited").
	Suffix string `json:"suffix" yaml:"suffix"`

	// Include and Exclude are doublestar glob patterns applied to the
	// path of each candidate file relative to SrcDir.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// DryRun scans and counts matches without writing output files.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}

// ExtractConfig holds settings for the text extraction stage.
type ExtractConfig struct {
	// SrcDir is the directory containing input PDFs.
	SrcDir string `json:"src_dir" yaml:"src_dir"`

	// OutDir is the directory for extracted text. When empty, the stage
	// writes under SrcDir/_text.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Recursive controls whether subdirectories of SrcDir are processed.
	Recursive bool `json:"recursive" yaml:"recursive"`

	// Include and Exclude are doublestar glob patterns applied to the
	// path of each candidate file relative to SrcDir.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// Fields enables labeled-amount scraping in addition to plain text.
	Fields bool `json:"fields" yaml:"fields"`

	// FieldLabels lists the label strings to scrape amounts for
	// (e.g. "Net pay", "לתשלום").
	FieldLabels []string `json:"field_labels,omitempty" yaml:"field_labels,omitempty"`
}

// MarkConfig holds settings for the page marking stage.
type MarkConfig struct {
	// SrcDir is the directory containing input PDFs.
	SrcDir string `json:"src_dir" yaml:"src_dir"`

	// OutDir is the directory for marked copies. When empty, marked
	// copies are written next to their inputs.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Recursive controls whether subdirectories of SrcDir are processed.
	Recursive bool `json:"recursive" yaml:"recursive"`

	// Include and Exclude are doublestar glob patterns applied to the
	// path of each candidate file relative to SrcDir.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// Label is the text that selects which pages get stamped.
	Label string `json:"label" yaml:"label"`

	// StampText is the marker stamped onto matching pages.
	StampText string `json:"stamp_text" yaml:"stamp_text"`

	// Suffix is appended to the output filename before the .pdf extension
	// (default "-marked").
	Suffix string `json:"suffix" yaml:"suffix"`
}

// JournalConfig holds settings for the run journal.
type JournalConfig struct {
	// Dir is the directory holding the journal database.
	Dir string `json:"dir" yaml:"dir"`
}

// PublishConfig holds settings for publishing processed PDFs by email.
type PublishConfig struct {
	HTTPConfig `yaml:",inline"`

	// RosterPath is the path to the workers roster JSON file.
	RosterPath string `json:"roster_path" yaml:"roster_path"`

	// Sender is the mailbox the Graph sendMail call is issued for.
	Sender string `json:"sender" yaml:"sender"`

	// MaxRetries is the number of retry attempts for throttled or
	// transient Graph responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Replace ReplaceConfig `json:"replace" yaml:"replace"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Mark    MarkConfig    `json:"mark" yaml:"mark"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Publish PublishConfig `json:"publish" yaml:"publish"`
}
