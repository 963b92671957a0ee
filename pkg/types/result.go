// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FileStatus indicates the outcome of processing one PDF.
type FileStatus string

const (
	// StatusOK means the file was rewritten and at least one rule matched.
	StatusOK FileStatus = "ok"

	// StatusNoMatch means the file was readable but no rule matched;
	// no output is written for it.
	StatusNoMatch FileStatus = "no_match"

	// StatusEncrypted means the file could not be opened without a
	// password and was skipped.
	StatusEncrypted FileStatus = "skipped_encrypted"

	// StatusFailed means the file could not be processed.
	StatusFailed FileStatus = "failed"
)

// FileResult records the outcome of processing one input file.
type FileResult struct {
	// Path is the input file path relative to the source directory.
	Path string `json:"path" yaml:"path"`

	// Status is the processing outcome.
	Status FileStatus `json:"status" yaml:"status"`

	// OutPath is the written output path, empty unless Status is ok.
	OutPath string `json:"out_path,omitempty" yaml:"out_path,omitempty"`

	// Matches is the total number of rule matches rewritten.
	Matches int `json:"matches" yaml:"matches"`

	// SkippedPages counts pages left untouched because their text uses
	// an encoding the rewriter does not edit (hex-written CID strings).
	SkippedPages int `json:"skipped_pages,omitempty" yaml:"skipped_pages,omitempty"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunSummary holds counts from a batch run.
type RunSummary struct {
	Replaced int `json:"replaced" yaml:"replaced"`
	NoMatch  int `json:"no_match" yaml:"no_match"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Total returns the number of files processed.
func (s RunSummary) Total() int {
	return s.Replaced + s.NoMatch + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed processing.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// Add folds one file result into the summary.
func (s *RunSummary) Add(r FileResult) {
	switch r.Status {
	case StatusOK:
		s.Replaced++
	case StatusNoMatch:
		s.NoMatch++
	case StatusEncrypted:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}
