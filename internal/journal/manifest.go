// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfops/pkg/types"
)

// Manifest is the on-disk record of one batch run, written next to the
// run's outputs. It duplicates the journal row in a form that travels
// with the files, so a directory of edited PDFs documents how it was
// produced even without the database.
type Manifest struct {
	RunID       string             `yaml:"run_id"`
	Stage       string             `yaml:"stage"`
	SrcDir      string             `yaml:"src_dir"`
	OutDir      string             `yaml:"out_dir,omitempty"`
	RulesDigest string             `yaml:"rules_digest,omitempty"`
	Files       []types.FileResult `yaml:"files"`
	Summary     ManifestSummary    `yaml:"summary"`
}

// ManifestSummary stores run statistics and a timestamp.
type ManifestSummary struct {
	Replaced  int       `yaml:"replaced"`
	NoMatch   int       `yaml:"no_match"`
	Skipped   int       `yaml:"skipped"`
	Failed    int       `yaml:"failed"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteManifest saves a run record and its file results to a YAML file.
func WriteManifest(path string, run Run, results []types.FileResult) error {
	m := Manifest{
		RunID:       run.ID,
		Stage:       run.Stage,
		SrcDir:      run.SrcDir,
		OutDir:      run.OutDir,
		RulesDigest: run.RulesDigest,
		Files:       results,
		Summary: ManifestSummary{
			Replaced:  run.Summary.Replaced,
			NoMatch:   run.Summary.NoMatch,
			Skipped:   run.Summary.Skipped,
			Failed:    run.Summary.Failed,
			Timestamp: run.FinishedAt,
		},
	}
	if m.Summary.Timestamp.IsZero() {
		m.Summary.Timestamp = time.Now().UTC()
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously written manifest from disk.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
