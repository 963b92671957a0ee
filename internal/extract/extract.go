// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls plain text and labeled amounts out of PDF files.
// It reads documents with ledongthuc/pdf, which exposes positioned glyph
// runs; the field scraper reassembles those into rows and words.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfops/internal/scan"
	"github.com/pdiddy/pdfops/pkg/types"
)

// textDir is the default output subdirectory under the source dir.
const textDir = "_text"

// BatchResult holds the outcome of a batch extraction run.
type BatchResult struct {
	Extracted int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Failed
}

// HasFailures reports whether any file failed extraction.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Text returns the whole document as plain text.
func Text(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rd, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return "", fmt.Errorf("reading text from %s: %w", path, err)
	}
	return buf.String(), nil
}

// Run extracts every PDF selected by cfg, writing one .txt per input
// under the output directory (default <src>/_text) and, with Fields set,
// one .yaml of scraped fields per input. Per-file status lines and a
// summary go to w.
func Run(cfg types.ExtractConfig, w io.Writer) (BatchResult, error) {
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = filepath.Join(cfg.SrcDir, textDir)
	}

	files, err := scan.Files(cfg.SrcDir, cfg.Recursive, cfg.Include, cfg.Exclude)
	if err != nil {
		return BatchResult{}, err
	}
	if len(files) == 0 {
		return BatchResult{}, fmt.Errorf("no PDF files found in %s", cfg.SrcDir)
	}

	var result BatchResult
	for _, rel := range files {
		if err := extractOne(cfg, rel, outDir); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", rel, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "extracted: %s\n", rel)
		result.Extracted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d)\n",
		result.Extracted, result.Failed, result.Total())
	return result, nil
}

func extractOne(cfg types.ExtractConfig, rel, outDir string) error {
	inPath := filepath.Join(cfg.SrcDir, filepath.FromSlash(rel))

	text, err := Text(inPath)
	if err != nil {
		return err
	}

	base := scan.OutputPath(outDir, rel, "")
	txtPath := strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	if err := os.MkdirAll(filepath.Dir(txtPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", txtPath, err)
	}

	if !cfg.Fields {
		return nil
	}

	fields, err := Fields(inPath, cfg.FieldLabels)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshaling fields: %w", err)
	}
	yamlPath := strings.TrimSuffix(txtPath, ".txt") + ".yaml"
	if err := os.WriteFile(yamlPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", yamlPath, err)
	}
	return nil
}
