// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mark stamps a marker onto the pages of a PDF that contain a
// given label. The predecessor workflow used this to flag the net-pay
// page of each salary slip before filing; the stamp is an overlay
// watermark, so the underlying page is untouched.
package mark

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/pdfops/internal/scan"
	"github.com/pdiddy/pdfops/pkg/types"
)

// markedSuffix is the default output filename suffix.
const markedSuffix = "-marked"

// BatchResult holds the outcome of a batch marking run.
type BatchResult struct {
	Marked  int
	NoMatch int
	Failed  int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Marked + r.NoMatch + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run stamps every PDF selected by cfg whose text contains cfg.Label,
// writing marked copies with the configured suffix (default "-marked").
// When cfg.OutDir is empty, marked copies land next to their inputs.
// Per-file status lines and a summary go to w.
func Run(cfg types.MarkConfig, w io.Writer) (BatchResult, error) {
	if cfg.Label == "" {
		return BatchResult{}, fmt.Errorf("no label to search for")
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = cfg.SrcDir
	}
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = markedSuffix
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
		inPath := filepath.Join(cfg.SrcDir, filepath.FromSlash(rel))
		outPath := scan.OutputPath(outDir, rel, suffix)

		pages, err := File(inPath, outPath, cfg.Label, cfg.StampText)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", rel, err)
			result.Failed++
		case len(pages) == 0:
			fmt.Fprintf(w, "no match: %s\n", rel)
			result.NoMatch++
		default:
			fmt.Fprintf(w, "marked: %s (pages %v)\n", rel, pages)
			result.Marked++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d marked, %d without matches, %d failed (total: %d)\n",
		result.Marked, result.NoMatch, result.Failed, result.Total())
	return result, nil
}
