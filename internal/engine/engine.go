// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine implements bulk text replacement across a directory tree
// of PDF files. Replacement happens inside the page content streams: the
// string operands of the text-showing operators are rewritten, so the
// original layout, fonts, and sizes are preserved in the modified copy.
package engine

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/pdfops/internal/scan"
	"github.com/pdiddy/pdfops/pkg/types"
)

// editedDir is the default output subdirectory under the source dir.
const editedDir = "_edited"

// ErrNoFiles is returned when the source directory holds no PDFs after
// filtering.
var ErrNoFiles = errors.New("no PDF files found")

// Run processes every PDF selected by cfg through the rule set, printing
// one status line per file and a closing summary to w. The returned
// results are in processing order and feed the journal and the manifest.
func Run(cfg types.ReplaceConfig, rs *types.RuleSet, w io.Writer) ([]types.FileResult, types.RunSummary, error) {
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = filepath.Join(cfg.SrcDir, editedDir)
	}

	files, err := scan.Files(cfg.SrcDir, cfg.Recursive, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, types.RunSummary{}, err
	}
	if len(files) == 0 {
		return nil, types.RunSummary{}, ErrNoFiles
	}

	compiled, skippedRules := compileRules(rs.Replacements)
	for _, old := range skippedRules {
		fmt.Fprintf(w, "warning: rule %q skipped: not representable in simple-font strings\n", old)
	}
	if len(compiled) == 0 {
		return nil, types.RunSummary{}, fmt.Errorf("no usable replacement rules")
	}

	var (
		results []types.FileResult
		summary types.RunSummary
	)
	for _, rel := range files {
		r := processFile(cfg.SrcDir, outDir, rel, cfg.Suffix, compiled, cfg.DryRun)
		reportFile(w, r, cfg.DryRun)
		results = append(results, r)
		summary.Add(r)
	}

	fmt.Fprintf(w, "\nBatch summary: %d replaced, %d without matches, %d skipped, %d failed (total: %d)\n",
		summary.Replaced, summary.NoMatch, summary.Skipped, summary.Failed, summary.Total())
	return results, summary, nil
}

// processFile rewrites a single input file and maps the outcome onto a
// FileResult.
func processFile(srcDir, outDir, rel, suffix string, rules []byteRule, dryRun bool) types.FileResult {
	inPath := filepath.Join(srcDir, filepath.FromSlash(rel))
	outPath := scan.OutputPath(outDir, rel, suffix)

	outcome, err := rewriteFile(inPath, outPath, rules, dryRun)
	switch {
	case isEncrypted(err):
		return types.FileResult{Path: rel, Status: types.StatusEncrypted}
	case err != nil:
		return types.FileResult{Path: rel, Status: types.StatusFailed, Error: err.Error()}
	case outcome.matches == 0:
		return types.FileResult{Path: rel, Status: types.StatusNoMatch, SkippedPages: outcome.skippedPages}
	}

	r := types.FileResult{
		Path:         rel,
		Status:       types.StatusOK,
		Matches:      outcome.matches,
		SkippedPages: outcome.skippedPages,
	}
	if !dryRun {
		r.OutPath = outPath
	}
	return r
}

// reportFile prints the per-file status line in the batch log style.
func reportFile(w io.Writer, r types.FileResult, dryRun bool) {
	switch r.Status {
	case types.StatusOK:
		verb := "replaced"
		if dryRun {
			verb = "matched"
		}
		fmt.Fprintf(w, "%s: %s (%d matches)\n", verb, r.Path, r.Matches)
	case types.StatusNoMatch:
		fmt.Fprintf(w, "no match: %s\n", r.Path)
	case types.StatusEncrypted:
		fmt.Fprintf(w, "skipped: %s (encrypted)\n", r.Path)
	case types.StatusFailed:
		fmt.Fprintf(w, "failed:  %s (%s)\n", r.Path, r.Error)
	}
}
