// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfops/internal/engine"
	"github.com/pdiddy/pdfops/internal/journal"
	"github.com/pdiddy/pdfops/internal/rules"
	"github.com/pdiddy/pdfops/pkg/types"
)

// errBadSrcDir marks an unusable source directory (exit code 2).
var errBadSrcDir = errors.New("bad source directory")

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Replace text across a directory of PDF files",
	Long: `Replace rewrites literal text inside the page content streams of every
PDF under the source directory, per an ordered list of old/new rules.
Layout, fonts, and sizes are preserved; files without matches produce
no output. Encrypted files are skipped.

The rules file is JSON ({"replacements": [{"old": ..., "new": ...}]})
or YAML with the same shape. Each run is recorded in the journal and a
run manifest is written next to the outputs.`,
	RunE: runReplace,
}

func runReplace(cmd *cobra.Command, args []string) error {
	cfg := replaceConfigFromFlags(cmd)

	info, err := os.Stat(cfg.SrcDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", errBadSrcDir, cfg.SrcDir)
	}

	rs, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return err
	}
	digest, err := rules.Digest(cfg.RulesPath)
	if err != nil {
		return err
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = filepath.Join(cfg.SrcDir, "_edited")
	}
	run := journal.NewRun("replace", cfg.SrcDir, outDir, digest)

	results, summary, err := engine.Run(cfg, rs, os.Stdout)
	if err != nil {
		return err
	}
	run.Summary = summary

	if !cfg.DryRun {
		recordRun(cmd, run, results)
		manifestPath := filepath.Join(outDir, "run.yaml")
		if err := journal.WriteManifest(manifestPath, run, results); err != nil {
			fmt.Fprintf(os.Stderr, "warning: manifest write failed: %v\n", err)
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed", summary.Failed)
	}
	return nil
}

func replaceConfigFromFlags(cmd *cobra.Command) types.ReplaceConfig {
	srcDir, _ := cmd.Flags().GetString("src-dir")
	rulesPath, _ := cmd.Flags().GetString("config")
	outDir, _ := cmd.Flags().GetString("out-dir")
	recursive, _ := cmd.Flags().GetBool("recursive")
	suffix, _ := cmd.Flags().GetString("suffix")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	return types.ReplaceConfig{
		SrcDir:    srcDir,
		OutDir:    outDir,
		RulesPath: rulesPath,
		Recursive: recursive,
		Suffix:    suffix,
		Include:   include,
		Exclude:   exclude,
		DryRun:    dryRun,
	}
}

// recordRun writes the run to the journal; a journal failure must not
// discard an otherwise finished batch, so it only warns.
func recordRun(cmd *cobra.Command, run journal.Run, results []types.FileResult) {
	journalDir, _ := cmd.Flags().GetString("journal-dir")
	store, err := journal.Open(types.JournalConfig{Dir: journalDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal open failed: %v\n", err)
		return
	}
	defer store.Close()
	if err := store.Record(context.Background(), run, results); err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal record failed: %v\n", err)
	}
}

func init() {
	replaceCmd.Flags().String("src-dir", ".", "directory containing input PDFs")
	replaceCmd.Flags().String("config", "replacements.json", "replacement rules file (JSON or YAML)")
	replaceCmd.Flags().String("out-dir", "", "output directory (default: <src-dir>/_edited)")
	replaceCmd.Flags().Bool("recursive", false, "process subdirectories recursively")
	replaceCmd.Flags().String("suffix", "", "suffix appended to output filenames before .pdf")
	replaceCmd.Flags().StringSlice("include", nil, "glob patterns for files to include (relative to src-dir)")
	replaceCmd.Flags().StringSlice("exclude", nil, "glob patterns for files to exclude")
	replaceCmd.Flags().Bool("dry-run", false, "count matches without writing output")
	replaceCmd.Flags().String("journal-dir", "journal", "directory holding the run journal")

	rootCmd.AddCommand(replaceCmd)
}
