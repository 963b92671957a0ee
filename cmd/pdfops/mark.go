// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfops/internal/mark"
	"github.com/pdiddy/pdfops/pkg/types"
)

var markCmd = &cobra.Command{
	Use:   "mark",
	Short: "Stamp pages whose text contains a label",
	Long: `Mark searches each PDF for pages containing the label text and stamps
those pages with a small overlay marker in the top-right corner. Files
without a matching page produce no output.

With --file a single PDF is marked; otherwise every PDF selected under
--src-dir is processed.`,
	RunE: runMark,
}

func runMark(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		return markSingle(cmd, file)
	}

	srcDir, _ := cmd.Flags().GetString("src-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")
	recursive, _ := cmd.Flags().GetBool("recursive")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	label, _ := cmd.Flags().GetString("label")
	stamp, _ := cmd.Flags().GetString("stamp-text")
	suffix, _ := cmd.Flags().GetString("suffix")

	cfg := types.MarkConfig{
		SrcDir:    srcDir,
		OutDir:    outDir,
		Recursive: recursive,
		Include:   include,
		Exclude:   exclude,
		Label:     label,
		StampText: stamp,
		Suffix:    suffix,
	}

	result, err := mark.Run(cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}

func markSingle(cmd *cobra.Command, file string) error {
	label, _ := cmd.Flags().GetString("label")
	stamp, _ := cmd.Flags().GetString("stamp-text")
	suffix, _ := cmd.Flags().GetString("suffix")
	outDir, _ := cmd.Flags().GetString("out-dir")

	if suffix == "" {
		suffix = "-marked"
	}
	if outDir == "" {
		outDir = filepath.Dir(file)
	}
	base := filepath.Base(file)
	ext := filepath.Ext(base)
	outPath := filepath.Join(outDir, strings.TrimSuffix(base, ext)+suffix+ext)

	pages, err := mark.File(file, outPath, label, stamp)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Printf("no match: %s\n", file)
		return nil
	}
	fmt.Printf("marked: %s (pages %v) -> %s\n", file, pages, outPath)
	return nil
}

func init() {
	markCmd.Flags().String("file", "", "mark a single PDF instead of a directory")
	markCmd.Flags().String("src-dir", ".", "directory containing input PDFs")
	markCmd.Flags().String("out-dir", "", "output directory (default: next to inputs)")
	markCmd.Flags().Bool("recursive", false, "process subdirectories recursively")
	markCmd.Flags().StringSlice("include", nil, "glob patterns for files to include (relative to src-dir)")
	markCmd.Flags().StringSlice("exclude", nil, "glob patterns for files to exclude")
	markCmd.Flags().String("label", "", "text that selects the pages to stamp (required)")
	markCmd.Flags().String("stamp-text", "REVIEW", "marker text stamped onto matching pages")
	markCmd.Flags().String("suffix", "", "output filename suffix (default: -marked)")
	markCmd.MarkFlagRequired("label")

	rootCmd.AddCommand(markCmd)
}
