// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfops/internal/extract"
	"github.com/pdiddy/pdfops/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract plain text and labeled fields from PDF files",
	Long: `Extract writes one .txt file per input PDF under the output directory
(default <src-dir>/_text). With --fields it also scrapes labeled amounts
(e.g. the figure next to "Net pay") into a .yaml file per input.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	srcDir, _ := cmd.Flags().GetString("src-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")
	recursive, _ := cmd.Flags().GetBool("recursive")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	fields, _ := cmd.Flags().GetBool("fields")
	labels, _ := cmd.Flags().GetStringSlice("label")

	// Labels may also live in the config file (extract.field_labels).
	if len(labels) == 0 {
		labels = viper.GetStringSlice("extract.field_labels")
	}
	if fields && len(labels) == 0 {
		return fmt.Errorf("--fields requires at least one --label (or extract.field_labels in the config file)")
	}

	cfg := types.ExtractConfig{
		SrcDir:      srcDir,
		OutDir:      outDir,
		Recursive:   recursive,
		Include:     include,
		Exclude:     exclude,
		Fields:      fields,
		FieldLabels: labels,
	}

	result, err := extract.Run(cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("src-dir", ".", "directory containing input PDFs")
	extractCmd.Flags().String("out-dir", "", "output directory (default: <src-dir>/_text)")
	extractCmd.Flags().Bool("recursive", false, "process subdirectories recursively")
	extractCmd.Flags().StringSlice("include", nil, "glob patterns for files to include (relative to src-dir)")
	extractCmd.Flags().StringSlice("exclude", nil, "glob patterns for files to exclude")
	extractCmd.Flags().Bool("fields", false, "also scrape labeled amounts into a .yaml per input")
	extractCmd.Flags().StringSlice("label", nil, "label to scrape amounts for (repeatable)")

	rootCmd.AddCommand(extractCmd)
}
