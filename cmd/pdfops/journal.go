// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfops/internal/journal"
	"github.com/pdiddy/pdfops/pkg/types"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded batch runs (list, show, prune)",
	Long: `Journal manages the local run journal. Every modifying batch is
recorded with its per-file results; use subcommands to list recent
runs, show one run in detail, or prune old records.`,
}

// --- list subcommand ---

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runJournalList,
}

func runJournalList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-8s  %-19s  %-30s  %s\n",
		"Run", "Stage", "Started", "Source", "Summary")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		src := r.SrcDir
		if len(src) > 30 {
			src = "..." + src[len(src)-27:]
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-8s  %-19s  %-30s  %d ok, %d no match, %d skipped, %d failed\n",
			r.ID[:8], r.Stage, r.StartedAt.Local().Format("2006-01-02 15:04:05"), src,
			r.Summary.Replaced, r.Summary.NoMatch, r.Summary.Skipped, r.Summary.Failed)
	}
	return nil
}

// --- show subcommand ---

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its per-file results",
	Long: `Show prints a run's header and every file it touched. The run may be
identified by a unique prefix of its ID.`,
	Args: cobra.ExactArgs(1),
	RunE: runJournalShow,
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, files, err := store.ShowRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Run   journal.Run        `json:"run"`
			Files []types.FileResult `json:"files"`
		}{run, files})
	}

	fmt.Fprintf(os.Stdout, "Run:      %s\n", run.ID)
	fmt.Fprintf(os.Stdout, "Stage:    %s\n", run.Stage)
	fmt.Fprintf(os.Stdout, "Source:   %s\n", run.SrcDir)
	fmt.Fprintf(os.Stdout, "Output:   %s\n", run.OutDir)
	if run.RulesDigest != "" {
		fmt.Fprintf(os.Stdout, "Rules:    sha256:%s\n", run.RulesDigest)
	}
	fmt.Fprintf(os.Stdout, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "Finished: %s\n", run.FinishedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "Summary:  %d ok, %d no match, %d skipped, %d failed\n\n",
		run.Summary.Replaced, run.Summary.NoMatch, run.Summary.Skipped, run.Summary.Failed)

	for _, f := range files {
		switch f.Status {
		case types.StatusOK:
			fmt.Fprintf(os.Stdout, "  %-18s %s (%d matches)\n", f.Status, f.Path, f.Matches)
		case types.StatusFailed:
			fmt.Fprintf(os.Stdout, "  %-18s %s (%s)\n", f.Status, f.Path, f.Error)
		default:
			fmt.Fprintf(os.Stdout, "  %-18s %s\n", f.Status, f.Path)
		}
	}
	return nil
}

// --- prune subcommand ---

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest runs",
	RunE:  runJournalPrune,
}

func runJournalPrune(cmd *cobra.Command, args []string) error {
	keep, _ := cmd.Flags().GetInt("keep")

	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(context.Background(), keep)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d run(s), kept the newest %d.\n", removed, keep)
	return nil
}

// --- shared helpers ---

func openJournal(cmd *cobra.Command) (*journal.Store, error) {
	dir, _ := cmd.Flags().GetString("journal-dir")
	return journal.Open(types.JournalConfig{Dir: dir})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	journalCmd.PersistentFlags().String("journal-dir", "journal", "directory holding the run journal")

	journalListCmd.Flags().Int("limit", 20, "maximum runs to list")
	journalShowCmd.Flags().Bool("json", false, "output the run as JSON")
	journalPruneCmd.Flags().Int("keep", 10, "number of newest runs to keep")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalPruneCmd)

	rootCmd.AddCommand(journalCmd)
}
