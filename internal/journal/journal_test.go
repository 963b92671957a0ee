// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/pdfops/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.JournalConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testResults() []types.FileResult {
	return []types.FileResult{
		{Path: "a.pdf", Status: types.StatusOK, OutPath: "out/a_edited.pdf", Matches: 3},
		{Path: "b.pdf", Status: types.StatusNoMatch},
		{Path: "c.pdf", Status: types.StatusFailed, Error: "validating c.pdf: corrupt xref"},
	}
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := NewRun("replace", "in", "out", "abc123")
	first.Summary = types.RunSummary{Replaced: 1, NoMatch: 1, Failed: 1}
	if err := s.Record(ctx, first, testResults()); err != nil {
		t.Fatal(err)
	}

	second := NewRun("replace", "in", "out", "abc123")
	second.StartedAt = first.StartedAt.Add(time.Minute)
	if err := s.Record(ctx, second, nil); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != second.ID {
		t.Errorf("newest run first: got %s, want %s", runs[0].ID, second.ID)
	}
	if runs[1].Summary.Replaced != 1 || runs[1].Summary.Failed != 1 {
		t.Errorf("summary did not round-trip: %+v", runs[1].Summary)
	}
	if runs[1].RulesDigest != "abc123" {
		t.Errorf("rules digest = %q, want abc123", runs[1].RulesDigest)
	}
}

func TestShowRunByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := NewRun("replace", "in", "out", "")
	run.Summary = types.RunSummary{Replaced: 1, NoMatch: 1, Failed: 1}
	if err := s.Record(ctx, run, testResults()); err != nil {
		t.Fatal(err)
	}

	got, files, err := s.ShowRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != run.ID {
		t.Errorf("ID = %s, want %s", got.ID, run.ID)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	byPath := map[string]types.FileResult{}
	for _, f := range files {
		byPath[f.Path] = f
	}
	if byPath["a.pdf"].Matches != 3 || byPath["a.pdf"].OutPath != "out/a_edited.pdf" {
		t.Errorf("a.pdf did not round-trip: %+v", byPath["a.pdf"])
	}
	if byPath["c.pdf"].Status != types.StatusFailed || byPath["c.pdf"].Error == "" {
		t.Errorf("c.pdf did not round-trip: %+v", byPath["c.pdf"])
	}
}

func TestShowRunErrors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.Record(ctx, NewRun("replace", "in", "out", ""), nil); err != nil {
			t.Fatal(err)
		}
	}

	if _, _, err := s.ShowRun(ctx, "no-such-run"); err == nil {
		t.Error("expected error for unknown id")
	}
	// The empty prefix matches every run.
	if _, _, err := s.ShowRun(ctx, ""); err == nil {
		t.Error("expected ambiguity error")
	}
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	var newest Run
	for i := 0; i < 3; i++ {
		run := NewRun("replace", "in", "out", "")
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Record(ctx, run, testResults()); err != nil {
			t.Fatal(err)
		}
		newest = run
	}

	removed, err := s.Prune(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != newest.ID {
		t.Errorf("runs after prune = %+v, want only newest", runs)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	run := NewRun("replace", "in", "out", "abc123")
	run.Summary = types.RunSummary{Replaced: 1, NoMatch: 1, Failed: 1}
	run.FinishedAt = time.Now().UTC()

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := WriteManifest(path, run, testResults()); err != nil {
		t.Fatal(err)
	}

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.RunID != run.ID || m.Stage != "replace" || m.RulesDigest != "abc123" {
		t.Errorf("manifest header did not round-trip: %+v", m)
	}
	if len(m.Files) != 3 || m.Files[0].Matches != 3 {
		t.Errorf("manifest files did not round-trip: %+v", m.Files)
	}
	if m.Summary.Replaced != 1 || m.Summary.Timestamp.IsZero() {
		t.Errorf("manifest summary did not round-trip: %+v", m.Summary)
	}
}
