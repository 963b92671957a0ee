// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mark

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/pdfops/pkg/types"
)

// writeFixturePDF builds a PDF with one page per text argument.
func writeFixturePDF(t *testing.T, path string, pages ...string) {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Text(72, 72, text)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatal(err)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "slip.pdf")
	writeFixturePDF(t, in,
		"cover page",
		"Net pay 3495.00",
		"appendix",
		"Net pay correction 12.00",
	)

	out := filepath.Join(dir, "slip-marked.pdf")
	pages, err := File(in, out, "Net pay", "COPY")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || pages[0] != 2 || pages[1] != 4 {
		t.Fatalf("pages = %v, want [2 4]", pages)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected marked output: %v", err)
	}
}

func TestFileNoMatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "plain.pdf")
	writeFixturePDF(t, in, "nothing relevant")

	out := filepath.Join(dir, "plain-marked.pdf")
	pages, err := File(in, out, "Net pay", "COPY")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 0 {
		t.Fatalf("pages = %v, want none", pages)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output expected for file without matching pages")
	}
}

func TestRun(t *testing.T) {
	src := t.TempDir()
	writeFixturePDF(t, filepath.Join(src, "a.pdf"), "Net pay 3495.00")
	writeFixturePDF(t, filepath.Join(src, "sub", "b.pdf"), "Net pay 2723.00")
	writeFixturePDF(t, filepath.Join(src, "c.pdf"), "unrelated")
	if err := os.WriteFile(filepath.Join(src, "broken.pdf"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "marked")
	cfg := types.MarkConfig{
		SrcDir:    src,
		OutDir:    out,
		Recursive: true,
		Label:     "Net pay",
		StampText: "PAID",
	}

	var log bytes.Buffer
	result, err := Run(cfg, &log)
	if err != nil {
		t.Fatal(err)
	}
	if result.Marked != 2 || result.NoMatch != 1 || result.Failed != 1 {
		t.Fatalf("result = %+v, want 2 marked, 1 no match, 1 failed", result)
	}

	// Output tree mirrors the input tree with the default suffix.
	for _, p := range []string{
		filepath.Join(out, "a-marked.pdf"),
		filepath.Join(out, "sub", "b-marked.pdf"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected output at %s: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "c-marked.pdf")); err == nil {
		t.Error("no output expected for file without matches")
	}

	for _, want := range []string{"marked: a.pdf (pages [1])", "no match: c.pdf", "failed:  broken.pdf", "Batch summary:"} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("log missing %q:\n%s", want, log.String())
		}
	}
}

func TestRunNoLabel(t *testing.T) {
	var log bytes.Buffer
	if _, err := Run(types.MarkConfig{SrcDir: t.TempDir()}, &log); err == nil {
		t.Fatal("expected error for empty label")
	}
}
