// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/pdfops/pkg/types"
)

// line places text at an explicit position on the current page.
type line struct {
	x, y float64
	s    string
}

// writeFixturePDF builds a PDF with one page per group of lines.
func writeFixturePDF(t *testing.T, path string, pages ...[]line) {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, pg := range pages {
		doc.AddPage()
		for _, l := range pg {
			doc.Text(l.x, l.y, l.s)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatal(err)
	}
}

func TestText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	writeFixturePDF(t, path, []line{
		{72, 72, "Salary slip 7-2025"},
		{72, 96, "Net pay 3495.00"},
	})

	text, err := Text(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Salary slip", "3495.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("text %q missing %q", text, want)
		}
	}
}

func TestTextBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Text(path); err == nil {
		t.Fatal("expected error for junk input")
	}
}

func TestRun(t *testing.T) {
	src := t.TempDir()
	writeFixturePDF(t, filepath.Join(src, "a.pdf"), []line{{72, 72, "hello world"}})
	writeFixturePDF(t, filepath.Join(src, "sub", "b.pdf"), []line{{72, 72, "nested"}})
	if err := os.WriteFile(filepath.Join(src, "broken.pdf"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "text")
	cfg := types.ExtractConfig{SrcDir: src, OutDir: out, Recursive: true}

	var log bytes.Buffer
	result, err := Run(cfg, &log)
	if err != nil {
		t.Fatal(err)
	}
	if result.Extracted != 2 || result.Failed != 1 {
		t.Fatalf("result = %+v, want 2 extracted, 1 failed", result)
	}

	data, err := os.ReadFile(filepath.Join(out, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello world") {
		t.Errorf("a.txt = %q, missing text", data)
	}
	if _, err := os.Stat(filepath.Join(out, "sub", "b.txt")); err != nil {
		t.Errorf("nested output missing: %v", err)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if !strings.Contains(log.String(), "failed:  broken.pdf") {
		t.Errorf("log missing failure line:\n%s", log.String())
	}
}

func TestRunFields(t *testing.T) {
	src := t.TempDir()
	writeFixturePDF(t, filepath.Join(src, "slip.pdf"), []line{
		{72, 72, "Net pay"},
		{220, 72, "3,495.00"},
		{72, 96, "Deductions"},
		{220, 96, "284.24"},
	})

	out := filepath.Join(t.TempDir(), "text")
	cfg := types.ExtractConfig{
		SrcDir:      src,
		OutDir:      out,
		Fields:      true,
		FieldLabels: []string{"Net pay"},
	}

	var log bytes.Buffer
	if _, err := Run(cfg, &log); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(out, "slip.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "3,495.00") {
		t.Errorf("fields yaml = %q, missing amount", data)
	}
}

func TestFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slip.pdf")
	writeFixturePDF(t, path, []line{
		{72, 120, "Net pay"},
		{240, 120, "3495.00"},
		{72, 140, "Bonus"},
		{240, 140, "120.00"},
	})

	fields, err := Fields(path, []string{"Net pay", "Bonus"})
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, f := range fields {
		got[f.Label] = f.Value
		if f.Page != 1 {
			t.Errorf("page = %d, want 1", f.Page)
		}
	}
	if got["Net pay"] != "3495.00" {
		t.Errorf("Net pay = %q, want 3495.00", got["Net pay"])
	}
	if got["Bonus"] != "120.00" {
		t.Errorf("Bonus = %q, want 120.00", got["Bonus"])
	}
}

func TestPagesContaining(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi.pdf")
	writeFixturePDF(t, path,
		[]line{{72, 72, "cover page"}},
		[]line{{72, 72, "total due 99.00"}},
		[]line{{72, 72, "total due 12.00"}},
	)

	pages, err := PagesContaining(path, "total due")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || pages[0] != 2 || pages[1] != 3 {
		t.Errorf("pages = %v, want [2 3]", pages)
	}
}

func TestAmountRE(t *testing.T) {
	matches := []string{"3495.00", "3,495.00", "1,234,567.89", "418", "$12.50", "₪2723.00"}
	for _, s := range matches {
		if !amountRE.MatchString(s) {
			t.Errorf("amountRE should match %q", s)
		}
	}
	nonMatches := []string{"pay", "7-2025", "3495.001", "12.34.56", ""}
	for _, s := range nonMatches {
		if amountRE.MatchString(s) {
			t.Errorf("amountRE should not match %q", s)
		}
	}
}
