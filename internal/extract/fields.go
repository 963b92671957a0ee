// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// amountRE matches a monetary amount: optional currency sign, digit
// groups with thousands separators, optional two decimals.
var amountRE = regexp.MustCompile(`^(?:₪|\$)?\s*(?:\d{1,3}(?:[, ]\d{3})+|\d+)(?:[.,]\d{2})?$`)

// Field is a labeled amount scraped from a document.
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Page  int    `json:"page" yaml:"page"`
}

// word is a horizontal run of glyphs on one row.
type word struct {
	text   string
	x0, x1 float64
}

// row is a line of words sharing a baseline, ordered left to right.
type row struct {
	words []word
}

// text returns the row's words joined with single spaces.
func (r row) text() string {
	parts := make([]string, len(r.words))
	for i, w := range r.words {
		parts[i] = w.text
	}
	return strings.Join(parts, " ")
}

// rowYTolerance merges glyphs whose baselines differ by less than this
// many points into one row.
const rowYTolerance = 2.0

// Fields scans each page for the given labels and pairs every label
// occurrence with the amount on the same row nearest to it, the way the
// predecessor marker script located net-pay figures next to their labels.
func Fields(path string, labels []string) ([]Field, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var fields []Field
	for pageNr := 1; pageNr <= r.NumPage(); pageNr++ {
		p := r.Page(pageNr)
		if p.V.IsNull() {
			continue
		}
		rows := pageRows(p)
		for _, label := range labels {
			for _, rw := range rows {
				val, ok := amountNearLabel(rw, label)
				if !ok {
					continue
				}
				fields = append(fields, Field{Label: label, Value: val, Page: pageNr})
			}
		}
	}
	return fields, nil
}

// PagesContaining returns the 1-based page numbers whose text contains
// needle.
func PagesContaining(path, needle string) ([]int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var pages []int
	for pageNr := 1; pageNr <= r.NumPage(); pageNr++ {
		p := r.Page(pageNr)
		if p.V.IsNull() {
			continue
		}
		for _, rw := range pageRows(p) {
			if strings.Contains(rw.text(), needle) {
				pages = append(pages, pageNr)
				break
			}
		}
	}
	return pages, nil
}

// pageRows groups a page's glyph runs into rows of words, top to bottom.
func pageRows(p pdf.Page) []row {
	texts := p.Content().Text
	if len(texts) == 0 {
		return nil
	}

	// Stable order: top row first, then left to right.
	sort.SliceStable(texts, func(i, j int) bool {
		if diff := texts[i].Y - texts[j].Y; diff > rowYTolerance || diff < -rowYTolerance {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var rows []row
	var cur []pdf.Text
	flush := func() {
		if len(cur) > 0 {
			rows = append(rows, buildRow(cur))
			cur = nil
		}
	}
	for _, t := range texts {
		if len(cur) > 0 && cur[0].Y-t.Y > rowYTolerance {
			flush()
		}
		cur = append(cur, t)
	}
	flush()
	return rows
}

// buildRow merges adjacent glyph runs into words. A gap wider than a
// third of the font size starts a new word.
func buildRow(texts []pdf.Text) row {
	var r row
	var b strings.Builder
	x0, x1 := texts[0].X, texts[0].X
	flush := func() {
		if b.Len() > 0 {
			r.words = append(r.words, word{text: b.String(), x0: x0, x1: x1})
			b.Reset()
		}
	}
	for i, t := range texts {
		if i > 0 {
			gap := t.X - x1
			threshold := t.FontSize / 3
			if threshold <= 0 {
				threshold = 2
			}
			if gap > threshold || t.S == " " {
				flush()
				x0 = t.X
			}
		}
		if t.S != " " {
			b.WriteString(t.S)
		}
		x1 = t.X + t.W
	}
	flush()
	return r
}

// amountNearLabel finds label within the row and returns the
// amount-shaped word horizontally closest to it.
func amountNearLabel(rw row, label string) (string, bool) {
	lx0, lx1, found := labelSpan(rw, label)
	if !found {
		return "", false
	}

	best := -1
	bestDx := 0.0
	for i, w := range rw.words {
		if !amountRE.MatchString(w.text) {
			continue
		}
		var dx float64
		switch {
		case w.x1 <= lx0:
			dx = lx0 - w.x1
		case w.x0 >= lx1:
			dx = w.x0 - lx1
		default:
			continue // the label itself
		}
		if best < 0 || dx < bestDx {
			best = i
			bestDx = dx
		}
	}
	if best < 0 {
		return "", false
	}
	return rw.words[best].text, true
}

// labelSpan locates label as a substring of the row text and returns the
// horizontal extent of the words it covers.
func labelSpan(rw row, label string) (x0, x1 float64, found bool) {
	joined := rw.text()
	pos := strings.Index(joined, label)
	if pos < 0 {
		return 0, 0, false
	}

	// Map character offsets back onto word indices.
	offset := 0
	first, last := -1, -1
	for i, w := range rw.words {
		start := offset
		end := offset + len(w.text)
		if end > pos && start < pos+len(label) {
			if first < 0 {
				first = i
			}
			last = i
		}
		offset = end + 1 // joining space
	}
	if first < 0 {
		return 0, 0, false
	}
	return rw.words[first].x0, rw.words[last].x1, true
}
