// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mark

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pdiddy/pdfops/internal/extract"
)

// stampDesc styles the stamp: small red text in the top-right corner,
// clear of the document body.
const stampDesc = "fontname:Helvetica, points:18, scalefactor:0.4 abs, rotation:0, position:tr, offset:-20 -20, fillcolor:#cc0000, opacity:0.7"

// File stamps every page of inPath whose text contains label and writes
// the result to outPath. It returns the 1-based numbers of the stamped
// pages; when no page matches, nothing is written and the returned slice
// is empty.
func File(inPath, outPath, label, stamp string) ([]int, error) {
	pages, err := extract.PagesContaining(inPath, label)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}

	wm, err := api.TextWatermark(stamp, stampDesc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("building stamp: %w", err)
	}

	selected := make([]string, len(pages))
	for i, p := range pages {
		selected[i] = strconv.Itoa(p)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := api.AddWatermarksFile(inPath, outPath, selected, wm, nil); err != nil {
		return nil, fmt.Errorf("stamping %s: %w", inPath, err)
	}
	return pages, nil
}
