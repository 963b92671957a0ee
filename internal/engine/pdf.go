// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// fileOutcome aggregates what rewriteFile did to one document.
type fileOutcome struct {
	matches      int
	skippedPages int
}

// rewriteFile opens a PDF, rewrites the text operators on every page per
// the compiled rules, and writes the result to outPath unless dryRun is
// set or nothing matched. Encrypted files that pdfcpu cannot open with an
// empty password surface as errEncrypted.
func rewriteFile(inPath, outPath string, rules []byteRule, dryRun bool) (fileOutcome, error) {
	var outcome fileOutcome

	ctx, err := api.ReadContextFile(inPath)
	if err != nil {
		return outcome, classifyOpenError(err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return outcome, fmt.Errorf("validating %s: %w", inPath, err)
	}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		matches, hexShown, err := rewritePage(ctx, pageNr, rules)
		if err != nil {
			return outcome, fmt.Errorf("page %d: %w", pageNr, err)
		}
		outcome.matches += matches
		if hexShown {
			outcome.skippedPages++
		}
	}

	if outcome.matches == 0 || dryRun {
		return outcome, nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return outcome, fmt.Errorf("creating output directory: %w", err)
	}
	if err := api.WriteContextFile(ctx, outPath); err != nil {
		return outcome, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outcome, nil
}

// rewritePage rewrites every content stream of one page in place.
func rewritePage(ctx *model.Context, pageNr int, rules []byteRule) (int, bool, error) {
	pageDict, _, _, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return 0, false, fmt.Errorf("resolving page dict: %w", err)
	}

	obj, found := pageDict.Find("Contents")
	if !found {
		return 0, false, nil
	}

	var refs []types.IndirectRef
	switch o := obj.(type) {
	case types.IndirectRef:
		refs = append(refs, o)
	case types.Array:
		for _, el := range o {
			if ir, ok := el.(types.IndirectRef); ok {
				refs = append(refs, ir)
			}
		}
	}

	matches := 0
	hexShown := false
	for _, ir := range refs {
		n, hex, err := rewriteStream(ctx, ir, rules)
		if err != nil {
			return matches, hexShown, err
		}
		matches += n
		hexShown = hexShown || hex
	}
	return matches, hexShown, nil
}

// rewriteStream decodes one content stream object, rewrites it, and when
// anything changed re-encodes it into the xref entry.
func rewriteStream(ctx *model.Context, ir types.IndirectRef, rules []byteRule) (int, bool, error) {
	entry, found := ctx.FindTableEntryForIndRef(&ir)
	if !found || entry.Object == nil {
		return 0, false, nil
	}
	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return 0, false, nil
	}

	if err := sd.Decode(); err != nil {
		return 0, false, fmt.Errorf("decoding content stream %s: %w", ir, err)
	}

	res := rewriteContent(sd.Content, rules)
	if !res.changed {
		return 0, res.hexShown, nil
	}

	sd.Content = res.out
	sd.Raw = nil
	if sd.FilterPipeline == nil {
		sd.FilterPipeline = []types.PDFFilter{{Name: filter.Flate}}
		sd.Dict["Filter"] = types.Name(filter.Flate)
	}
	if err := sd.Encode(); err != nil {
		return 0, res.hexShown, fmt.Errorf("encoding content stream %s: %w", ir, err)
	}
	length := int64(len(sd.Raw))
	sd.StreamLength = &length
	sd.Dict["Length"] = types.Integer(length)

	entry.Object = sd
	return res.matches, res.hexShown, nil
}

// errEncrypted marks files skipped because they need a password.
type encryptedError struct{ err error }

func (e *encryptedError) Error() string { return e.err.Error() }
func (e *encryptedError) Unwrap() error { return e.err }

// classifyOpenError distinguishes password-protected input from other
// open failures, so the batch can record skipped_encrypted instead of
// failing the file.
func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "password") || strings.Contains(msg, "encrypt") {
		return &encryptedError{err: err}
	}
	return err
}

// isEncrypted reports whether err came from a password-protected input.
func isEncrypted(err error) bool {
	var ee *encryptedError
	return errors.As(err, &ee)
}
