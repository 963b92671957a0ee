// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates the PDF files a batch stage will process and
// derives their output paths. Enumeration is deterministic: results are
// relative to the source directory, slash-separated, and sorted.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Files returns the PDF files under srcDir, as slash-separated paths
// relative to srcDir. Without recursive only the top level is scanned.
// Include and exclude are doublestar patterns matched against the
// relative path; include patterns (when given) must match, exclude
// patterns veto.
func Files(srcDir string, recursive bool, include, exclude []string) ([]string, error) {
	info, err := os.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("source dir does not exist or is not a directory: %s", srcDir)
	}

	var files []string
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != srcDir {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		ok, err := selected(rel, include, exclude)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", srcDir, err)
	}

	sort.Strings(files)
	return files, nil
}

// selected applies include and exclude patterns to a relative path.
func selected(rel string, include, exclude []string) (bool, error) {
	if len(include) > 0 {
		matched := false
		for _, pat := range include {
			ok, err := doublestar.Match(pat, rel)
			if err != nil {
				return false, fmt.Errorf("include pattern %q: %w", pat, err)
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}

	for _, pat := range exclude {
		ok, err := doublestar.Match(pat, rel)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pat, err)
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// OutputPath maps a relative input path into outDir, preserving the
// subdirectory layout and appending suffix to the file stem:
// "a/b.pdf" with suffix "_edited" becomes outDir/a/b_edited.pdf.
func OutputPath(outDir, rel, suffix string) string {
	dir, name := filepath.Split(filepath.FromSlash(rel))
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(outDir, dir, stem+suffix+ext)
}
