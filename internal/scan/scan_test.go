// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates a small source tree with PDFs at two levels plus
// non-PDF noise.
func buildTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0o755))
	for _, name := range []string{
		"b.pdf",
		"a.pdf",
		"notes.txt",
		"UPPER.PDF",
		filepath.Join("sub", "c.pdf"),
		filepath.Join("sub", "deep", "d.pdf"),
		filepath.Join("sub", "skip.me"),
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return dir
}

func TestFilesTopLevel(t *testing.T) {
	dir := buildTree(t)
	got, err := Files(dir, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"UPPER.PDF", "a.pdf", "b.pdf"}, got)
}

func TestFilesRecursive(t *testing.T) {
	dir := buildTree(t)
	got, err := Files(dir, true, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"UPPER.PDF", "a.pdf", "b.pdf", "sub/c.pdf", "sub/deep/d.pdf"}, got)
}

func TestFilesIncludeExclude(t *testing.T) {
	dir := buildTree(t)

	got, err := Files(dir, true, []string{"sub/**"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/c.pdf", "sub/deep/d.pdf"}, got)

	got, err = Files(dir, true, nil, []string{"sub/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"UPPER.PDF", "a.pdf", "b.pdf"}, got)

	got, err = Files(dir, true, []string{"**/*.pdf"}, []string{"sub/deep/*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "sub/c.pdf"}, got)
}

func TestFilesBadPattern(t *testing.T) {
	dir := buildTree(t)
	_, err := Files(dir, true, []string{"[unterminated"}, nil)
	assert.Error(t, err)
}

func TestFilesMissingDir(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "absent"), false, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source dir")
}

func TestFilesSourceIsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := Files(path, false, nil, nil)
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		rel    string
		suffix string
		want   string
	}{
		{"a.pdf", "", filepath.Join("out", "a.pdf")},
		{"a.pdf", "_edited", filepath.Join("out", "a_edited.pdf")},
		{"sub/deep/d.pdf", "-v2", filepath.Join("out", "sub", "deep", "d-v2.pdf")},
		{"UPPER.PDF", "_x", filepath.Join("out", "UPPER_x.PDF")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath("out", tt.rel, tt.suffix))
	}
}
