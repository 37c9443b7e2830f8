// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_CompressThenDecompressRoundTrips(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	compressedPath := filepath.Join(dir, "out.lz77")
	outPath := filepath.Join(dir, "out.txt")

	original := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")
	require.NoError(t, os.WriteFile(inPath, original, 0o644))

	require.NoError(t, run(false, 256, 16, inPath, compressedPath))
	require.NoError(t, run(true, 256, 16, compressedPath, outPath))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, original, got)
}

func TestRun_MissingInputFileErrors(t *testing.T) {
	dir := t.TempDir()
	err := run(false, 256, 16, filepath.Join(dir, "does-not-exist"), filepath.Join(dir, "out.lz77"))
	require.Error(t, err)
}
