// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgressCallback_InvokedDuringCompressAndDecompress(t *testing.T) {
	var compressCalls, decompressCalls int
	var lastPercent float64

	SetProgressCallback(func(ustream *UncompressedStream, cstream *CompressedStream, percent float64) {
		if cstream.Writer != nil {
			compressCalls++
		} else {
			decompressCalls++
		}
		lastPercent = percent
	})
	defer SetProgressCallback(nil)

	data := bytes.Repeat([]byte("progress callback payload "), 40)
	compressed := compressMem(t, data, 128, 16)
	require.Greater(t, compressCalls, 0)

	out := decompressMem(t, compressed)
	require.Equal(t, data, out)
	require.Greater(t, decompressCalls, 0)
	require.GreaterOrEqual(t, lastPercent, float64(0))
}

func TestProgressCallback_NilDisablesReporting(t *testing.T) {
	called := false
	SetProgressCallback(func(*UncompressedStream, *CompressedStream, float64) { called = true })
	SetProgressCallback(nil)

	_ = compressMem(t, []byte("x"), 16, 4)
	require.False(t, called)
}
