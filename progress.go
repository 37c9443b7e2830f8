// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import "sync/atomic"

// ProgressFunc reports compression/decompression progress. percent is in
// [0, 100], or 0 when it cannot be determined (e.g. the input is a
// descriptor of unknown total length) — see original lz77.h's
// report_progress and DESIGN.md's resolution of that open question.
type ProgressFunc func(ustream *UncompressedStream, cstream *CompressedStream, percent float64)

var progressSlot atomic.Pointer[ProgressFunc]

// SetProgressCallback installs the process-wide progress callback. Passing
// nil disables progress reporting. Invoked once per token when installed.
func SetProgressCallback(f ProgressFunc) {
	if f == nil {
		progressSlot.Store(nil)
		return
	}
	progressSlot.Store(&f)
}

func reportProgress(ustream *UncompressedStream, cstream *CompressedStream, percent float64) {
	if p := progressSlot.Load(); p != nil {
		(*p)(ustream, cstream, percent)
	}
}
