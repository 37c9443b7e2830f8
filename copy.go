// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

// copyPhrase copies length bytes from data[srcStart:srcStart+length] to
// data[dstStart:dstStart+length], where srcStart < dstStart always (the
// source lies within the window, the destination at the stream's current
// end). The two ranges may overlap: a match is allowed to reference bytes
// that are themselves part of the match being copied, which is exactly how
// a single short phrase expands into a long run of a repeated pattern. When
// they do, the copy must proceed one byte at a time so that each output
// byte can, in turn, become a valid source for a later byte of the same
// copy (copy, which is specified only for non-overlapping or
// forward-overlapping-by-less-than-source ranges, cannot be relied upon to
// produce this byte-by-byte dependency).
func copyPhrase(data []byte, dstStart, srcStart, length int) {
	if srcStart+length <= dstStart {
		copy(data[dstStart:dstStart+length], data[srcStart:srcStart+length])
		return
	}
	for i := 0; i < length; i++ {
		data[dstStart+i] = data[srcStart+i]
	}
}
