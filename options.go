// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

// CompressOptions configures the sliding-window/look-ahead sizing used by a
// compression run. Window and Lookahead are stored verbatim in the
// compressed header and must satisfy Window >= 4, 2 <= Lookahead <= Window.
type CompressOptions struct {
	// Window is W, the sliding-window capacity in bytes.
	Window uint16
	// Lookahead is L, the look-ahead capacity in bytes.
	Lookahead uint16
}

// DefaultCompressOptions returns options with a 4096-byte window and a
// 32-byte look-ahead, a reasonable general-purpose default.
func DefaultCompressOptions() *CompressOptions {
	return &CompressOptions{Window: 4096, Lookahead: 32}
}

// MemoryOptions configures a memory-backed stream's growth policy.
type MemoryOptions struct {
	// CanRealloc allows the stream's backing buffer to grow past its
	// initial capacity (grow policy: max(current*1.1, 1024, needed)).
	CanRealloc bool
}

// DefaultMemoryOptions returns options that forbid reallocation; the caller
// must supply a buffer large enough for the whole operation.
func DefaultMemoryOptions() *MemoryOptions {
	return &MemoryOptions{CanRealloc: false}
}
