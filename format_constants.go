// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

// Wire-format constants for the LZ77 container: header layout and the
// bit widths of the two token shapes.

const (
	// headerSize is the size in bytes of the file-level header: magic(4) +
	// version(1) + reserved(3) + window_size(2) + lookahead_size(2).
	headerSize = 12

	// version is the single recognized format version; any other value in
	// the header is a format mismatch; there is no version negotiation.
	version = 0x10

	// minWindowSize and minLookaheadSize are the smallest accepted W and L.
	minWindowSize    = 4
	minLookaheadSize = 2
)

// magic is the 4-byte file signature "LZ77".
var magic = [4]byte{'L', 'Z', '7', '7'}

const (
	// typeBits identifies a token as a symbol (0) or a phrase (1).
	typeBits = 1
	// literalBits is the width of a literal byte carried by a symbol token.
	literalBits = 8
	// symbolTokenBits is the total width of a symbol token.
	symbolTokenBits = typeBits + literalBits
)
