// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

/*
Package lz77 implements a byte-oriented LZ77 compressor and decompressor
with a custom bit-packed wire format: a 12-byte header (magic, version,
reserved bytes, window size, look-ahead size) followed by a sequence of
tokens, each either
a phrase (a back-reference into the sliding window) or a literal symbol,
terminated by a dedicated end-of-stream token.

The match finder is a binary search tree over the sliding window (see
windowindex.go) and match lengths are packed with a small static prefix
code (see lengthcodec.go) rather than being written at a fixed width, so
better matches cost fewer bits.

# Compress

	in, err := lz77.NewUncompressedStreamFromMemory(data, opts.Window, opts.Lookahead)
	out, err := lz77.NewCompressedStreamToMemory(nil, &lz77.MemoryOptions{CanRealloc: true})
	n, err := lz77.Compress(in, out)
	compressed := out.Buffer()

Or, for the common case of an in-memory round trip, the one-shot helpers:

	compressed, err := lz77.CompressBytes(data, lz77.DefaultCompressOptions())
	original, err := lz77.DecompressBytes(compressed)

# Decompress

	in, err := lz77.NewCompressedStreamFromMemory(compressed)
	out, err := lz77.NewUncompressedStreamToMemory(in, nil, &lz77.MemoryOptions{CanRealloc: true})
	n, err := lz77.Decompress(in, out)
	original := out.Buffer()

Both Compress and Decompress also work against an io.Reader/io.Writer pair
instead of in-memory buffers, via NewUncompressedStreamFromReader /
NewCompressedStreamFromReader and NewUncompressedStreamToWriter /
NewCompressedStreamToWriter.
*/
package lz77
