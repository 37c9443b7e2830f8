// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

// CompressBytes compresses data in one call using opts (DefaultCompressOptions
// if nil) and returns the compressed bytes.
func CompressBytes(data []byte, opts *CompressOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultCompressOptions()
	}

	in, err := NewUncompressedStreamFromMemory(data, opts.Window, opts.Lookahead)
	if err != nil {
		return nil, err
	}
	out, err := NewCompressedStreamToMemory(nil, &MemoryOptions{CanRealloc: true})
	if err != nil {
		return nil, err
	}

	if _, err := Compress(in, out); err != nil {
		return nil, err
	}
	return out.Buffer(), nil
}

// DecompressBytes decompresses a complete compressed buffer in one call and
// returns the original bytes.
func DecompressBytes(compressed []byte) ([]byte, error) {
	in, err := NewCompressedStreamFromMemory(compressed)
	if err != nil {
		return nil, err
	}
	out, err := NewUncompressedStreamToMemory(in, nil, &MemoryOptions{CanRealloc: true})
	if err != nil {
		return nil, err
	}

	if _, err := Decompress(in, out); err != nil {
		return nil, err
	}
	return out.Buffer(), nil
}
