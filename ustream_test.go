// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUncompressedStream_FromMemoryRejectsBadSizes(t *testing.T) {
	_, err := NewUncompressedStreamFromMemory([]byte("x"), 2, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewUncompressedStreamFromMemory([]byte("x"), 16, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewUncompressedStreamFromMemory(nil, 16, 4)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestUncompressedStream_ToMemoryNilBufferRequiresCanRealloc(t *testing.T) {
	cs, err := NewCompressedStreamToMemory(nil, &MemoryOptions{CanRealloc: true})
	require.NoError(t, err)
	require.NoError(t, cs.Writer.Open(256, 16))
	require.NoError(t, cs.Writer.Close())

	in, err := NewCompressedStreamFromMemory(cs.Buffer())
	require.NoError(t, err)
	require.NoError(t, in.Reader.Open())

	_, err = NewUncompressedStreamToMemory(in, nil, DefaultMemoryOptions())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewUncompressedStreamToMemory(in, nil, &MemoryOptions{CanRealloc: true})
	require.NoError(t, err)
}

func TestUncompressedStream_FindAndAdvanceDrainsToEOF(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	s, err := NewUncompressedStreamFromMemory(data, 64, 8)
	require.NoError(t, err)
	require.NoError(t, s.Open())

	var consumed int
	for {
		_, length, _, count, err := s.FindAndAdvance()
		require.NoError(t, err)
		if count == 0 {
			break
		}
		if length == 0 {
			consumed++
		} else {
			consumed += int(length)
		}
	}
	require.Equal(t, len(data), consumed)
	require.EqualValues(t, len(data), s.ProcessedBytes())
}

func TestUncompressedStream_SaveReconstructsLiteralsAndPhrases(t *testing.T) {
	cs, err := NewCompressedStreamToMemory(nil, &MemoryOptions{CanRealloc: true})
	require.NoError(t, err)
	require.NoError(t, cs.Writer.Open(64, 8))
	require.NoError(t, cs.Writer.Close())

	in, err := NewCompressedStreamFromMemory(cs.Buffer())
	require.NoError(t, err)
	require.NoError(t, in.Reader.Open())

	out, err := NewUncompressedStreamToMemory(in, nil, &MemoryOptions{CanRealloc: true})
	require.NoError(t, err)
	require.NoError(t, out.Open())

	for _, b := range []byte("abc") {
		require.NoError(t, out.Save(0, 0, b))
	}
	// A phrase referencing "abc" at offset 0, length 3 (self-referencing
	// into the data just written) should reproduce it again.
	require.NoError(t, out.Save(0, 3, 0))

	require.Equal(t, []byte("abcabc"), out.Buffer())
}

func TestUncompressedStream_SaveOutOfSpaceWithoutRealloc(t *testing.T) {
	cs, err := NewCompressedStreamToMemory(nil, &MemoryOptions{CanRealloc: true})
	require.NoError(t, err)
	require.NoError(t, cs.Writer.Open(64, 8))
	require.NoError(t, cs.Writer.Close())

	in, err := NewCompressedStreamFromMemory(cs.Buffer())
	require.NoError(t, err)
	require.NoError(t, in.Reader.Open())

	out, err := NewUncompressedStreamToMemory(in, make([]byte, 2), DefaultMemoryOptions())
	require.NoError(t, err)
	require.NoError(t, out.Open())

	require.NoError(t, out.Save(0, 0, 'a'))
	require.NoError(t, out.Save(0, 0, 'b'))
	err = out.Save(0, 0, 'c')
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutOfSpace))
}

func TestUncompressedStream_FromReaderMatchesFromMemory(t *testing.T) {
	data := bytes.Repeat([]byte("river runs deep "), 50)

	mem, err := NewUncompressedStreamFromMemory(append([]byte(nil), data...), 256, 16)
	require.NoError(t, err)
	require.NoError(t, mem.Open())

	rs, err := NewUncompressedStreamFromReader(bytes.NewReader(data), 256, 16)
	require.NoError(t, err)
	require.NoError(t, rs.Open())

	for {
		o1, l1, n1, c1, err1 := mem.FindAndAdvance()
		require.NoError(t, err1)
		o2, l2, n2, c2, err2 := rs.FindAndAdvance()
		require.NoError(t, err2)

		require.Equal(t, c1, c2)
		if c1 == 0 {
			break
		}
		require.Equal(t, l1, l2)
		if l1 == 0 {
			require.Equal(t, n1, n2)
		} else {
			require.Equal(t, o1, o2)
		}
	}
}
