// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, data []byte, window, lookahead uint16) []byte {
	t.Helper()
	compressed := compressMem(t, data, window, lookahead)
	return decompressMem(t, compressed)
}

// TestBoundarySizes covers every input length from empty up through a full
// window plus a full look-ahead plus some overflow: empty input,
// sub-window, window-full, window+partial-lookahead, and
// window+full-lookahead-plus-overflow.
func TestBoundarySizes(t *testing.T) {
	const window, lookahead = 8, 4
	source := bytes.Repeat([]byte("0123456789abcdef"), 4)

	for n := 0; n <= window+2*lookahead+2; n++ {
		data := source[:n]
		got := roundTrip(t, data, window, lookahead)
		require.Equalf(t, data, got, "n=%d", n)
	}
}

// TestParameterSweep covers W in [4,16], L in [2,min(W,24)], for constant,
// alternating, and random inputs.
func TestParameterSweep(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	inputs := func(n int) map[string][]byte {
		random := make([]byte, n)
		rng.Read(random)
		alternating := make([]byte, n)
		for i := range alternating {
			if i%2 == 0 {
				alternating[i] = 'A'
			} else {
				alternating[i] = 'B'
			}
		}
		return map[string][]byte{
			"constant":    bytes.Repeat([]byte{'Z'}, n),
			"alternating": alternating,
			"random":      random,
		}
	}

	for window := 4; window <= 16; window++ {
		maxL := window
		if maxL > 24 {
			maxL = 24
		}
		for lookahead := 2; lookahead <= maxL; lookahead++ {
			for name, data := range inputs(window + 2*lookahead) {
				t.Run(name, func(t *testing.T) {
					got := roundTrip(t, data, uint16(window), uint16(lookahead))
					require.Equal(t, data, got)
				})
			}
		}
	}
}

func TestCompressBytesDecompressBytes_OneShotAPI(t *testing.T) {
	data := bytes.Repeat([]byte("one-shot helper round trip "), 75)

	compressed, err := CompressBytes(data, DefaultCompressOptions())
	require.NoError(t, err)

	out, err := DecompressBytes(compressed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestCompressBytes_DefaultOptionsWhenNil(t *testing.T) {
	data := []byte("default options path")
	compressed, err := CompressBytes(data, nil)
	require.NoError(t, err)

	out, err := DecompressBytes(compressed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}
