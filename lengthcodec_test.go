// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLengthCodec_EncodeDecodeRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		minValue, maxValue uint16
	}{
		{minValue: 3, maxValue: 32},
		{minValue: 3, maxValue: 9},
		{minValue: 5, maxValue: 4096},
		{minValue: 3, maxValue: 3},
	} {
		lc := newLengthCodec(tc.minValue, tc.maxValue)

		values := []uint16{0}
		for v := tc.minValue; v <= tc.maxValue; v++ {
			values = append(values, v)
		}

		for _, v := range values {
			if !lc.canEncode(v) {
				t.Fatalf("min=%d max=%d: canEncode(%d) = false, want true", tc.minValue, tc.maxValue, v)
			}
			code, nbits := lc.encode(v)
			require.LessOrEqualf(t, nbits, uint8(16), "min=%d max=%d value=%d", tc.minValue, tc.maxValue, v)

			word := code << (16 - nbits)
			got, consumed := lc.decode(word, 16)
			require.Equalf(t, nbits, consumed, "min=%d max=%d value=%d", tc.minValue, tc.maxValue, v)
			require.Equalf(t, v, got, "min=%d max=%d value=%d", tc.minValue, tc.maxValue, v)
		}
	}
}

func TestLengthCodec_TerminatorIsSixZeroBits(t *testing.T) {
	lc := newLengthCodec(3, 32)
	code, nbits := lc.encode(0)
	require.EqualValues(t, 6, nbits)
	require.EqualValues(t, 0, code)
}

func TestLengthCodec_CanEncodeRejectsOutOfRange(t *testing.T) {
	lc := newLengthCodec(5, 20)
	require.True(t, lc.canEncode(0))
	require.True(t, lc.canEncode(5))
	require.True(t, lc.canEncode(20))
	require.False(t, lc.canEncode(4))
	require.False(t, lc.canEncode(21))
}

func TestLengthCodec_DecodeReportsShortPeek(t *testing.T) {
	lc := newLengthCodec(3, 4096)
	// A single 1 bit is never a complete code: every code is >= 2 bits.
	_, consumed := lc.decode(1<<15, 1)
	require.Zero(t, consumed)
}

func TestLengthCodec_OverflowTailUsed(t *testing.T) {
	lc := newLengthCodec(3, 4096)
	require.Greater(t, lc.maxValue, lc.maxEncodedValue)
	require.Greater(t, lc.diffNBits, uint8(0))

	code, nbits := lc.encode(lc.maxValue)
	word := code << (16 - nbits)
	got, consumed := lc.decode(word, 16)
	require.Equal(t, nbits, consumed)
	require.Equal(t, lc.maxValue, got)
}
