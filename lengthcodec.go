// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import "github.com/antoniomacri-labs/lz77ppm-go/internal/bitutil"

// minCodeBits is the shortest possible length-code (the three 2-bit codes
// 11, 10 and 01); a peek shorter than this can never contain a full code.
const minCodeBits = 2

// encTableSize is the number of entries in the fixed encode table: value 0,
// plus min_value .. min_value+6.
const encTableSize = 8

// lenEncEntry is one row of the fixed encode table.
type lenEncEntry struct {
	code  uint16
	nbits uint8
}

// encodingTable is the static 8-entry encode table, right-aligned codes.
var encodingTable = [encTableSize]lenEncEntry{
	{code: 0, nbits: 6}, // value 0 (terminator): 000000
	{code: 3, nbits: 2}, // min_value:   11
	{code: 2, nbits: 2}, // min_value+1: 10
	{code: 1, nbits: 2}, // min_value+2: 01
	{code: 1, nbits: 3}, // min_value+3: 001
	{code: 1, nbits: 4}, // min_value+4: 0001
	{code: 1, nbits: 5}, // min_value+5: 00001
	{code: 1, nbits: 6}, // min_value+6: 000001
}

// lenDecEntry is one row of the 64-entry decode table, indexed by the top 6
// peeked bits.
type lenDecEntry struct {
	value uint8
	nbits uint8
}

// decodingTable mirrors tinyhuff.c's decoding_table verbatim: a direct
// lookup from the top 6 bits of the peeked stream to (value-delta, bits
// consumed). A value-delta of 0 means either the terminator (when nbits==6
// and the 6-bit prefix is all zero) or min_value (when nbits==2); decode
// disambiguates using the table index, not the delta alone.
var decodingTable = [64]lenDecEntry{
	{0, 6}, {6, 6}, {5, 5}, {5, 5}, {4, 4}, {4, 4}, {4, 4}, {4, 4},
	{3, 3}, {3, 3}, {3, 3}, {3, 3}, {3, 3}, {3, 3}, {3, 3}, {3, 3},
	{2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2},
	{2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2},
	{1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2},
	{1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2}, {1, 2},
	{0, 2}, {0, 2}, {0, 2}, {0, 2}, {0, 2}, {0, 2}, {0, 2}, {0, 2},
	{0, 2}, {0, 2}, {0, 2}, {0, 2}, {0, 2}, {0, 2}, {0, 2}, {0, 2},
}

// lengthCodec is the static prefix code for match-length values.
type lengthCodec struct {
	minValue        uint16
	maxValue        uint16
	maxEncodedValue uint16
	diffNBits       uint8
}

// newLengthCodec derives the codec parameters from minValue (the shortest
// match length worth encoding as a phrase, derived from winoff_bits) and
// maxValue (= L).
func newLengthCodec(minValue, maxValue uint16) *lengthCodec {
	c := &lengthCodec{
		minValue:        minValue,
		maxValue:        maxValue,
		maxEncodedValue: minValue + uint16(encTableSize) - 2,
	}
	if maxValue > c.maxEncodedValue {
		c.diffNBits = bitutil.NumberOfBits(maxValue - c.maxEncodedValue)
	}
	return c
}

// encode returns the right-aligned code for value and its bit width. value
// must be 0 (the terminator) or in [minValue, maxValue].
func (c *lengthCodec) encode(value uint16) (code uint16, nbits uint8) {
	index := 0
	if value != 0 {
		index = 1 + int(value) - int(c.minValue)
		if index > encTableSize-1 {
			index = encTableSize - 1
		}
	}
	entry := encodingTable[index]
	code, nbits = entry.code, entry.nbits

	if value >= c.maxEncodedValue {
		diff := value - c.maxEncodedValue
		code = code<<c.diffNBits | diff
		nbits += c.diffNBits
	}
	return code, nbits
}

// canEncode reports whether value is representable by this codec.
func (c *lengthCodec) canEncode(value uint16) bool {
	return value == 0 || (value >= c.minValue && value <= c.maxValue)
}

// decode extracts a value from peeked, the top peekedBits bits of which
// (MSB-aligned within a 16-bit word) are valid. It returns consumed == 0 if
// peekedBits is insufficient for the full variable-length code.
func (c *lengthCodec) decode(peeked uint16, peekedBits uint8) (value uint16, consumed uint8) {
	if peekedBits < minCodeBits {
		return 0, 0
	}

	const maxCodeBits = 6
	index := (peeked >> (16 - maxCodeBits)) & 0x3F
	entry := decodingTable[index]

	toConsume := entry.nbits
	if peekedBits < toConsume {
		return 0, 0
	}

	value = uint16(entry.value)
	if index > 0 {
		value += c.minValue
	}

	if value == c.maxEncodedValue && c.diffNBits > 0 {
		if peekedBits < toConsume+c.diffNBits {
			return 0, 0
		}
		tpos := 16 - maxCodeBits - c.diffNBits
		mask := uint16(1)<<c.diffNBits - 1
		diff := (peeked >> tpos) & mask
		value += diff
		toConsume += c.diffNBits
	}

	return value, toConsume
}
