// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

// Compress drains ustream token by token, writing the corresponding phrase
// or symbol tokens (and a final terminator) to cstream. It returns the
// total size of the compressed output in bytes.
//
// Ported from lz77_compress in lz77.c.
func Compress(ustream *UncompressedStream, cstream *CompressedStream) (int64, error) {
	if err := ustream.Open(); err != nil {
		return 0, err
	}
	if err := cstream.Writer.Open(ustream.Window(), ustream.Lookahead()); err != nil {
		return 0, err
	}

	winoffBits := ustream.windowNBits
	lc := ustream.length

	var inputSize uint64
	if ustream.src == nil {
		inputSize = uint64(ustream.end)
	}

	for {
		offset, length, next, count, err := ustream.FindAndAdvance()
		if err != nil {
			return 0, err
		}
		if count == 0 {
			break
		}

		if length != 0 {
			if err := writePhraseToken(cstream.Writer, winoffBits, lc, offset, length); err != nil {
				return 0, err
			}
		} else {
			if err := writeSymbolToken(cstream.Writer, next); err != nil {
				return 0, err
			}
		}

		var percent float64
		if inputSize > 0 {
			percent = 100 * float64(ustream.processedBytes) / float64(inputSize)
		}
		reportProgress(ustream, cstream, percent)
	}

	// The terminator is shaped like a phrase token with offset 0 and the
	// length encoder's dedicated code for value 0.
	if err := writePhraseToken(cstream.Writer, winoffBits, lc, 0, 0); err != nil {
		return 0, err
	}

	if err := ustream.Close(); err != nil {
		return 0, err
	}
	if err := cstream.Writer.Close(); err != nil {
		return 0, err
	}

	return int64((cstream.Writer.ProcessedBits() + 7) / 8), nil
}

// writePhraseToken writes a phrase token (type bit 1, window offset, coded
// length). Passing length 0 produces the stream terminator.
func writePhraseToken(w *BitWriter, winoffBits uint8, lc *lengthCodec, offset, length uint16) error {
	code, codeBits := lc.encode(length)
	token := uint64(1)
	token = token<<winoffBits | uint64(offset)
	token = token<<codeBits | uint64(code)
	tbits := typeBits + winoffBits + codeBits
	return w.writeBits(token, tbits)
}

// writeSymbolToken writes a symbol token (type bit 0, literal byte).
func writeSymbolToken(w *BitWriter, next byte) error {
	return w.writeBits(uint64(next), symbolTokenBits)
}

// Decompress reads tokens from cstream until the terminator, writing the
// reconstructed bytes to ustream. It returns the total number of bytes
// written.
//
// Ported from lz77_decompress in lz77.c.
func Decompress(cstream *CompressedStream, ustream *UncompressedStream) (int64, error) {
	if err := cstream.Reader.Open(); err != nil {
		return 0, err
	}
	if err := ustream.Open(); err != nil {
		return 0, err
	}

	winoffBits := ustream.windowNBits
	lc := ustream.length

	var inputSize uint64
	if cstream.Reader.src == nil {
		inputSize = cstream.Reader.end / 8
	}

	for {
		typeBit, err := cstream.Reader.readBits(typeBits)
		if err != nil {
			return 0, wrapTokenErr(err)
		}

		var offset, length uint16
		var next byte

		if typeBit == 1 {
			offVal, err := cstream.Reader.readBits(winoffBits)
			if err != nil {
				return 0, wrapTokenErr(err)
			}
			offset = uint16(offVal)

			length, err = decodeLength(cstream.Reader, lc)
			if err != nil {
				return 0, err
			}
			if length == 0 {
				// The terminating token.
				break
			}
		} else {
			v, err := cstream.Reader.readBits(literalBits)
			if err != nil {
				return 0, wrapTokenErr(err)
			}
			next = byte(v)
		}

		if err := ustream.Save(offset, length, next); err != nil {
			return 0, err
		}

		var percent float64
		if inputSize > 0 {
			percent = 100 * float64(cstream.Reader.ProcessedBits()/8) / float64(inputSize)
		}
		reportProgress(ustream, cstream, percent)
	}

	if err := ustream.Close(); err != nil {
		return 0, err
	}

	return int64(ustream.processedBytes), nil
}

// decodeLength peeks a 16-bit window of the compressed stream and decodes
// the variable-length match-length code from it, retrying (to allow a
// descriptor-backed reader to refill) as long as more bits keep becoming
// available.
func decodeLength(r *BitReader, lc *lengthCodec) (uint16, error) {
	var lastGot uint8 = 255
	for {
		peeked, got, err := r.peekBits(16)
		if err != nil {
			return 0, err
		}
		word := uint16(peeked) << (16 - got)
		value, consumed := lc.decode(word, got)
		if consumed > 0 {
			if value > lc.maxValue {
				return 0, newError("Decompress", KindInvalidFormat, errBadFormat("length exceeds look-ahead size"))
			}
			r.consume(consumed)
			return value, nil
		}
		if got == lastGot {
			return 0, newError("Decompress", KindInvalidFormat, errBadFormat("truncated length code"))
		}
		lastGot = got
	}
}

func wrapTokenErr(err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	return newError("Decompress", KindInvalidFormat, err)
}
