// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import (
	"io"

	"github.com/antoniomacri-labs/lz77ppm-go/internal/bitutil"
)

// UncompressedStream is the plaintext-side stream: on the compression path
// it is the source being read and searched for matches; on the
// decompression path it is the destination being rebuilt token by token.
// Go rendition of lz77_ustream (ustream.c / ustream_internal.h).
//
// An UncompressedStream is not safe for concurrent use.
type UncompressedStream struct {
	src io.Reader // set only for a compression source backed by a reader
	dst io.Writer // set only for a decompression destination backed by a writer

	data []byte
	size int // capacity of data
	end  int // end of valid bytes currently resident in data

	canRealloc bool
	isInput    bool
	opened     bool

	// windowStart is the absolute offset into data of the window's first
	// byte. The look-ahead buffer (input side) or the append cursor
	// (output side) always begins at windowStart+windowCurrSize.
	windowStart    int
	windowMaxSize  uint16
	windowCurrSize uint16
	windowNBits    uint8

	lookaheadMaxSize  uint16
	lookaheadCurrSize uint16

	tree   *windowIndex
	length *lengthCodec

	processedBytes uint64

	// from is the compressed-side stream a decompression destination
	// derives its window/look-ahead sizing from.
	from *CompressedStream
}

// NewUncompressedStreamFromMemory wraps an in-memory buffer as a
// compression source. data must not be nil; window/lookahead must satisfy
// the minimums in format_constants.go.
func NewUncompressedStreamFromMemory(data []byte, window, lookahead uint16) (*UncompressedStream, error) {
	if data == nil {
		return nil, newError("NewUncompressedStreamFromMemory", KindInvalidArgument, nil)
	}
	if err := validateWindowLookahead(window, lookahead); err != nil {
		return nil, err
	}
	return &UncompressedStream{
		data: data, size: len(data), end: len(data),
		isInput: true, windowMaxSize: window, lookaheadMaxSize: lookahead,
	}, nil
}

// descriptorInputScale is the multiple of (window+lookahead) used to size a
// reader-backed compression source's scratch buffer, matching the
// original's data_size = (window_size + lookahead_size) * 10.
const descriptorInputScale = 10

// NewUncompressedStreamFromReader wraps an io.Reader as a compression
// source, buffering its input in an internal buffer of
// (window+lookahead)*descriptorInputScale bytes.
func NewUncompressedStreamFromReader(r io.Reader, window, lookahead uint16) (*UncompressedStream, error) {
	if r == nil {
		return nil, newError("NewUncompressedStreamFromReader", KindInvalidArgument, nil)
	}
	if err := validateWindowLookahead(window, lookahead); err != nil {
		return nil, err
	}
	dataSize := (int(window) + int(lookahead)) * descriptorInputScale
	return &UncompressedStream{
		src: r, data: make([]byte, dataSize), size: dataSize, canRealloc: true,
		isInput: true, windowMaxSize: window, lookaheadMaxSize: lookahead,
	}, nil
}

// NewUncompressedStreamToMemory wraps a (possibly nil) buffer as a
// decompression destination, sized according to from's header. A nil buf
// requires opts.CanRealloc.
func NewUncompressedStreamToMemory(from *CompressedStream, buf []byte, opts *MemoryOptions) (*UncompressedStream, error) {
	if from == nil {
		return nil, newError("NewUncompressedStreamToMemory", KindInvalidArgument, nil)
	}
	if opts == nil {
		opts = DefaultMemoryOptions()
	}
	if buf == nil && !opts.CanRealloc {
		return nil, newError("NewUncompressedStreamToMemory", KindInvalidArgument, errBadFormat("nil buffer requires CanRealloc"))
	}
	return &UncompressedStream{data: buf, size: len(buf), canRealloc: opts.CanRealloc, from: from}, nil
}

// NewUncompressedStreamToWriter wraps an io.Writer as a decompression
// destination.
func NewUncompressedStreamToWriter(from *CompressedStream, w io.Writer) (*UncompressedStream, error) {
	if from == nil || w == nil {
		return nil, newError("NewUncompressedStreamToWriter", KindInvalidArgument, nil)
	}
	return &UncompressedStream{dst: w, from: from, canRealloc: true}, nil
}

func validateWindowLookahead(window, lookahead uint16) error {
	if window < minWindowSize {
		return newError("validateWindowLookahead", KindInvalidArgument, errBadFormat("window size too small"))
	}
	if lookahead < minLookaheadSize {
		return newError("validateWindowLookahead", KindInvalidArgument, errBadFormat("lookahead size too small"))
	}
	if lookahead > window {
		return newError("validateWindowLookahead", KindInvalidArgument, errBadFormat("lookahead larger than window"))
	}
	return nil
}

// Open fills the initial look-ahead (input side) or adopts the
// window/look-ahead sizing from the paired CompressedStream (output side),
// and builds the match-finding tree (input side only) and the length codec.
// Must be called
// exactly once before FindAndAdvance or Save.
func (s *UncompressedStream) Open() error {
	if s.isInput {
		if s.src != nil {
			n, err := readFill(s.src, s.data[:s.size])
			if err != nil {
				return newError("UncompressedStream.Open", KindIoError, err)
			}
			s.end = n
		} else {
			s.end = s.size
		}
		s.lookaheadCurrSize = uint16(minInt(s.end, int(s.lookaheadMaxSize)))
		s.windowNBits = bitutil.NumberOfBits(s.windowMaxSize - 1)
		s.tree = newWindowIndex(int(s.windowMaxSize))
	} else {
		s.windowMaxSize = s.from.Reader.Window()
		s.lookaheadMaxSize = s.from.Reader.Lookahead()
		s.windowNBits = bitutil.NumberOfBits(s.windowMaxSize - 1)
		if s.dst != nil {
			dataSize := int(s.windowMaxSize) * descriptorInputScale
			s.data = make([]byte, dataSize)
			s.size = dataSize
		}
	}

	minMatch := computeMinMatchLength(s.windowNBits)
	s.length = newLengthCodec(minMatch, s.lookaheadMaxSize)
	s.opened = true
	return nil
}

// Close flushes any buffered output to the underlying writer (output side,
// writer-backed only). A no-op otherwise.
func (s *UncompressedStream) Close() error {
	if !s.isInput && s.dst != nil {
		if err := writeAll(s.dst, s.data[:s.end]); err != nil {
			return newError("UncompressedStream.Close", KindIoError, err)
		}
		s.end = 0
	}
	return nil
}

// Buffer returns the resident data for a memory-backed stream (the valid
// prefix for a decompression destination, or the whole source for a
// compression source), or nil for a reader/writer-backed stream.
func (s *UncompressedStream) Buffer() []byte {
	if s.src != nil || s.dst != nil {
		return nil
	}
	return s.data[:s.end]
}

// Window and Lookahead return W and L as adopted at Open time.
func (s *UncompressedStream) Window() uint16    { return s.windowMaxSize }
func (s *UncompressedStream) Lookahead() uint16 { return s.lookaheadMaxSize }

// ProcessedBytes returns the number of bytes consumed (input side) or
// written (output side) so far.
func (s *UncompressedStream) ProcessedBytes() uint64 { return s.processedBytes }

func (s *UncompressedStream) lookaheadStart() int {
	return s.windowStart + int(s.windowCurrSize)
}

// FindAndAdvance searches for the best match between the look-ahead buffer
// and the sliding window, then advances both by the number of bytes the
// resulting token will consume. count is 0 at EOF (no error). When count>1,
// (offset, length) describe a phrase token; when count==1 and length==0,
// next is the unmatched literal.
//
// Ported from ustream_find_and_advance in ustream.c.
func (s *UncompressedStream) FindAndAdvance() (offset, length uint16, next byte, count int, err error) {
	if s.lookaheadCurrSize == 0 {
		return 0, 0, 0, 0, nil
	}

	if s.windowCurrSize == 0 {
		s.tree.insertFirst()
		length = 0
	} else {
		curr := s.lookaheadStart() % int(s.windowMaxSize)
		length, offset = s.tree.findAndInsert(curr, s.data, s.windowStart, s.lookaheadStart(), int(s.lookaheadCurrSize))
	}

	if length == 0 || !s.length.canEncode(length) {
		count = 1
		length = 0
		offset = 0
		next = s.data[s.lookaheadStart()]
	} else {
		count = int(length)
	}

	for i := 0; i < count; i++ {
		if i < count-1 {
			evict := (s.lookaheadStart() + 1) % int(s.windowMaxSize)
			s.tree.deleteNode(evict)
		}

		if s.windowCurrSize == s.windowMaxSize {
			s.windowStart++
		} else {
			s.windowCurrSize++
		}

		dataEnd := s.end
		lkahEnd := s.lookaheadStart() + int(s.lookaheadCurrSize)
		if lkahEnd > dataEnd {
			eof := s.lookaheadCurrSize < s.lookaheadMaxSize
			canMove := s.windowStart > 0

			if s.src != nil && !eof && canMove {
				lookahSize := dataEnd - s.lookaheadStart()
				dataSize := int(s.windowMaxSize) + lookahSize
				copy(s.data[0:dataSize], s.data[s.windowStart:s.windowStart+dataSize])

				newLookahead := int(s.windowMaxSize)
				destStart := newLookahead + lookahSize
				maxCount := s.size - dataSize
				n, rerr := readFill(s.src, s.data[destStart:destStart+maxCount])
				if rerr != nil {
					return 0, 0, 0, 0, newError("UncompressedStream.FindAndAdvance", KindIoError, rerr)
				}

				shift := s.windowStart % int(s.windowMaxSize)
				s.tree.rotate(shift)

				s.windowStart = 0
				s.end = dataSize + n
				s.lookaheadCurrSize = uint16(minInt(lookahSize+n, int(s.lookaheadMaxSize)))
			} else {
				s.lookaheadCurrSize--
			}
		}

		if i < count-1 {
			curr := s.lookaheadStart() % int(s.windowMaxSize)
			s.tree.findAndInsert(curr, s.data, s.windowStart, s.lookaheadStart(), int(s.lookaheadCurrSize))
		}
	}

	s.processedBytes += uint64(count)
	return offset, length, next, count, nil
}

// Save appends the bytes described by an LZ77 token (a phrase of the given
// offset/length, or a single literal when length is 0) to the
// decompression destination, growing or flushing the backing buffer first
// if needed.
//
// Ported from ustream_save in ustream.c.
func (s *UncompressedStream) Save(offset, length uint16, next byte) error {
	count := 1
	if length != 0 {
		count = int(length)
	}

	if s.size < s.end+count {
		if s.dst != nil {
			prefixLen := s.windowStart
			if err := writeAll(s.dst, s.data[:prefixLen]); err != nil {
				return newError("UncompressedStream.Save", KindIoError, err)
			}
			copy(s.data[0:int(s.windowMaxSize)], s.data[s.windowStart:s.windowStart+int(s.windowMaxSize)])
			s.windowStart = 0
			s.end = int(s.windowMaxSize)
		} else {
			if !s.canRealloc {
				return newError("UncompressedStream.Save", KindOutOfSpace, nil)
			}
			newSize := s.end + count
			if newSize < 1024 {
				newSize = 1024
			}
			if grown := int(float64(s.size) * 1.1); grown > newSize {
				newSize = grown
			}
			grown := make([]byte, newSize)
			copy(grown, s.data[:s.end])
			s.data = grown
			s.size = newSize
		}
	}

	if length == 0 {
		s.data[s.end] = next
	} else {
		copyPhrase(s.data, s.end, s.windowStart+int(offset), count)
	}

	n := uint16(count)
	if s.windowCurrSize == s.windowMaxSize {
		s.windowStart += count
	} else {
		maxIncrement := s.windowMaxSize - s.windowCurrSize
		if n <= maxIncrement {
			s.windowCurrSize += n
		} else {
			s.windowCurrSize = s.windowMaxSize
			s.windowStart += count - int(maxIncrement)
		}
	}

	s.end += count
	s.processedBytes += uint64(count)
	return nil
}

// readFill reads into buf until it is full or the source is exhausted,
// looping over short reads (an io.Reader may legally return less than len(buf)
// even mid-stream, unlike a single blocking read() on a regular file).
func readFill(r io.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
	return total, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
