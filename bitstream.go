// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import (
	"encoding/binary"
	"io"
)

// BitReader is the compressed-side input stream: a byte-addressable buffer
// or an io.Reader-backed source, exposing bit-granular peek/read/consume.
// It is the Go rendition of the original program's lz77_cstream opened for
// input (cstream.c).
//
// A BitReader is not safe for concurrent use; independent BitReaders may be
// driven from independent goroutines.
type BitReader struct {
	data []byte   // scratch/resident buffer
	src  io.Reader // nil when memory-backed

	pos uint64 // next bit to read
	end uint64 // one past last valid bit

	processedBits uint64

	window    uint16
	lookahead uint16
	opened    bool
}

// descriptorScratchSize is the size of the refill buffer used by
// descriptor-backed readers, matching the original's 1KB default
// (lz77_cstream_from_descriptor).
const descriptorScratchSize = 1024

// NewBitReaderFromMemory wraps an in-memory compressed buffer for reading.
// data must not be nil.
func NewBitReaderFromMemory(data []byte) (*BitReader, error) {
	if data == nil {
		return nil, newError("NewBitReaderFromMemory", KindInvalidArgument, nil)
	}
	return &BitReader{data: data, end: uint64(len(data)) * 8}, nil
}

// NewBitReaderFromReader wraps an io.Reader as a compressed-side source,
// refilling an internal scratch buffer on demand.
func NewBitReaderFromReader(r io.Reader) (*BitReader, error) {
	if r == nil {
		return nil, newError("NewBitReaderFromReader", KindInvalidArgument, nil)
	}
	return &BitReader{data: make([]byte, descriptorScratchSize), src: r}, nil
}

// Open reads and validates the file header: magic, version, big-endian
// window_size and lookahead_size. It must be called exactly once before any
// other BitReader method.
func (r *BitReader) Open() error {
	var hdr [headerSize]byte
	for i := range hdr {
		v, err := r.readBits(8)
		if err != nil {
			return newError("BitReader.Open", KindInvalidFormat, err)
		}
		hdr[i] = byte(v)
	}

	if hdr[0] != magic[0] || hdr[1] != magic[1] || hdr[2] != magic[2] || hdr[3] != magic[3] {
		return newError("BitReader.Open", KindInvalidFormat, errBadFormat("bad magic"))
	}
	if hdr[4] != version {
		return newError("BitReader.Open", KindInvalidFormat, errBadFormat("unsupported version"))
	}

	window := binary.BigEndian.Uint16(hdr[8:10])
	lookahead := binary.BigEndian.Uint16(hdr[10:12])

	if window < minWindowSize {
		return newError("BitReader.Open", KindInvalidFormat, errBadFormat("window size too small"))
	}
	if lookahead < minLookaheadSize {
		return newError("BitReader.Open", KindInvalidFormat, errBadFormat("lookahead size too small"))
	}
	if lookahead > window {
		return newError("BitReader.Open", KindInvalidFormat, errBadFormat("lookahead larger than window"))
	}

	r.window = window
	r.lookahead = lookahead
	r.opened = true
	return nil
}

type errBadFormat string

func (e errBadFormat) Error() string { return string(e) }

// Window and Lookahead return the W/L recovered from the header.
func (r *BitReader) Window() uint16    { return r.window }
func (r *BitReader) Lookahead() uint16 { return r.lookahead }

// ProcessedBits returns the number of bits consumed so far.
func (r *BitReader) ProcessedBits() uint64 { return r.processedBits }

// refill is invoked when a peek would run past the buffered end and the
// reader is descriptor-backed: it memmoves the unread tail to the start of
// the buffer and issues one Read into the freed tail space, mirroring
// cstream_peek's refill step in cstream.c.
func (r *BitReader) refill() error {
	if r.src == nil {
		return nil
	}

	posByte := r.pos / 8
	endByte := (r.end + 7) / 8
	copy(r.data, r.data[posByte:endByte])
	r.pos -= posByte * 8
	r.end -= posByte * 8

	endByte = (r.end + 7) / 8
	n, err := r.src.Read(r.data[endByte:])
	if n > 0 {
		r.end += uint64(n) * 8
	}
	if err != nil && err != io.EOF {
		return newError("BitReader.refill", KindIoError, err)
	}
	return nil
}

// peekBits returns up to n bits (n <= 64) starting at pos, without
// consuming them, right-aligned in the low bits of the result. got is the
// number of bits actually available (less than n at EOF, or after a short
// Read from a reader-backed source).
func (r *BitReader) peekBits(n uint8) (value uint64, got uint8, err error) {
	if r.pos+uint64(n) > r.end {
		if err := r.refill(); err != nil {
			return 0, 0, err
		}
	}

	avail := r.end - r.pos
	if avail > uint64(n) {
		avail = uint64(n)
	}
	got = uint8(avail)

	for i := uint8(0); i < got; i++ {
		bitPos := r.pos + uint64(i)
		b := r.data[bitPos/8]
		bit := (b >> (7 - bitPos%8)) & 1
		value = value<<1 | uint64(bit)
	}
	return value, got, nil
}

// consume advances pos/processedBits by n bits.
func (r *BitReader) consume(n uint8) {
	r.pos += uint64(n)
	r.processedBits += uint64(n)
}

// readBits reads exactly n bits, retrying refills as long as progress is
// being made (mirroring cstream_read's retry loop), and returns an error if
// fewer than n bits could ever be produced (premature EOF).
func (r *BitReader) readBits(n uint8) (uint64, error) {
	var lastGot uint8 = 255 // sentinel, never a valid "no progress" match for n<255
	for {
		v, got, err := r.peekBits(n)
		if err != nil {
			return 0, err
		}
		if got == n {
			r.consume(got)
			return v, nil
		}
		if got == lastGot {
			return 0, io.ErrUnexpectedEOF
		}
		lastGot = got
	}
}

// CompressedStream wraps a BitReader or BitWriter with the window/lookahead
// parameters Compress/Decompress need. Exactly one of Reader or Writer is
// non-nil.
type CompressedStream struct {
	Reader *BitReader
	Writer *BitWriter
}

// ProcessedBits returns the total bits processed by whichever side is active.
func (c *CompressedStream) ProcessedBits() uint64 {
	if c.Reader != nil {
		return c.Reader.ProcessedBits()
	}
	return c.Writer.ProcessedBits()
}

// Buffer returns the backing buffer for a memory-backed writer (the valid
// prefix only), or nil for a reader or writer-backed CompressedStream.
func (c *CompressedStream) Buffer() []byte {
	if c.Writer == nil {
		return nil
	}
	return c.Writer.Buffer()
}

// Window and Lookahead return the W/L recovered from the header on the
// reader side. A writer-side CompressedStream does not keep them and
// returns 0.
func (c *CompressedStream) Window() uint16 {
	if c.Reader != nil {
		return c.Reader.Window()
	}
	return 0
}

func (c *CompressedStream) Lookahead() uint16 {
	if c.Reader != nil {
		return c.Reader.Lookahead()
	}
	return 0
}

// NewCompressedStreamFromMemory builds an input CompressedStream over a
// byte slice (decompression source).
func NewCompressedStreamFromMemory(data []byte) (*CompressedStream, error) {
	r, err := NewBitReaderFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &CompressedStream{Reader: r}, nil
}

// NewCompressedStreamFromReader builds an input CompressedStream over an
// io.Reader (decompression source).
func NewCompressedStreamFromReader(r io.Reader) (*CompressedStream, error) {
	br, err := NewBitReaderFromReader(r)
	if err != nil {
		return nil, err
	}
	return &CompressedStream{Reader: br}, nil
}

// NewCompressedStreamToMemory builds an output CompressedStream writing to
// buf (compression destination). A nil buf requires opts.CanRealloc.
func NewCompressedStreamToMemory(buf []byte, opts *MemoryOptions) (*CompressedStream, error) {
	w, err := NewBitWriterToMemory(buf, opts)
	if err != nil {
		return nil, err
	}
	return &CompressedStream{Writer: w}, nil
}

// NewCompressedStreamToWriter builds an output CompressedStream writing to
// an io.Writer (compression destination).
func NewCompressedStreamToWriter(w io.Writer) (*CompressedStream, error) {
	bw, err := NewBitWriterToWriter(w)
	if err != nil {
		return nil, err
	}
	return &CompressedStream{Writer: bw}, nil
}

// BitWriter is the compressed-side output stream: a growable/fixed memory
// buffer or an io.Writer-backed sink, exposing bit-granular writes through a
// cached register. Go rendition of lz77_cstream opened for output.
type BitWriter struct {
	data []byte
	dst  io.Writer // nil when memory-backed

	size       int
	end        uint64 // bit end, always byte-aligned between writeBits calls
	canRealloc bool

	cached      uint64
	cachedNBits uint8

	processedBits uint64
}

// NewBitWriterToMemory creates a memory-backed output stream. If buf is nil,
// opts.CanRealloc must be true: a nil buffer with reallocation disallowed is
// rejected up front, not deferred to the first OutOfSpace write.
func NewBitWriterToMemory(buf []byte, opts *MemoryOptions) (*BitWriter, error) {
	if opts == nil {
		opts = DefaultMemoryOptions()
	}
	if buf == nil && !opts.CanRealloc {
		return nil, newError("NewBitWriterToMemory", KindInvalidArgument, errBadFormat("nil buffer requires CanRealloc"))
	}
	return &BitWriter{data: buf, size: len(buf), canRealloc: opts.CanRealloc}, nil
}

// NewBitWriterToWriter creates an io.Writer-backed output stream using an
// internal scratch buffer, flushed whenever it fills.
func NewBitWriterToWriter(w io.Writer) (*BitWriter, error) {
	if w == nil {
		return nil, newError("NewBitWriterToWriter", KindInvalidArgument, nil)
	}
	buf := make([]byte, descriptorScratchSize)
	return &BitWriter{data: buf, size: len(buf), dst: w, canRealloc: false}, nil
}

// Open writes the file header for the given window/look-ahead sizes. Must
// be called exactly once before any other BitWriter method.
func (w *BitWriter) Open(window, lookahead uint16) error {
	var hdr [headerSize]byte
	copy(hdr[0:4], magic[:])
	hdr[4] = version
	binary.BigEndian.PutUint16(hdr[8:10], window)
	binary.BigEndian.PutUint16(hdr[10:12], lookahead)
	return w.writeBytes(hdr[:])
}

func maskLow(n uint8) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// writeBits appends the low nbits bits of value (MSB-first as a group) to
// the cached register, flushing the whole-byte prefix to the underlying
// buffer whenever the cache would overflow 64 bits. Mirrors
// cstream_write_bits in cstream.c.
func (w *BitWriter) writeBits(value uint64, nbits uint8) error {
	if nbits == 0 {
		return nil
	}

	// A flush can leave up to 7 bits cached, so a group wider than 57 bits
	// is written as two parts to keep it within the 64-bit register.
	if nbits > 57 {
		if err := w.writeBits(value>>32, nbits-32); err != nil {
			return err
		}
		return w.writeBits(value, 32)
	}

	if uint16(w.cachedNBits)+uint16(nbits) > 64 {
		count := w.cachedNBits / 8
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], w.cached)
		if err := w.writeBytes(buf[:count]); err != nil {
			return err
		}
		w.cached <<= uint(count) * 8
		w.cachedNBits %= 8
	}

	shift := 64 - uint(nbits) - uint(w.cachedNBits)
	masked := value & maskLow(nbits)
	w.cached |= masked << shift
	w.cachedNBits += nbits
	return nil
}

// writeBytes appends whole bytes, growing or flushing as needed. Requires
// no partial byte is currently cached (enforced at call sites: Open and
// Close's final flush are the only byte-level writers besides the
// cache-overflow flush inside writeBits, which always flushes a whole
// number of bytes).
func (w *BitWriter) writeBytes(buf []byte) error {
	need := w.end/8 + uint64(len(buf))
	if need > uint64(w.size) {
		if w.dst != nil {
			if err := w.flushResident(); err != nil {
				return err
			}
			if uint64(len(buf)) > uint64(w.size) {
				// A single write larger than the scratch buffer: write
				// directly, bypassing the resident buffer.
				if err := writeAll(w.dst, buf); err != nil {
					return newError("BitWriter.writeBytes", KindIoError, err)
				}
				w.processedBits += uint64(len(buf)) * 8
				return nil
			}
		} else {
			if !w.canRealloc {
				return newError("BitWriter.writeBytes", KindOutOfSpace, nil)
			}
			newSize := int(need)
			if newSize < 1024 {
				newSize = 1024
			}
			if grown := int(float64(w.size) * 1.1); grown > newSize {
				newSize = grown
			}
			grown := make([]byte, newSize)
			copy(grown, w.data[:w.end/8])
			w.data = grown
			w.size = newSize
		}
	}

	copy(w.data[w.end/8:], buf)
	w.end += uint64(len(buf)) * 8
	w.processedBits += uint64(len(buf)) * 8
	return nil
}

// flushResident drains the resident buffer to the underlying io.Writer and
// resets end to 0 (descriptor/writer mode only).
func (w *BitWriter) flushResident() error {
	n := w.end / 8
	if n == 0 {
		return nil
	}
	if err := writeAll(w.dst, w.data[:n]); err != nil {
		return newError("BitWriter.flushResident", KindIoError, err)
	}
	w.end = 0
	return nil
}

func writeAll(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

// Close flushes any partial cached byte (zero-padded to the next byte
// boundary) and, for writer-backed output, drains the resident buffer.
func (w *BitWriter) Close() error {
	if w.cachedNBits > 0 {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], w.cached)
		nbytes := (w.cachedNBits + 7) / 8
		if err := w.writeBytes(buf[:nbytes]); err != nil {
			return err
		}
		w.cachedNBits = 0
		w.cached = 0
	}
	if w.dst != nil {
		return w.flushResident()
	}
	return nil
}

// ProcessedBits returns the number of bits written so far, including
// currently cached (not yet byte-flushed) bits.
func (w *BitWriter) ProcessedBits() uint64 {
	return w.processedBits + uint64(w.cachedNBits)
}

// Buffer returns the backing buffer for a memory-backed writer (the valid
// prefix only), or nil for a writer-backed stream.
func (w *BitWriter) Buffer() []byte {
	if w.dst != nil {
		return nil
	}
	return w.data[:w.end/8]
}
