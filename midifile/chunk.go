package midifile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Chunk signatures and the fixed header body length
const (
	headerMagic  = "MThd"
	trackMagic   = "MTrk"
	headerLength = 6
)

// Header holds the MThd fields. Immutable once parsed.
type Header struct {
	Format   uint16
	Tracks   uint16
	Division uint16
}

// IsSMPTE reports whether Division encodes a time-code rate.
func (h Header) IsSMPTE() bool {
	return h.Division&0x8000 != 0
}

// TicksPerQuarter returns the metrical resolution (0 for SMPTE timing).
func (h Header) TicksPerQuarter() uint32 {
	if h.IsSMPTE() {
		return 0
	}
	return uint32(h.Division)
}

// FramesPerSecond returns the SMPTE frame rate stored as a negative
// two's-complement byte (24, 25, 29 or 30).
func (h Header) FramesPerSecond() uint32 {
	if !h.IsSMPTE() {
		return 0
	}
	return uint32(-int8(h.Division >> 8))
}

// SubFrames returns the ticks per SMPTE frame.
func (h Header) SubFrames() uint32 {
	if !h.IsSMPTE() {
		return 0
	}
	return uint32(h.Division & 0xFF)
}

// byteSource is a sequential reader over one file. It never seeks.
type byteSource struct {
	r   *bufio.Reader
	off int64
	buf []byte // per-file arena reused across track chunks
}

func newByteSource(r io.Reader) *byteSource {
	return &byteSource{r: bufio.NewReader(r)}
}

// next returns exactly n bytes or ErrTruncatedStream. The slice is only
// valid until the next call. Large declared lengths grow the arena as data
// actually arrives, so a lying length field cannot force a huge allocation.
func (s *byteSource) next(n int) ([]byte, error) {
	var (
		read int
		err  error
	)
	if n <= cap(s.buf) {
		s.buf = s.buf[:n]
		read, err = io.ReadFull(s.r, s.buf)
	} else {
		b := bytes.NewBuffer(s.buf[:0])
		var copied int64
		copied, err = io.CopyN(b, s.r, int64(n))
		read = int(copied)
		s.buf = b.Bytes()
	}
	s.off += int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: wanted %d bytes at offset %d, got %d", ErrTruncatedStream, n, s.off-int64(read), read)
		}
		return nil, err
	}
	return s.buf, nil
}

func (s *byteSource) uint32() (uint32, error) {
	b, err := s.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (s *byteSource) uint16() (uint16, error) {
	b, err := s.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (s *byteSource) magic() (string, error) {
	b, err := s.next(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readHeader validates the MThd chunk and returns its fields.
func readHeader(s *byteSource) (Header, error) {
	var h Header

	magic, err := s.magic()
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	if magic != headerMagic {
		return h, fmt.Errorf("%w: signature %q", ErrMalformedHeader, magic)
	}
	length, err := s.uint32()
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	if length != headerLength {
		return h, fmt.Errorf("%w: length %d", ErrMalformedHeader, length)
	}

	body, err := s.next(headerLength)
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	h.Format = binary.BigEndian.Uint16(body[0:2])
	h.Tracks = binary.BigEndian.Uint16(body[2:4])
	h.Division = binary.BigEndian.Uint16(body[4:6])

	if h.IsSMPTE() {
		if h.FramesPerSecond() == 0 || h.SubFrames() == 0 {
			return h, fmt.Errorf("%w: smpte division %#04x", ErrMalformedHeader, h.Division)
		}
	} else if h.Division == 0 {
		return h, fmt.Errorf("%w: zero ticks per quarter note", ErrMalformedHeader)
	}
	return h, nil
}

// readTrack validates an MTrk chunk header and returns exactly the declared
// number of body bytes. The slice is reused by the next call.
func readTrack(s *byteSource) ([]byte, error) {
	magic, err := s.magic()
	if err != nil {
		return nil, err
	}
	if magic != trackMagic {
		return nil, fmt.Errorf("%w: signature %q", ErrMalformedTrack, magic)
	}
	length, err := s.uint32()
	if err != nil {
		return nil, err
	}
	return s.next(int(length))
}
