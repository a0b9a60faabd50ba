package onda

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ErrUnexpectedEOF is returned when the input ends before a field that the
// format requires. It wraps io.ErrUnexpectedEOF.
var ErrUnexpectedEOF = fmt.Errorf("truncated wav data: %w", io.ErrUnexpectedEOF)

// cursor reads little-endian fields from a fully materialized buffer.
// Every read is bounds checked; off only moves forward.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int {
	if c.off >= len(c.buf) {
		return 0
	}

	return len(c.buf) - c.off
}

func (c *cursor) done() bool {
	return c.off >= len(c.buf)
}

func (c *cursor) take(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnexpectedEOF, n, c.off, c.remaining())
	}

	b := c.buf[c.off : c.off+n]
	c.off += n

	return b, nil
}

func (c *cursor) uint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) int16() (int16, error) {
	v, err := c.uint16()
	return int16(v), err
}

func (c *cursor) id() ([4]byte, error) {
	var id [4]byte

	b, err := c.take(4)
	if err != nil {
		return id, err
	}

	copy(id[:], b)

	return id, nil
}

// expect consumes a chunk ID and reports mismatchErr if it is not want.
func (c *cursor) expect(want [4]byte, mismatchErr error) error {
	at := c.off

	got, err := c.id()
	if err != nil {
		return err
	}

	if got != want {
		return fmt.Errorf("%w: expected %q at offset %d, got %q", mismatchErr, want[:], at, got[:])
	}

	return nil
}

// skip advances by n bytes, stopping at the end of the buffer.
func (c *cursor) skip(n uint32) {
	if uint64(n) >= uint64(c.remaining()) {
		c.off = len(c.buf)
		return
	}

	c.off += int(n)
}
