package draco

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// maxVarUintBytes bounds a varuint to 64 bits of payload.
const maxVarUintBytes = 10

// Cursor is a forward-only little-endian reader over a byte slice.
// Every read fails with ErrTruncated when not enough bytes remain.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.pos
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, errors.Wrapf(ErrTruncated, "need %d bytes at offset %d, have %d", n, c.pos, c.Remaining())
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadBytes returns the next n bytes. The slice aliases the input.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	return c.take(n)
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadF32 reads a little-endian IEEE 754 float32.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadVarUint reads an unsigned LEB128 integer.
func (c *Cursor) ReadVarUint() (uint64, error) {
	var v uint64
	for i := 0; i < maxVarUintBytes; i++ {
		b, err := c.ReadU8()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, errors.Wrapf(ErrTruncated, "varuint longer than %d bytes at offset %d", maxVarUintBytes, c.pos)
}

// ReadVarInt reads a zigzag-encoded signed LEB128 integer.
func (c *Cursor) ReadVarInt() (int64, error) {
	v, err := c.ReadVarUint()
	if err != nil {
		return 0, err
	}
	return zigzagDecode(v), nil
}

// readVarUintAs reads a varuint and checks that it fits in T. Values that do
// not fit are reported as outOfRange.
func readVarUintAs[T constraints.Unsigned](c *Cursor, what string, outOfRange error) (T, error) {
	v, err := c.ReadVarUint()
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s", what)
	}
	if uint64(T(v)) != v {
		return 0, errors.Wrapf(outOfRange, "%s %d out of range", what, v)
	}
	return T(v), nil
}

// zigzagDecode maps 0,1,2,3,... to 0,-1,1,-2,...
func zigzagDecode[T constraints.Unsigned](v T) int64 {
	return int64(uint64(v)>>1) ^ -int64(uint64(v)&1)
}
