// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package reader implements the boundary-checked binary read cursor shared
// by every binary-format parser in unityasset (container, serialized, and
// the type-tree object dispatcher). It generalizes the teacher's
// saferwall-pe/helper.go offset-taking ReadUint32/ReadBytesAtOffset
// functions into a stateful cursor with a configurable byte order, since
// Unity flips endianness mid-file (spec §4.4) where PE never does.
package reader

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/saferwall/unityasset/core"
)

// ErrUnexpectedEOF is returned when a read would run past the end of the
// underlying buffer.
var ErrUnexpectedEOF = errors.New("unexpected end of buffer")

// Reader is a read cursor over an immutable byte slice.
type Reader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

// New returns a Reader over buf using the given byte order.
func New(buf []byte, order binary.ByteOrder) *Reader {
	if order == nil {
		order = binary.BigEndian
	}
	return &Reader{buf: buf, order: order}
}

// SetByteOrder changes the byte order used for subsequent multi-byte
// reads. Used for the SerializedFile endianness flip (spec §4.4): the
// header is read in a fixed order, then the declared endianness flag
// takes over for everything downstream.
func (r *Reader) SetByteOrder(order binary.ByteOrder) { r.order = order }

// ByteOrder returns the reader's current byte order.
func (r *Reader) ByteOrder() binary.ByteOrder { return r.order }

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.buf) }

// Position returns the current cursor offset.
func (r *Reader) Position() int { return r.pos }

// SetPosition moves the cursor to an absolute offset. It does not bounds
// check eagerly; the next read will fail if the position is out of range.
func (r *Reader) SetPosition(p int) { r.pos = p }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.buf) || r.pos < 0 {
		return core.NewError(core.KindIO, "reader.Read", ErrUnexpectedEOF)
	}
	return nil
}

// ReadBytes reads and returns the next n bytes, advancing the cursor. The
// returned slice aliases the underlying buffer; callers that need to
// retain it across further reads should copy it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadRemaining returns every unread byte without advancing past the end.
func (r *Reader) ReadRemaining() []byte {
	b := r.buf[r.pos:]
	r.pos = len(r.buf)
	return b
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads a signed 8-bit integer.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadBool reads one byte; non-zero is true.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

// ReadU16 reads an unsigned 16-bit integer in the reader's byte order.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// ReadI16 reads a signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// ReadI64 reads a signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads an IEEE-754 32-bit float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads an IEEE-754 64-bit float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadCString reads bytes up to (and consuming) the next 0 byte.
func (r *Reader) ReadCString() (string, error) {
	start := r.pos
	for {
		if r.pos >= len(r.buf) {
			return "", core.NewError(core.KindIO, "reader.ReadCString", ErrUnexpectedEOF)
		}
		if r.buf[r.pos] == 0 {
			s := string(r.buf[start:r.pos])
			r.pos++
			return s, nil
		}
		r.pos++
	}
}

// ReadAlignedString reads a u32 length prefix, then that many bytes, then
// advances the cursor to the next 4-byte boundary (spec §4.1).
func (r *Reader) ReadAlignedString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	r.Align(4)
	return string(b), nil
}

// Align advances the cursor to the next boundary multiple, if it isn't
// already on one. It never moves backward.
func (r *Reader) Align(boundary int) {
	rem := r.pos % boundary
	if rem != 0 {
		r.pos += boundary - rem
	}
}
