// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package strtab builds COFF string tables.
//
// A COFF string table is a sequence of NUL-terminated strings referenced
// by byte offset from the start of the table. The first 4 bytes hold the
// table's own total length (including those 4 bytes), so the first real
// string lives at offset 4 and offsets 0 through 3 are never handed out.
package strtab

import "encoding/binary"

const initialCap = 256

// lenFieldSize is the size of the leading length field, which is also
// counted in the value stored there.
const lenFieldSize = 4

// A Builder accumulates NUL-terminated strings and assigns each one a
// stable offset. Offsets remain valid for the Builder's lifetime: growth
// reallocates the backing array but never moves the logical content.
type Builder struct {
	buf []byte
}

// NewBuilder returns a Builder whose length field is already claimed.
func NewBuilder() *Builder {
	b := &Builder{buf: make([]byte, lenFieldSize, initialCap)}
	return b
}

// Append copies s plus a NUL terminator to the end of the table and
// returns the offset at which s begins.
func (b *Builder) Append(s string) uint32 {
	need := len(b.buf) + len(s) + 1
	if need > cap(b.buf) {
		newCap := cap(b.buf)
		for need > newCap {
			newCap <<= 1
		}
		grown := make([]byte, len(b.buf), newCap)
		copy(grown, b.buf)
		b.buf = grown
	}
	off := uint32(len(b.buf))
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	return off
}

// Len returns the table's current total length, including the length
// field itself.
func (b *Builder) Len() uint32 {
	return uint32(len(b.buf))
}

// Finish stores the total length into the table's first 4 bytes and
// returns the finished table. The Builder must not be appended to after
// Finish.
func (b *Builder) Finish() []byte {
	binary.LittleEndian.PutUint32(b.buf[:lenFieldSize], uint32(len(b.buf)))
	return b.buf
}
