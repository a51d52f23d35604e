// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coff

import (
	"bytes"
	"fmt"
)

// A StringTable is the raw COFF string table, including the 4-byte total
// length stored at its start. Long symbol names reference it by byte
// offset from the start of the table, so offsets 0 through 3 are never
// valid names.
type StringTable []byte

// String returns the NUL-terminated string at the given offset.
func (st StringTable) String(offset uint32) (string, error) {
	if offset < 4 {
		return "", fmt.Errorf("string table offset %d is inside the length field", offset)
	}
	if int64(offset) >= int64(len(st)) {
		return "", fmt.Errorf("string table offset %d out of range [4,%d)", offset, len(st))
	}
	return cString(st[offset:]), nil
}

// cString interprets b as a string up to the first NUL or the end of b,
// whichever comes first.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
