// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strtab

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendOffsets(t *testing.T) {
	b := NewBuilder()
	require.Equal(t, uint32(4), b.Len(), "length field is pre-claimed")

	off1 := b.Append("averylongsymbolname")
	require.Equal(t, uint32(4), off1, "first string starts right after the length field")

	off2 := b.Append("second")
	require.Equal(t, off1+uint32(len("averylongsymbolname"))+1, off2)
	require.Equal(t, off2+uint32(len("second"))+1, b.Len())
}

func TestFinish(t *testing.T) {
	b := NewBuilder()
	b.Append("abc")
	table := b.Finish()

	require.Equal(t, binary.LittleEndian.Uint32(table[:4]), uint32(len(table)))
	require.Equal(t, []byte("abc\x00"), table[4:8])
}

func TestFinishEmpty(t *testing.T) {
	table := NewBuilder().Finish()
	require.Equal(t, []byte{4, 0, 0, 0}, table)
}

func TestOffsetsStableAcrossGrowth(t *testing.T) {
	// Push the buffer well past its initial capacity and check that every
	// returned offset still locates its string.
	b := NewBuilder()
	type appended struct {
		s   string
		off uint32
	}
	var all []appended
	for i := 0; i < 200; i++ {
		s := fmt.Sprintf("symbol_with_a_rather_long_name_%d", i)
		all = append(all, appended{s, b.Append(s)})
	}
	table := b.Finish()
	for _, a := range all {
		end := a.off + uint32(len(a.s))
		require.Equal(t, a.s, string(table[a.off:end]))
		require.Equal(t, byte(0), table[end], "string is NUL-terminated")
	}
}
