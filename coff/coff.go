// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coff reads and rewrites the symbol table of a Microsoft COFF
// object file.
//
// The package deliberately understands as little of COFF as possible: it
// parses the file header to locate the symbol table, treats everything
// before the symbol table as an opaque byte range to be copied through
// verbatim, and only ever rewrites symbol name encodings and the string
// table. Section contents, relocations, and the header itself are never
// touched.
package coff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// FileHeader is the 20-byte header at the start of a COFF object file.
// All multi-byte fields are little-endian.
type FileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

// FileHeaderSize is the encoded size of FileHeader in bytes.
const FileHeaderSize = 20

// A File is an in-memory COFF object broken into the three ranges the
// rewrite works on: the verbatim preamble (file start through symbol
// table start), the symbol record array, and the string table.
type File struct {
	Header FileHeader

	// Symbols holds every symbol table record, primaries and auxiliary
	// records alike, in file order.
	Symbols []SymbolRecord

	// StringTable is the raw string table region, including its leading
	// 4-byte length field. It is nil if the file has no string table.
	StringTable StringTable

	// preamble is everything from the start of the file up to the symbol
	// table. It is copied through unmodified on write.
	preamble []byte
}

// NewFile parses a COFF object of the given size from r. It validates
// that the symbol table and string table regions declared by the header
// lie within the file before reading them.
func NewFile(r io.ReaderAt, size int64) (*File, error) {
	if size < FileHeaderSize {
		return nil, fmt.Errorf("file too short for COFF header: %d bytes", size)
	}
	var hdr FileHeader
	if err := binary.Read(io.NewSectionReader(r, 0, FileHeaderSize), binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	if hdr.PointerToSymbolTable == 0 || hdr.NumberOfSymbols == 0 {
		return nil, errors.New("file has no symbol table")
	}

	symOff := int64(hdr.PointerToSymbolTable)
	nsym := int64(hdr.NumberOfSymbols)
	symEnd := symOff + nsym*SymbolSize
	if symOff < FileHeaderSize || symOff > size {
		return nil, fmt.Errorf("symbol table offset %d outside file of %d bytes", symOff, size)
	}
	if symEnd > size {
		return nil, fmt.Errorf("symbol table [%d,%d) extends past end of file (%d bytes)", symOff, symEnd, size)
	}

	preamble := make([]byte, symOff)
	if _, err := r.ReadAt(preamble, 0); err != nil {
		return nil, fmt.Errorf("reading preamble: %w", err)
	}

	symbols := make([]SymbolRecord, nsym)
	sr := io.NewSectionReader(r, symOff, nsym*SymbolSize)
	if err := binary.Read(sr, binary.LittleEndian, symbols); err != nil {
		return nil, fmt.Errorf("reading symbol table: %w", err)
	}

	table, err := readStringTable(r, symEnd, size)
	if err != nil {
		return nil, err
	}

	return &File{
		Header:      hdr,
		Symbols:     symbols,
		StringTable: table,
		preamble:    preamble,
	}, nil
}

// readStringTable reads the string table region [off, size). A file whose
// symbol table runs to EOF simply has no string table.
func readStringTable(r io.ReaderAt, off, size int64) (StringTable, error) {
	if off == size {
		return nil, nil
	}
	var lenField [4]byte
	if _, err := r.ReadAt(lenField[:], off); err != nil {
		return nil, fmt.Errorf("reading string table length: %w", err)
	}
	n := int64(binary.LittleEndian.Uint32(lenField[:]))
	if n < 4 {
		return nil, fmt.Errorf("string table length %d smaller than its own length field", n)
	}
	if off+n > size {
		return nil, fmt.Errorf("string table [%d,%d) extends past end of file (%d bytes)", off, off+n, size)
	}
	table := make([]byte, n)
	if _, err := r.ReadAt(table, off); err != nil {
		return nil, fmt.Errorf("reading string table: %w", err)
	}
	return StringTable(table), nil
}

// WriteTo writes the object back out: preamble, symbol records, string
// table, contiguously in that order. The record count and record size
// match the input exactly; only name encodings and the string table
// differ.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.preamble)
	written := int64(n)
	if err != nil {
		return written, err
	}
	cw := &countingWriter{w: w}
	if err := binary.Write(cw, binary.LittleEndian, f.Symbols); err != nil {
		return written + cw.n, err
	}
	written += cw.n
	n, err = w.Write(f.StringTable)
	return written + int64(n), err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
