// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coff

import (
	"encoding/binary"
	"fmt"

	"github.com/ductory/smc/strtab"
	"github.com/ductory/smc/symdict"
)

// SymbolSize is the encoded size of a SymbolRecord in bytes.
const SymbolSize = 18

// A SymbolRecord is one fixed-size entry in the COFF symbol table. A
// primary record is followed by NumberOfAuxSymbols auxiliary records that
// belong to it; auxiliary records reuse this layout but carry
// format-specific data and are copied through unmodified.
type SymbolRecord struct {
	Name               [8]byte
	Value              uint32
	SectionNumber      int16
	Type               uint16
	StorageClass       uint8
	NumberOfAuxSymbols uint8
}

// nameOffset reports whether the record's name lives in the string table,
// and if so at which offset. A name whose first 4 bytes are all zero is a
// string table reference; anything else is inline. COFF relies on exactly
// this zero test: an inline name can never begin with a NUL.
func (s *SymbolRecord) nameOffset() (uint32, bool) {
	if s.Name[0] == 0 && s.Name[1] == 0 && s.Name[2] == 0 && s.Name[3] == 0 {
		return binary.LittleEndian.Uint32(s.Name[4:]), true
	}
	return 0, false
}

// setInlineName stores a name of at most 8 bytes directly in the record.
// A name of exactly 8 bytes fills the field with no terminator; shorter
// names are NUL-padded.
func (s *SymbolRecord) setInlineName(name string) {
	var field [8]byte
	copy(field[:], name)
	s.Name = field
}

// setLongName stores a string table reference in the record.
func (s *SymbolRecord) setLongName(offset uint32) {
	var field [8]byte
	binary.LittleEndian.PutUint32(field[4:], offset)
	s.Name = field
}

// symbolName decodes the record's name, resolving string table
// references against f's original string table.
func (f *File) symbolName(s *SymbolRecord) (string, error) {
	if offset, long := s.nameOffset(); long {
		return f.StringTable.String(offset)
	}
	return cString(s.Name[:]), nil
}

// SymbolNames decodes the name of every primary symbol, in file order,
// into a fresh dictionary. The first occurrence of a duplicated name
// claims the entry; later occurrences are dropped.
func (f *File) SymbolNames() (*symdict.Dict, error) {
	d := symdict.New()
	i := 0
	for i < len(f.Symbols) {
		sym := &f.Symbols[i]
		name, err := f.symbolName(sym)
		if err != nil {
			return nil, fmt.Errorf("symbol %d: %w", i, err)
		}
		d.Intern(name)
		i += 1 + int(sym.NumberOfAuxSymbols)
	}
	if i != len(f.Symbols) {
		return nil, fmt.Errorf("auxiliary records extend %d entries past the end of the symbol table", i-len(f.Symbols))
	}
	return d, nil
}

// RewriteNames re-encodes every primary symbol's name from d and rebuilds
// the string table. Dictionary entries pair with primary records in
// insertion order, which SymbolNames established as file order. Whether a
// name is stored inline or in the string table is decided afresh from the
// effective name's length, regardless of how the original was encoded.
//
// d must have been produced by SymbolNames on this file and must hold
// exactly one entry per primary record; a symbol table with duplicated
// names breaks that pairing and is rejected.
func (f *File) RewriteNames(d *symdict.Dict) error {
	entries := d.Entries()
	b := strtab.NewBuilder()
	e := 0
	for i := 0; i < len(f.Symbols); i += 1 + int(f.Symbols[i].NumberOfAuxSymbols) {
		if e == len(entries) {
			return fmt.Errorf("symbol table has more primary records than dictionary entries (duplicate symbol names?)")
		}
		sym := &f.Symbols[i]
		name := entries[e].Name()
		if len(name) <= 8 {
			sym.setInlineName(name)
		} else {
			sym.setLongName(b.Append(name))
		}
		e++
	}
	if e != len(entries) {
		return fmt.Errorf("dictionary has %d entries but symbol table has %d primary records", len(entries), e)
	}
	f.StringTable = b.Finish()
	return nil
}
