// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symdict implements an insertion-ordered dictionary from symbol
// name to optional replacement name.
package symdict

import "fmt"

const initialBits = 5

// slotEmpty marks an unused slot in the index table.
const slotEmpty = -1

// An Entry records one symbol name and, once Rename has been applied to
// it, the replacement name.
type Entry struct {
	// Key is the symbol name exactly as decoded from the file.
	Key string

	hash    uint32
	newName string
	renamed bool
}

// Name returns the effective name of the entry: the replacement if the
// symbol has been renamed, otherwise the original name.
func (e *Entry) Name() string {
	if e.renamed {
		return e.newName
	}
	return e.Key
}

// Renamed reports whether a replacement name has been set for the entry.
func (e *Entry) Renamed() bool {
	return e.renamed
}

// A Dict is a dictionary of symbol names that preserves first-insertion
// order independent of hash placement.
//
// Entries live in an append-only slice indexed 0..Len()-1; the slot table
// is open-addressed and stores entry indices, so growth re-places slots
// without ever moving an entry.
type Dict struct {
	entries []Entry
	slots   []int32
	mask    uint32
}

// New returns an empty Dict.
func New() *Dict {
	d := &Dict{
		slots: make([]int32, 1<<initialBits),
		mask:  1<<initialBits - 1,
	}
	for i := range d.slots {
		d.slots[i] = slotEmpty
	}
	return d
}

// hashKey hashes the raw bytes of key with an unseeded shift accumulator.
// Not adversary-resistant; the keys come from a file the user already
// controls.
func hashKey(key string) uint32 {
	h := uint32(1)
	for i := 0; i < len(key); i++ {
		h += h<<5 + h>>27 + uint32(key[i])
	}
	return h
}

// findSlot probes for key and returns the slot index holding it, or the
// first empty slot if the key is absent. With a power-of-two table the
// probe sequence i = 5i+1 visits every slot, and the table is never full,
// so this always terminates.
func (d *Dict) findSlot(hash uint32, key string) uint32 {
	i := hash & d.mask
	for {
		e := d.slots[i]
		if e == slotEmpty {
			return i
		}
		ent := &d.entries[e]
		if ent.hash == hash && ent.Key == key {
			return i
		}
		i = (5*i + 1) & d.mask
	}
}

// Intern adds key with no replacement name and reports whether a new
// entry was created. Interning a key that is already present is a no-op:
// the first occurrence keeps its insertion position.
func (d *Dict) Intern(key string) bool {
	hash := hashKey(key)
	i := d.findSlot(hash, key)
	if d.slots[i] != slotEmpty {
		return false
	}
	d.slots[i] = int32(len(d.entries))
	d.entries = append(d.entries, Entry{Key: key, hash: hash})
	if len(d.entries) > len(d.slots)*2/3 {
		d.grow()
	}
	return true
}

// Rename sets the replacement name for old. Renaming the same key again
// overwrites the previous replacement. If old was never interned, Rename
// returns an *UnknownSymbolError and changes nothing.
func (d *Dict) Rename(old, replacement string) error {
	i := d.findSlot(hashKey(old), old)
	e := d.slots[i]
	if e == slotEmpty {
		return &UnknownSymbolError{Name: old}
	}
	ent := &d.entries[e]
	ent.newName = replacement
	ent.renamed = true
	return nil
}

// grow doubles the slot table and re-places every entry's slot reference
// from its stored hash. Entries themselves stay put.
func (d *Dict) grow() {
	d.slots = make([]int32, 2*len(d.slots))
	d.mask = uint32(len(d.slots)) - 1
	for i := range d.slots {
		d.slots[i] = slotEmpty
	}
	for e := range d.entries {
		i := d.entries[e].hash & d.mask
		for d.slots[i] != slotEmpty {
			i = (5*i + 1) & d.mask
		}
		d.slots[i] = int32(e)
	}
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.entries)
}

// Entries returns the entries in insertion order. The caller must not
// modify the returned slice; it aliases the Dict's storage.
func (d *Dict) Entries() []Entry {
	return d.entries
}

// An UnknownSymbolError reports a rename of a symbol that does not exist
// in the symbol table.
type UnknownSymbolError struct {
	Name string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("cannot find symbol '%s'", e.Name)
}
