// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symdict

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternIdempotent(t *testing.T) {
	d := New()
	require.True(t, d.Intern("foo"))
	require.True(t, d.Intern("bar"))
	require.False(t, d.Intern("foo"))
	require.Equal(t, 2, d.Len())

	// Iteration order reflects only the first insertion position.
	entries := d.Entries()
	require.Equal(t, "foo", entries[0].Key)
	require.Equal(t, "bar", entries[1].Key)
}

func TestRenameOverwrite(t *testing.T) {
	d := New()
	d.Intern("k")
	require.NoError(t, d.Rename("k", "v1"))
	require.NoError(t, d.Rename("k", "v2"))
	e := d.Entries()[0]
	require.Equal(t, "v2", e.Name())
	require.Equal(t, "k", e.Key)
	require.True(t, e.Renamed())
}

func TestRenameUnknown(t *testing.T) {
	d := New()
	d.Intern("present")
	err := d.Rename("absent", "anything")
	require.Error(t, err)
	require.EqualError(t, err, "cannot find symbol 'absent'")

	var unknown *UnknownSymbolError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "absent", unknown.Name)

	// A failed rename mutates nothing.
	require.Equal(t, 1, d.Len())
	require.False(t, d.Entries()[0].Renamed())
}

func TestEffectiveName(t *testing.T) {
	d := New()
	d.Intern("a")
	d.Intern("b")
	require.NoError(t, d.Rename("b", "c"))
	entries := d.Entries()
	require.Equal(t, "a", entries[0].Name())
	require.Equal(t, "c", entries[1].Name())
}

func TestRenameToEmpty(t *testing.T) {
	// A zero-length replacement is legal and distinct from "not renamed".
	d := New()
	d.Intern("k")
	require.NoError(t, d.Rename("k", ""))
	e := d.Entries()[0]
	require.True(t, e.Renamed())
	require.Equal(t, "", e.Name())
}

func TestEmptyKey(t *testing.T) {
	d := New()
	require.True(t, d.Intern(""))
	require.False(t, d.Intern(""))
	require.NoError(t, d.Rename("", "named"))
	require.Equal(t, "named", d.Entries()[0].Name())
}

func TestGrowth(t *testing.T) {
	// The initial slot table holds 32 slots and grows past 2/3 load, so
	// 1000 keys force several doublings.
	d := New()
	const n = 1000
	for i := 0; i < n; i++ {
		require.True(t, d.Intern(fmt.Sprintf("sym%d", i)))
	}
	require.Equal(t, n, d.Len())

	// Every previously inserted key is still found after growth.
	for i := 0; i < n; i++ {
		require.NoError(t, d.Rename(fmt.Sprintf("sym%d", i), fmt.Sprintf("new%d", i)))
	}

	// Insertion order survived growth, and every value landed on the
	// right entry.
	for i, e := range d.Entries() {
		require.Equal(t, fmt.Sprintf("sym%d", i), e.Key)
		require.Equal(t, fmt.Sprintf("new%d", i), e.Name())
	}
}

func TestHashCollisionNeedsKeyEquality(t *testing.T) {
	// Slot match requires byte equality, not just hash equality, so keys
	// that collide on slots still resolve independently. With 32 initial
	// slots, any 33 distinct keys guarantee slot collisions.
	d := New()
	for i := 0; i < 33; i++ {
		d.Intern(fmt.Sprintf("k%d", i))
	}
	for i := 0; i < 33; i++ {
		key := fmt.Sprintf("k%d", i)
		require.False(t, d.Intern(key), "duplicate intern of %s must not create an entry", key)
	}
	require.Equal(t, 33, d.Len())
}
