// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"
)

// A renamePair is one requested symbol rename.
type renamePair struct {
	Old, New string
}

// parseRenameArgs expands the rename arguments into an ordered pair list.
// A plain argument pairs with the argument after it; an argument of the
// form @file reads whitespace-separated old/new pairs from file, one or
// more per line. Pairs from a list file apply exactly as if they had been
// given on the command line in its place.
func parseRenameArgs(args []string) ([]renamePair, error) {
	var pairs []renamePair
	for i := 0; i < len(args); {
		if name, ok := strings.CutPrefix(args[i], "@"); ok {
			filePairs, err := readListFile(name)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, filePairs...)
			i++
			continue
		}
		if i+1 == len(args) {
			return nil, fmt.Errorf("missing new name for symbol '%s'", args[i])
		}
		pairs = append(pairs, renamePair{args[i], args[i+1]})
		i += 2
	}
	return pairs, nil
}

func readListFile(name string) ([]renamePair, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("list file %s: missing new name for symbol '%s'", name, fields[len(fields)-1])
	}
	pairs := make([]renamePair, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		pairs = append(pairs, renamePair{fields[i], fields[i+1]})
	}
	return pairs, nil
}
