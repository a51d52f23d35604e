// Copyright 2024 The smc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Smc renames symbols in a COFF object file.
//
// Usage:
//
//	smc infile outfile old new [old new ...]
//
// where:
//
//	infile      is the name of the input COFF file.
//	outfile     is the name for the output COFF file with modified symbols.
//	old new     is a pair where 'old' is the original symbol name to be
//	            modified and 'new' is the new symbol name.
//	@listfile   is an optional argument where 'listfile' is a file
//	            containing multiple 'old new' pairs.
//
// Either every requested rename is applied and the full output is
// written, or smc reports the failure and writes nothing.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/exp/mmap"

	"github.com/ductory/smc/coff"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Symbol Modifier for COFF (smc)
Usage: smc infile outfile old new [old new ...]
where:
  infile      is the name of the input COFF file.
  outfile     is the name for the output COFF file with modified symbols.
  old new     is a pair where 'old' is the original symbol name to be modified
              and 'new' is the new symbol name.
  @listfile   is an optional argument where 'listfile' is a file containing
              multiple 'old new' pairs.
`)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 2 {
		usage()
		return
	}
	if err := run(args[0], args[1], args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "smc:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, renameArgs []string) error {
	pairs, err := parseRenameArgs(renameArgs)
	if err != nil {
		return err
	}

	r, err := mmap.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inPath, err)
	}
	defer r.Close()

	f, err := coff.NewFile(r, int64(r.Len()))
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	dict, err := f.SymbolNames()
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	for _, p := range pairs {
		if err := dict.Rename(p.Old, p.New); err != nil {
			return err
		}
	}
	if err := f.RewriteNames(dict); err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	// Every rename has been applied in memory. Only now touch the output.
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
