// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

// Command lz77 is a thin CLI front end around the lz77 package: compress or
// decompress a file using the custom LZ77 wire format.
package main

import (
	"flag"
	"fmt"
	"os"

	lz77 "github.com/antoniomacri-labs/lz77ppm-go"
)

func main() {
	decompress := flag.Bool("d", false, "decompress instead of compress")
	window := flag.Uint("window", uint(lz77.DefaultCompressOptions().Window), "sliding window size in bytes")
	lookahead := flag.Uint("lookahead", uint(lz77.DefaultCompressOptions().Lookahead), "look-ahead buffer size in bytes")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [-d] [-window N] [-lookahead N] <input> <output>\n", os.Args[0])
		os.Exit(2)
	}

	if err := run(*decompress, uint16(*window), uint16(*lookahead), flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(decompress bool, window, lookahead uint16, inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	var out []byte
	if decompress {
		out, err = lz77.DecompressBytes(data)
	} else {
		out, err = lz77.CompressBytes(data, &lz77.CompressOptions{Window: window, Lookahead: lookahead})
	}
	if err != nil {
		return err
	}

	return os.WriteFile(outPath, out, 0o644)
}
