package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sendblocks/custom-indexer-example/internal/abiconv"
	"github.com/sendblocks/custom-indexer-example/internal/adapter"
)

var (
	in      = flag.String("in", "", "path to the contract ABI JSON file")
	out     = flag.String("out", "", "output path for the events-only ABI (default <in>.events.json)")
	compact = flag.Bool("compact", false, "emit compact JSON instead of indented")
)

func check(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	flag.Parse()

	if *in == "" {
		check(errors.New("missing -in (ABI file) arg"))
	}

	outPath := *out
	if outPath == "" {
		outPath = strings.TrimSuffix(*in, filepath.Ext(*in)) + ".events.json"
	}

	converter := abiconv.NewConverter(adapter.NewFileSystem())
	check(converter.ConvertFile(*in, outPath, *compact))

	fmt.Printf("wrote %s\n", outPath)
}
