package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mdiff/npzview/npz"
	"github.com/mdiff/npzview/raster"
)

func main() {
	key := flag.String("key", npz.DefaultKey, "archive `key` holding the volume")
	cell := flag.Int("cell", 128, "tile edge length in `pixels`")
	columns := flag.Int("columns", 0, "grid `columns` (0 picks a near-square grid)")
	scale := flag.String("scale", "nearest", "resampling `kernel`: nearest, bilinear or catmullrom")
	perSlice := flag.Bool("per-slice", false, "normalize each slice against its own range")
	invert := flag.Bool("invert", false, "map high values to black")
	output := flag.String("o", "", "output `file` (default <npz_file>.sheet.png)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// Check if the filename argument is provided
	if flag.NArg() < 1 {
		fmt.Println("Usage: tosheet [flags] <npz_file>")
		os.Exit(1)
	}

	if *verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var filename = flag.Arg(0)

	var r = raster.NewRenderer()
	r.Key = *key
	r.Cell = *cell
	r.Columns = *columns
	r.Scale = *scale
	r.PerSlice = *perSlice
	r.Invert = *invert

	outputFile := *output
	if outputFile == "" {
		outputFile = filename + ".sheet.png"
	}

	err := r.ToSheet(filename, outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering contact sheet: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Contact sheet saved in %s\n", outputFile)
}
