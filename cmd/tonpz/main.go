package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mdiff/npzview/raster"
)

func main() {
	size := flag.Int("size", 64, "output edge length in `pixels`")
	dtype := flag.String("dtype", "|u1", "element `type`: |u1, <f2, <f4 or <f8")
	scale := flag.String("scale", "bilinear", "resampling `kernel`: nearest, bilinear or catmullrom")
	crop := flag.String("crop", "center", "crop `mode`: center or random")
	gray := flag.Bool("gray", true, "single grayscale channel instead of RGB")
	classCond := flag.Bool("class-cond", false, "store class labels from file name prefixes")
	classes := flag.Int("classes", 0, "expected class `count` (0 disables the check)")
	lowRes := flag.Int("low-res", 0, "also store a downsampled copy at this edge length")
	compress := flag.Bool("compress", false, "deflate archive members")
	output := flag.String("o", "", "output `file` (default <image_dir>.npz)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// Check if the directory argument is provided
	if flag.NArg() < 1 {
		fmt.Println("Usage: tonpz [flags] <image_dir>")
		os.Exit(1)
	}

	if *verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var dir = flag.Arg(0)

	var g = raster.NewIngestor()
	g.Size = *size
	g.Dtype = *dtype
	g.Scale = *scale
	g.Crop = *crop
	g.Gray = *gray
	g.ClassCond = *classCond
	g.Classes = *classes
	g.LowRes = *lowRes
	g.Compress = *compress

	outputFile := *output
	if outputFile == "" {
		outputFile = filepath.Clean(dir) + ".npz"
	}

	n, err := g.ToNpz(dir, outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building archive: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved %d samples to %s\n", n, outputFile)
}
