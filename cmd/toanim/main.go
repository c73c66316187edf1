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
	side := flag.Int("side", 256, "frame edge length in `pixels`")
	delay := flag.Int("delay", 10, "GIF and APNG frame delay in `centiseconds`")
	fps := flag.Int("fps", 10, "AVI frame `rate`")
	scale := flag.String("scale", "nearest", "resampling `kernel`: nearest, bilinear or catmullrom")
	perSlice := flag.Bool("per-slice", false, "normalize each slice against its own range")
	invert := flag.Bool("invert", false, "map high values to black")
	output := flag.String("o", "", "output `file`, extension picks the container (default <npz_file>.gif)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// Check if the filename argument is provided
	if flag.NArg() < 1 {
		fmt.Println("Usage: toanim [flags] <npz_file>")
		os.Exit(1)
	}

	if *verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var filename = flag.Arg(0)

	var r = raster.NewRenderer()
	r.Key = *key
	r.Side = *side
	r.Delay = *delay
	r.FPS = *fps
	r.Scale = *scale
	r.PerSlice = *perSlice
	r.Invert = *invert

	outputFile := *output
	if outputFile == "" {
		outputFile = filename + ".gif"
	}

	err := r.ToAnim(filename, outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering animation: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Animation saved in %s\n", outputFile)
}
