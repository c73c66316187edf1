package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/mdiff/npzview/npz"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error converting samples: %v\n", err)
		os.Exit(1)
	}
}

// run holds the whole conversion so tests can drive it with their own
// arguments and capture stdout.
func run(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("topng", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML config `file`")
	output := fs.String("o", "", "output `directory` (default png_samples next to the input)")
	key := fs.String("key", npz.DefaultKey, "archive `key` holding the volume")
	side := fs.Int("side", 1200, "output edge length in `pixels`")
	scale := fs.String("scale", "nearest", "resampling `kernel`: nearest, bilinear or catmullrom")
	bits := fs.Int("bits", 8, "bits per pixel, 8 or 16")
	perSlice := fs.Bool("per-slice", false, "normalize each slice against its own range")
	vmin := fs.Float64("vmin", math.NaN(), "fixed black point")
	vmax := fs.Float64("vmax", math.NaN(), "fixed white point")
	invert := fs.Bool("invert", false, "map high values to black")
	prefix := fs.String("prefix", "sample_", "output file name `prefix`")
	logLevel := fs.String("log-level", "info", "log `level`: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := defaultConfig()
	if *configFile != "" {
		if err := loadConfig(*configFile, cfg); err != nil {
			return err
		}
	}

	// Flags set on the command line win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output = *output
		case "key":
			cfg.Key = *key
		case "side":
			cfg.Side = *side
		case "scale":
			cfg.Scale = *scale
		case "bits":
			cfg.Bits = *bits
		case "per-slice":
			cfg.PerSlice = *perSlice
		case "vmin":
			cfg.VMin = vmin
		case "vmax":
			cfg.VMax = vmax
		case "invert":
			cfg.Invert = *invert
		case "prefix":
			cfg.Prefix = *prefix
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	slog.SetDefault(newLogger(cfg.LogLevel, os.Stderr))

	outdir := cfg.Output
	if outdir == "" {
		outdir = filepath.Join(filepath.Dir(cfg.Input), "png_samples")
	}

	n, err := cfg.renderer().ToPNGs(cfg.Input, outdir)
	if err != nil {
		return err
	}
	slog.Info("conversion done", "samples", n, "dir", outdir)

	fmt.Fprintf(out, "Samples saved as PNG files in %s\n", outdir)
	return nil
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
