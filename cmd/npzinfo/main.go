package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/kevin-cantwell/dotmatrix"
	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mdiff/npzview/npz"
	"github.com/mdiff/npzview/raster"
)

func main() {
	key := flag.String("key", "", "restrict output to one archive `key`")
	stats := flag.Bool("stats", false, "print value statistics per array")
	hist := flag.String("hist", "", "write an intensity histogram chart to this PNG `file`")
	preview := flag.Int("preview", -1, "print a braille preview of this slice `index`")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// Check if the filename argument is provided
	if flag.NArg() < 1 {
		fmt.Println("Usage: npzinfo [flags] <npz_file>")
		os.Exit(1)
	}

	if *verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ar, err := npz.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading archive: %v\n", err)
		os.Exit(1)
	}

	keys := ar.Keys()
	if *key != "" {
		keys = []string{*key}
	}

	for _, k := range keys {
		a, err := ar.Get(k)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading archive: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: shape %v, dtype %s, %d elements\n", k, a.Shape, a.Descr, a.Len())
		if *stats {
			printstats(a.Data)
		}
	}

	if *hist != "" {
		a, err := pick(ar, *key)
		if err == nil {
			err = histogram(a, *hist)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error plotting histogram: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Histogram saved in %s\n", *hist)
	}

	if *preview >= 0 {
		a, err := pick(ar, *key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error previewing slice: %v\n", err)
			os.Exit(1)
		}

		var r = raster.NewRenderer()
		r.Side = 128
		img, err := r.RenderSlice(a, *preview)
		if err == nil {
			err = dotmatrix.Print(os.Stdout, img)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error previewing slice: %v\n", err)
			os.Exit(1)
		}
	}
}

func pick(ar *npz.Archive, key string) (*npz.Array, error) {
	if key == "" {
		key = npz.DefaultKey
	}
	return ar.Get(key)
}

func printstats(xs []float64) {
	if len(xs) == 0 {
		fmt.Println("  empty")
		return
	}

	mean, std := stat.MeanStdDev(xs, nil)
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	fmt.Printf("  min %g  max %g  mean %g  std %g\n", floats.Min(xs), floats.Max(xs), mean, std)
	fmt.Printf("  q25 %g  median %g  q75 %g\n",
		stat.Quantile(0.25, stat.Empirical, sorted, nil),
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.Quantile(0.75, stat.Empirical, sorted, nil))
}

// histogram plots the value distribution of a over 64 equal bins.
func histogram(a *npz.Array, name string) error {
	if a.Len() == 0 {
		return fmt.Errorf("array is empty")
	}

	const bins = 64
	lo, hi := floats.Min(a.Data), floats.Max(a.Data)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return fmt.Errorf("no finite values")
	}
	if hi == lo {
		hi = lo + 1
	}

	xs := make([]float64, bins)
	ys := make([]float64, bins)
	for i := range xs {
		xs[i] = lo + (float64(i)+0.5)*(hi-lo)/bins
	}
	for _, v := range a.Data {
		if math.IsNaN(v) {
			continue
		}
		b := int((v - lo) / (hi - lo) * bins)
		if b < 0 {
			b = 0
		}
		if b >= bins {
			b = bins - 1
		}
		ys[b]++
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis:  chart.XAxis{Name: "value"},
		YAxis:  chart.YAxis{Name: "count"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "intensity",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorBlue.WithAlpha(64),
				},
			},
		},
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
