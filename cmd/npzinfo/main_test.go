package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdiff/npzview/npz"
)

func TestHistogramSkipsNaN(t *testing.T) {
	a := &npz.Array{
		Shape: []int{4},
		Descr: "<f8",
		Data:  []float64{0, math.NaN(), 128, 255},
	}

	path := filepath.Join(t.TempDir(), "hist.png")
	if err := histogram(a, path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestHistogramAllNaN(t *testing.T) {
	a := &npz.Array{
		Shape: []int{2},
		Descr: "<f8",
		Data:  []float64{math.NaN(), math.NaN()},
	}

	if err := histogram(a, filepath.Join(t.TempDir(), "hist.png")); err == nil {
		t.Fatal("expected error for an all-NaN array")
	}
}
