package raster

import "errors"
import "fmt"
import "image"
import "io/fs"
import "math/rand"
import "os"
import "path/filepath"
import "sort"
import "strings"

import "golang.org/x/image/draw"

import "github.com/mdiff/npzview/npz"

// Ingestor represents the configuration for building sample volumes from
// directories of image files.
type Ingestor struct {
	Size  int    // output H and W in pixels
	Dtype string // element type of the stored volume
	Scale string // resampling kernel
	Crop  string // center or random
	Gray  bool   // single grayscale channel instead of RGB

	// ClassCond derives an integer class label for every image from the
	// part of its file name before the first underscore and stores the
	// labels alongside the volume.
	ClassCond bool
	Classes   int // expected class count, 0 skips the check

	// LowRes also stores a downsampled copy of every image at this edge
	// length under the low_res key. 0 disables it.
	LowRes int

	Compress bool // deflate archive members
}

// NewIngestor creates a new Ingestor instance with default values.
func NewIngestor() *Ingestor {
	return &Ingestor{
		Size:  64,
		Dtype: "|u1",
		Scale: "bilinear",
		Crop:  "center",
		Gray:  true,
	}
}

var ErrNoImages = errors.New("noImagesFound")
var ErrClassCount = errors.New("classCountMismatch")

// LoadDir builds a sample volume from every image file under dir, walked
// recursively in lexical order. Images are cropped square, resampled to
// Size and stored with one grayscale channel, or three RGB channels when
// Gray is off. Integer volumes hold values in 0..255, float volumes
// in -1..1.
func (g *Ingestor) LoadDir(dir string) (*npz.Archive, error) {
	files, err := listimages(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImages, dir)
	}

	sc := scaler(g.Scale)
	float := isfloat(g.Dtype)
	channels := 3
	if g.Gray {
		channels = 1
	}

	var data, lowres []float64
	var names []string
	for _, path := range files {
		img, err := loadimage(path)
		if err != nil {
			return nil, fmt.Errorf("ingest %s: %w", path, err)
		}
		crop := squarerect(img.Bounds(), g.Crop == "random")
		data = append(data, pixels(img, crop, g.Size, sc, float, g.Gray)...)
		if g.LowRes > 0 {
			lowres = append(lowres, pixels(img, crop, g.LowRes, sc, float, g.Gray)...)
		}
		names = append(names, filepath.Base(path))
	}

	ar := npz.NewArchive()
	ar.Add(npz.DefaultKey, &npz.Array{
		Shape: []int{len(files), g.Size, g.Size, channels},
		Descr: g.Dtype,
		Data:  data,
	})
	if g.ClassCond {
		lab, count := labels(names)
		if g.Classes > 0 && count != g.Classes {
			return nil, fmt.Errorf("%w: found %d classes, want %d", ErrClassCount, count, g.Classes)
		}
		ar.Add("arr_1", &npz.Array{
			Shape: []int{len(files)},
			Descr: "<i8",
			Data:  lab,
		})
	}
	if g.LowRes > 0 {
		ar.Add("low_res", &npz.Array{
			Shape: []int{len(files), g.LowRes, g.LowRes, channels},
			Descr: g.Dtype,
			Data:  lowres,
		})
	}

	return ar, nil
}

// ToNpz builds a sample volume from the images under inputDir and saves it
// as an .npz archive. It returns the number of samples stored.
func (g *Ingestor) ToNpz(inputDir, outputFile string) (int, error) {
	ar, err := g.LoadDir(inputDir)
	if err != nil {
		return 0, err
	}
	a, err := ar.Get(npz.DefaultKey)
	if err != nil {
		return 0, err
	}

	if g.Compress {
		return a.Shape[0], npz.WriteFileCompressed(outputFile, ar)
	}
	return a.Shape[0], npz.WriteFile(outputFile, ar)
}

func listimages(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jpg", ".jpeg", ".png", ".gif":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func loadimage(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// squarerect picks the largest square window inside b, centered or at a
// random offset.
func squarerect(b image.Rectangle, random bool) image.Rectangle {
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}

	dx, dy := b.Dx()-side, b.Dy()-side
	if random {
		dx, dy = rand.Intn(dx+1), rand.Intn(dy+1)
	} else {
		dx, dy = dx/2, dy/2
	}
	return image.Rect(b.Min.X+dx, b.Min.Y+dy, b.Min.X+dx+side, b.Min.Y+dy+side)
}

func pixels(img image.Image, crop image.Rectangle, size int, sc draw.Scaler, float, gray bool) []float64 {
	var raw []uint8
	if gray {
		dst := image.NewGray(image.Rect(0, 0, size, size))
		sc.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
		raw = dst.Pix
	} else {
		dst := image.NewNRGBA(image.Rect(0, 0, size, size))
		sc.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
		raw = make([]uint8, 0, size*size*3)
		for i := 0; i < len(dst.Pix); i += 4 {
			raw = append(raw, dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2])
		}
	}

	out := make([]float64, len(raw))
	for i, v := range raw {
		if float {
			out[i] = float64(v)/127.5 - 1
		} else {
			out[i] = float64(v)
		}
	}
	return out
}

func isfloat(descr string) bool {
	for i := 0; i < len(descr); i++ {
		switch descr[i] {
		case '<', '>', '|', '=':
			continue
		}
		return descr[i] == 'f'
	}
	return false
}

// labels maps file name prefixes to dense class indices, alphabetically.
func labels(names []string) ([]float64, int) {
	classes := make(map[string]int)
	for _, n := range names {
		classes[strings.SplitN(n, "_", 2)[0]] = 0
	}

	sorted := make([]string, 0, len(classes))
	for c := range classes {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)
	for i, c := range sorted {
		classes[c] = i
	}

	out := make([]float64, len(names))
	for i, n := range names {
		out[i] = float64(classes[strings.SplitN(n, "_", 2)[0]])
	}
	return out, len(sorted)
}
