package raster

import "errors"
import "fmt"
import "image"
import "log/slog"
import "math"
import "os"
import "path/filepath"
import "strings"

import "github.com/setanarut/apng"
import "golang.org/x/image/draw"

import "github.com/mdiff/npzview/npz"

// Renderer represents the configuration for rendering sample volumes.
type Renderer struct {
	Side   int    // output length of the longer slice side in pixels
	Scale  string // resampling kernel: nearest, bilinear or catmullrom
	Bits   int    // 8 or 16 bits per pixel
	Key    string // archive key holding the volume
	Prefix string // file name prefix for numbered slice output

	// PerSlice normalizes each slice against its own value range instead
	// of the range of the whole volume.
	PerSlice bool
	VMin     float64 // fixed black point, NaN picks it from the data
	VMax     float64 // fixed white point, NaN picks it from the data
	Invert   bool    // map high values to black

	Cell    int // sheet tile edge length in pixels
	Columns int // sheet columns, 0 picks a near-square grid

	Delay int // GIF and APNG frame delay in hundredths of a second
	FPS   int // AVI frame rate
}

// NewRenderer creates a new Renderer instance with default values.
func NewRenderer() *Renderer {
	return &Renderer{
		Side:   1200,
		Scale:  "nearest",
		Bits:   8,
		Key:    npz.DefaultKey,
		Prefix: "sample_",
		VMin:   math.NaN(),
		VMax:   math.NaN(),
		Cell:   128,
		Delay:  10,
		FPS:    10,
	}
}

var ErrShape = errors.New("notSampleVolume")
var ErrAnimFormat = errors.New("badAnimExtension")

// SaveSlices renders every slice along the first axis of a into dir, one
// PNG per slice, numbered from 1. The directory is created if it does not
// exist and existing files are overwritten. It returns the number of files
// written. A volume with no slices creates the directory and nothing else.
func (r *Renderer) SaveSlices(a *npz.Array, dir string) (int, error) {
	n, h, w, err := slicedims(a)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	sc := scaler(r.Scale)
	spans := r.spans(a, n, h, w)

	for i := 0; i < n; i++ {
		img := render(r.view(a, i, h, w, spans[i]), r.Side, r.Bits, sc)
		name := filepath.Join(dir, fmt.Sprintf("%s%d.png", r.Prefix, i+1))
		if err := dumpimage(name, img); err != nil {
			return i, err
		}
		slog.Debug("rendered slice", "file", name, "index", i)
	}

	return n, nil
}

// SaveSheet tiles every slice of a into a single grid image and saves it
// as a PNG. Slices fill the grid row by row in axis order; cells past the
// last slice stay black.
func (r *Renderer) SaveSheet(a *npz.Array, path string) error {
	n, h, w, err := slicedims(a)
	if err != nil {
		return err
	}

	cols := r.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}

	sc := scaler(r.Scale)
	spans := r.spans(a, n, h, w)

	sheet := image.NewGray(image.Rect(0, 0, cols*r.Cell, rows*r.Cell))
	for i := 0; i < n; i++ {
		x, y := (i%cols)*r.Cell, (i/cols)*r.Cell
		cell := image.Rect(x, y, x+r.Cell, y+r.Cell)
		view := r.view(a, i, h, w, spans[i])
		sc.Scale(sheet, cell, view, view.Bounds(), draw.Src, nil)
	}

	slog.Debug("rendered sheet", "file", path, "slices", n, "columns", cols)
	return dumpimage(path, sheet)
}

// SaveAnim renders the slices of a as frames of an animation. The container
// is picked from the file extension: .gif, .png (APNG) or .avi (motion
// JPEG). GIF and AVI frames are always 8-bit.
func (r *Renderer) SaveAnim(a *npz.Array, path string) error {
	n, h, w, err := slicedims(a)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: no slices to animate", ErrShape)
	}

	sc := scaler(r.Scale)
	spans := r.spans(a, n, h, w)

	slog.Debug("rendering animation", "file", path, "frames", n)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		frames := make([]*image.Paletted, n)
		for i := 0; i < n; i++ {
			img := render(r.view(a, i, h, w, spans[i]), r.Side, 8, sc)
			frames[i] = palframe(img.(*image.Gray))
		}
		return dumpgif(path, frames, r.Delay)
	case ".png", ".apng":
		frames := make([]image.Image, n)
		for i := 0; i < n; i++ {
			frames[i] = render(r.view(a, i, h, w, spans[i]), r.Side, r.Bits, sc)
		}
		return apng.Save(path, frames, uint16(r.Delay))
	case ".avi":
		frames := make([]image.Image, n)
		for i := 0; i < n; i++ {
			frames[i] = render(r.view(a, i, h, w, spans[i]), r.Side, 8, sc)
		}
		return dumpavi(path, frames, r.FPS)
	}

	return fmt.Errorf("%w: %q", ErrAnimFormat, filepath.Ext(path))
}

// RenderSlice renders one slice to an in-memory image using the renderer
// settings.
func (r *Renderer) RenderSlice(a *npz.Array, i int) (image.Image, error) {
	n, h, w, err := slicedims(a)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%w: slice %d of %d", ErrShape, i, n)
	}

	spans := r.spans(a, n, h, w)
	return render(r.view(a, i, h, w, spans[i]), r.Side, r.Bits, scaler(r.Scale)), nil
}

// ToPNGs loads a sample volume from an .npz or .npy file and renders every
// slice as a numbered PNG in outputDir. It returns the number of files
// written.
func (r *Renderer) ToPNGs(inputFile, outputDir string) (int, error) {
	a, err := r.load(inputFile)
	if err != nil {
		return 0, err
	}

	return r.SaveSlices(a, outputDir)
}

// ToSheet loads a sample volume from an .npz or .npy file and saves a
// contact sheet of all slices as a PNG image.
func (r *Renderer) ToSheet(inputFile, outputFile string) error {
	a, err := r.load(inputFile)
	if err != nil {
		return err
	}

	return r.SaveSheet(a, outputFile)
}

// ToAnim loads a sample volume from an .npz or .npy file and saves an
// animation over its first axis.
func (r *Renderer) ToAnim(inputFile, outputFile string) error {
	a, err := r.load(inputFile)
	if err != nil {
		return err
	}

	return r.SaveAnim(a, outputFile)
}

func (r *Renderer) load(inputFile string) (*npz.Array, error) {
	ar, err := npz.ReadFile(inputFile)
	if err != nil {
		return nil, err
	}
	return ar.Get(r.Key)
}
