package raster

import "bytes"
import "fmt"
import "image"
import "image/color"
import "image/gif"
import "image/jpeg"
import "image/png"
import "math"
import "os"

import "github.com/icza/mjpeg"
import "golang.org/x/image/draw"
import "gonum.org/v1/gonum/floats"

import "github.com/mdiff/npzview/npz"

func slicedims(a *npz.Array) (n, h, w int, err error) {
	if len(a.Shape) != 4 || a.Shape[3] != 1 {
		return 0, 0, 0, fmt.Errorf("%w: shape %v, want (N, H, W, 1)", ErrShape, a.Shape)
	}
	return a.Shape[0], a.Shape[1], a.Shape[2], nil
}

// spans yields the normalization range of every slice. The whole volume
// shares one range unless PerSlice is set; a non-NaN VMin or VMax pins
// its end of every range on its own.
func (r *Renderer) spans(a *npz.Array, n, h, w int) [][2]float64 {
	out := make([][2]float64, n)
	fixlo, fixhi := !math.IsNaN(r.VMin), !math.IsNaN(r.VMax)

	switch {
	case fixlo && fixhi:
		for i := range out {
			out[i] = [2]float64{r.VMin, r.VMax}
		}
		return out
	case r.PerSlice:
		for i := range out {
			s := a.Data[i*h*w : (i+1)*h*w]
			if len(s) > 0 {
				out[i] = [2]float64{floats.Min(s), floats.Max(s)}
			}
		}
	default:
		var lo, hi float64
		if len(a.Data) > 0 {
			lo, hi = floats.Min(a.Data), floats.Max(a.Data)
		}
		for i := range out {
			out[i] = [2]float64{lo, hi}
		}
	}

	for i := range out {
		if fixlo {
			out[i][0] = r.VMin
		}
		if fixhi {
			out[i][1] = r.VMax
		}
	}
	return out
}

func (r *Renderer) view(a *npz.Array, i, h, w int, span [2]float64) *sliceview {
	return &sliceview{
		data:   a.Data[i*h*w : (i+1)*h*w],
		w:      w,
		h:      h,
		lo:     span[0],
		hi:     span[1],
		invert: r.Invert,
	}
}

// sliceview exposes one (H, W) slice as a grayscale image without copying
// the element data. A degenerate range renders black.
type sliceview struct {
	data   []float64
	w, h   int
	lo, hi float64
	invert bool
}

func (v *sliceview) ColorModel() color.Model { return color.Gray16Model }

func (v *sliceview) Bounds() image.Rectangle { return image.Rect(0, 0, v.w, v.h) }

func (v *sliceview) At(x, y int) color.Color {
	return color.Gray16{Y: v.level(x, y)}
}

// RGBA64At satisfies image.RGBA64Image. The draw scalers feed RGBA64Image
// destinations such as image.Gray only from RGBA64Image sources and skip
// plain image.Image sources entirely, leaving the output blank.
func (v *sliceview) RGBA64At(x, y int) color.RGBA64 {
	g := v.level(x, y)
	return color.RGBA64{R: g, G: g, B: g, A: 0xffff}
}

func (v *sliceview) level(x, y int) uint16 {
	var t float64
	if v.hi > v.lo {
		t = (v.data[y*v.w+x] - v.lo) / (v.hi - v.lo)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if v.invert {
		t = 1 - t
	}
	return uint16(t*65535 + 0.5)
}

func scaler(name string) draw.Scaler {
	switch name {
	case "bilinear":
		return draw.ApproxBiLinear
	case "catmullrom":
		return draw.CatmullRom
	}
	return draw.NearestNeighbor
}

// outdims maps the longer slice side to side pixels and keeps the aspect
// ratio, so square slices yield square images. Slices with an empty axis
// render as a square black image.
func outdims(h, w, side int) (oh, ow int) {
	if h <= 0 || w <= 0 {
		return side, side
	}
	if h >= w {
		oh, ow = side, (w*side+h/2)/h
	} else {
		oh, ow = (h*side+w/2)/w, side
	}
	if oh < 1 {
		oh = 1
	}
	if ow < 1 {
		ow = 1
	}
	return oh, ow
}

func render(view image.Image, side, bits int, sc draw.Scaler) image.Image {
	oh, ow := outdims(view.Bounds().Dy(), view.Bounds().Dx(), side)
	if bits == 16 {
		img := image.NewGray16(image.Rect(0, 0, ow, oh))
		sc.Scale(img, img.Bounds(), view, view.Bounds(), draw.Src, nil)
		return img
	}

	img := image.NewGray(image.Rect(0, 0, ow, oh))
	sc.Scale(img, img.Bounds(), view, view.Bounds(), draw.Src, nil)
	return img
}

func dumpimage(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// palframe reuses the gray pixel bytes as palette indices, the palette
// being the identity gray ramp.
func palframe(img *image.Gray) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), graypal())
	copy(p.Pix, img.Pix)
	return p
}

func graypal() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}

func dumpgif(name string, frames []*image.Paletted, delay int) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	anim := &gif.GIF{Image: frames}
	for range frames {
		anim.Delay = append(anim.Delay, delay)
	}

	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func dumpavi(name string, frames []image.Image, fps int) error {
	b := frames[0].Bounds()
	aw, err := mjpeg.New(name, int32(b.Dx()), int32(b.Dy()), int32(fps))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, frame := range frames {
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 90}); err != nil {
			aw.Close()
			return err
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return err
		}
		buf.Reset()
	}

	return aw.Close()
}
