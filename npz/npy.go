package npz

import "encoding/binary"
import "fmt"
import "math"
import "regexp"
import "strconv"
import "strings"

import "github.com/x448/float16"

// NPY layout: magic, version, header length, python dict header padded to a
// 64-byte boundary and terminated by a newline, then raw element bytes.
const npymagic = "\x93NUMPY"

var descrPattern = regexp.MustCompile(`'descr':\s*'([^']+)'`)
var fortranPattern = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
var shapePattern = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)

func readnpy(data []byte) (*Array, error) {
	if len(data) < len(npymagic)+4 || string(data[:len(npymagic)]) != npymagic {
		return nil, ErrBadMagic
	}
	major := data[6]

	var header string
	var body []byte
	switch major {
	case 1:
		n := int(binary.LittleEndian.Uint16(data[8:10]))
		if len(data) < 10+n {
			return nil, fmt.Errorf("%w: header length %d exceeds file size", ErrFormat, n)
		}
		header = string(data[10 : 10+n])
		body = data[10+n:]
	case 2, 3:
		if len(data) < 12 {
			return nil, fmt.Errorf("%w: short version %d header", ErrFormat, major)
		}
		n := int(binary.LittleEndian.Uint32(data[8:12]))
		if len(data) < 12+n {
			return nil, fmt.Errorf("%w: header length %d exceeds file size", ErrFormat, n)
		}
		header = string(data[12 : 12+n])
		body = data[12+n:]
	default:
		return nil, fmt.Errorf("%w: unknown npy version %d", ErrFormat, major)
	}

	descr, fortran, shape, err := parseheader(header)
	if err != nil {
		return nil, err
	}
	kind, size, order, err := parsedescr(descr)
	if err != nil {
		return nil, err
	}

	count := 1
	for _, d := range shape {
		count *= d
	}
	if len(body) != count*size {
		return nil, fmt.Errorf("%w: %d data bytes for %d elements of %s", ErrFormat, len(body), count, descr)
	}

	vals := tofloats(body, kind, size, order)
	if fortran && len(shape) > 1 {
		vals = corder(vals, shape)
	}
	return &Array{Shape: shape, Descr: canondescr(kind, size), Data: vals}, nil
}

func parseheader(h string) (descr string, fortran bool, shape []int, err error) {
	m := descrPattern.FindStringSubmatch(h)
	if m == nil {
		return "", false, nil, fmt.Errorf("%w: missing descr", ErrFormat)
	}
	descr = m[1]

	m = fortranPattern.FindStringSubmatch(h)
	if m == nil {
		return "", false, nil, fmt.Errorf("%w: missing fortran_order", ErrFormat)
	}
	fortran = m[1] == "True"

	m = shapePattern.FindStringSubmatch(h)
	if m == nil {
		return "", false, nil, fmt.Errorf("%w: missing shape", ErrFormat)
	}
	for _, f := range strings.Split(m[1], ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		d, err := strconv.Atoi(f)
		if err != nil || d < 0 {
			return "", false, nil, fmt.Errorf("%w: bad shape dimension %q", ErrFormat, f)
		}
		shape = append(shape, d)
	}
	return descr, fortran, shape, nil
}

// parsedescr splits a dtype descriptor like "<f4" or "|u1" into its kind,
// element size and byte order.
func parsedescr(d string) (kind byte, size int, order binary.ByteOrder, err error) {
	order = binary.LittleEndian
	if len(d) > 0 && strings.ContainsRune("<>|=", rune(d[0])) {
		if d[0] == '>' {
			order = binary.BigEndian
		}
		d = d[1:]
	}
	if len(d) < 2 {
		return 0, 0, nil, fmt.Errorf("%w: %q", ErrDtype, d)
	}
	kind = d[0]
	size, err = strconv.Atoi(d[1:])
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %q", ErrDtype, d)
	}
	ok := false
	switch kind {
	case 'b':
		ok = size == 1
	case 'u', 'i':
		ok = size == 1 || size == 2 || size == 4 || size == 8
	case 'f':
		ok = size == 2 || size == 4 || size == 8
	}
	if !ok {
		return 0, 0, nil, fmt.Errorf("%w: %q", ErrDtype, d)
	}
	return kind, size, order, nil
}

func canondescr(kind byte, size int) string {
	if size == 1 {
		return fmt.Sprintf("|%c1", kind)
	}
	return fmt.Sprintf("<%c%d", kind, size)
}

func tofloats(raw []byte, kind byte, size int, order binary.ByteOrder) []float64 {
	out := make([]float64, len(raw)/size)
	for i := range out {
		b := raw[i*size:]
		switch {
		case kind == 'b':
			if b[0] != 0 {
				out[i] = 1
			}
		case kind == 'u' && size == 1:
			out[i] = float64(b[0])
		case kind == 'i' && size == 1:
			out[i] = float64(int8(b[0]))
		case kind == 'u' && size == 2:
			out[i] = float64(order.Uint16(b))
		case kind == 'i' && size == 2:
			out[i] = float64(int16(order.Uint16(b)))
		case kind == 'u' && size == 4:
			out[i] = float64(order.Uint32(b))
		case kind == 'i' && size == 4:
			out[i] = float64(int32(order.Uint32(b)))
		case kind == 'u' && size == 8:
			out[i] = float64(order.Uint64(b))
		case kind == 'i' && size == 8:
			out[i] = float64(int64(order.Uint64(b)))
		case kind == 'f' && size == 2:
			out[i] = float64(float16.Frombits(order.Uint16(b)).Float32())
		case kind == 'f' && size == 4:
			out[i] = float64(math.Float32frombits(order.Uint32(b)))
		case kind == 'f' && size == 8:
			out[i] = math.Float64frombits(order.Uint64(b))
		}
	}
	return out
}

// corder rearranges fortran-ordered elements (first axis fastest) into the
// row-major layout the rest of the package assumes.
func corder(data []float64, shape []int) []float64 {
	strides := make([]int, len(shape))
	s := 1
	for k := 0; k < len(shape); k++ {
		strides[k] = s
		s *= shape[k]
	}
	out := make([]float64, len(data))
	for i := range out {
		rem := i
		off := 0
		for k := len(shape) - 1; k >= 0; k-- {
			off += (rem % shape[k]) * strides[k]
			rem /= shape[k]
		}
		out[i] = data[off]
	}
	return out
}

func writenpy(a *Array) ([]byte, error) {
	kind, size, _, err := parsedescr(a.Descr)
	if err != nil {
		return nil, err
	}
	count := 1
	for _, d := range a.Shape {
		count *= d
	}
	if count != len(a.Data) {
		return nil, fmt.Errorf("%w: shape %v holds %d elements, data has %d", ErrFormat, a.Shape, count, len(a.Data))
	}

	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }",
		canondescr(kind, size), shapelist(a.Shape))

	// Version 1.0 unless the dict overflows its 16-bit length field.
	pre := len(npymagic) + 4
	major := byte(1)
	if pre+len(dict)+1 > 0xFFFF {
		pre = len(npymagic) + 6
		major = 2
	}
	pad := (64 - (pre+len(dict)+1)%64) % 64

	buf := make([]byte, 0, pre+len(dict)+pad+1+count*size)
	buf = append(buf, npymagic...)
	buf = append(buf, major, 0)
	if major == 1 {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(dict)+pad+1))
	} else {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(dict)+pad+1))
	}
	buf = append(buf, dict...)
	for i := 0; i < pad; i++ {
		buf = append(buf, ' ')
	}
	buf = append(buf, '\n')

	elem := make([]byte, 8)
	for _, v := range a.Data {
		buf = append(buf, frombits(elem, v, kind, size)...)
	}
	return buf, nil
}

func shapelist(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return parts[0] + ","
	}
	return strings.Join(parts, ", ")
}

func frombits(scratch []byte, v float64, kind byte, size int) []byte {
	b := scratch[:size]
	switch {
	case kind == 'b':
		b[0] = 0
		if v != 0 {
			b[0] = 1
		}
	case kind == 'u' && size == 1:
		b[0] = uint8(clampint(v, 0, math.MaxUint8))
	case kind == 'i' && size == 1:
		b[0] = uint8(int8(clampint(v, math.MinInt8, math.MaxInt8)))
	case kind == 'u' && size == 2:
		binary.LittleEndian.PutUint16(b, uint16(clampint(v, 0, math.MaxUint16)))
	case kind == 'i' && size == 2:
		binary.LittleEndian.PutUint16(b, uint16(int16(clampint(v, math.MinInt16, math.MaxInt16))))
	case kind == 'u' && size == 4:
		binary.LittleEndian.PutUint32(b, uint32(clampint(v, 0, math.MaxUint32)))
	case kind == 'i' && size == 4:
		binary.LittleEndian.PutUint32(b, uint32(int32(clampint(v, math.MinInt32, math.MaxInt32))))
	case kind == 'u' && size == 8:
		u := uint64(0)
		if v > 0 {
			u = uint64(math.Round(v))
		}
		binary.LittleEndian.PutUint64(b, u)
	case kind == 'i' && size == 8:
		binary.LittleEndian.PutUint64(b, uint64(int64(math.Round(v))))
	case kind == 'f' && size == 2:
		binary.LittleEndian.PutUint16(b, float16.Fromfloat32(float32(v)).Bits())
	case kind == 'f' && size == 4:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case kind == 'f' && size == 8:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
	return b
}

func clampint(v, lo, hi float64) int64 {
	v = math.Round(v)
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int64(v)
}
