package npz

import "bytes"
import "errors"
import "fmt"
import "io"
import "log/slog"
import "os"
import "strings"

import "github.com/klauspost/compress/zip"

// DefaultKey is the key numpy assigns to the first unnamed array saved into
// an archive.
const DefaultKey = "arr_0"

var ErrKeyNotFound = errors.New("npz: key not found in archive")
var ErrBadMagic = errors.New("npz: not an npy or npz file")
var ErrDtype = errors.New("npz: unsupported dtype")
var ErrFormat = errors.New("npz: malformed npy data")

// Array is one numeric array. Data is always row-major float64 regardless of
// the dtype on disk; Descr keeps the canonical descriptor ("<f4", "|u1", ...)
// so writes can reproduce it.
type Array struct {
	Shape []int
	Descr string
	Data  []float64
}

// Len returns the number of elements described by the shape.
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// Archive is an ordered set of named arrays, as stored in an .npz file.
type Archive struct {
	keys   []string
	arrays map[string]*Array
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{arrays: make(map[string]*Array)}
}

// Add binds an array to a key, replacing any previous binding but keeping its
// position in the archive order.
func (ar *Archive) Add(key string, a *Array) {
	if _, ok := ar.arrays[key]; !ok {
		ar.keys = append(ar.keys, key)
	}
	ar.arrays[key] = a
}

// Get returns the array bound to a key.
func (ar *Archive) Get(key string) (*Array, error) {
	a, ok := ar.arrays[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return a, nil
}

// Keys lists the archive keys in file order.
func (ar *Archive) Keys() []string {
	return ar.keys
}

// ReadFile loads an .npz archive or a bare .npy file. A bare array is bound
// to DefaultKey. The format is sniffed from the file content, not the name.
func ReadFile(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) >= 4 && string(data[:4]) == "PK\x03\x04" {
		return readzip(data)
	}
	a, err := readnpy(data)
	if err != nil {
		return nil, err
	}
	ar := NewArchive()
	ar.Add(DefaultKey, a)
	return ar, nil
}

func readzip(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	ar := NewArchive()
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".npy") {
			slog.Debug("skipping non-npy archive member", "name", f.Name)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("npz: open member %q: %w", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("npz: read member %q: %w", f.Name, err)
		}
		a, err := readnpy(raw)
		if err != nil {
			return nil, fmt.Errorf("npz: member %q: %w", f.Name, err)
		}
		ar.Add(strings.TrimSuffix(f.Name, ".npy"), a)
	}
	return ar, nil
}

// Write emits the archive as .npz bytes with stored (uncompressed) members,
// the numpy savez convention.
func Write(w io.Writer, ar *Archive) error {
	return write(w, ar, zip.Store)
}

// WriteFile saves the archive as an .npz with stored members.
func WriteFile(path string, ar *Archive) error {
	return writefile(path, ar, zip.Store)
}

// WriteFileCompressed saves the archive with deflated members, the numpy
// savez_compressed convention.
func WriteFileCompressed(path string, ar *Archive) error {
	return writefile(path, ar, zip.Deflate)
}

func writefile(path string, ar *Archive, method uint16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, ar, method); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func write(w io.Writer, ar *Archive, method uint16) error {
	zw := zip.NewWriter(w)
	for _, key := range ar.keys {
		mw, err := zw.CreateHeader(&zip.FileHeader{Name: key + ".npy", Method: method})
		if err != nil {
			return err
		}
		b, err := writenpy(ar.arrays[key])
		if err != nil {
			return err
		}
		if _, err := mw.Write(b); err != nil {
			return err
		}
	}
	return zw.Close()
}
