package npz

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testArchive() *Archive {
	ar := NewArchive()
	ar.Add(DefaultKey, &Array{
		Shape: []int{2, 2, 2, 1},
		Descr: "<f4",
		Data:  []float64{0, 0.5, 1, 0.25, -1, 0, 0.75, 0.125},
	})
	ar.Add("arr_1", &Array{
		Shape: []int{2},
		Descr: "<i8",
		Data:  []float64{3, 7},
	})
	return ar
}

func checkArchive(t *testing.T, ar *Archive) {
	t.Helper()
	want := testArchive()
	if diff := cmp.Diff(want.Keys(), ar.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	for _, key := range want.Keys() {
		w, _ := want.Get(key)
		g, err := ar.Get(key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if diff := cmp.Diff(w, g); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", key, diff)
		}
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.npz")
	if err := WriteFile(path, testArchive()); err != nil {
		t.Fatal(err)
	}
	ar, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	checkArchive(t, ar)
}

func TestArchiveRoundTripCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.npz")
	if err := WriteFileCompressed(path, testArchive()); err != nil {
		t.Fatal(err)
	}
	ar, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	checkArchive(t, ar)
}

func TestWriteToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testArchive()); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "samples.npz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	ar, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	checkArchive(t, ar)
}

func TestReadFileBareNpy(t *testing.T) {
	in := &Array{Shape: []int{3}, Descr: "|u1", Data: []float64{1, 2, 3}}
	b, err := writenpy(in)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "single.npy")
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatal(err)
	}

	ar, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	a, err := ar.Get(DefaultKey)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in.Data, a.Data); diff != "" {
		t.Errorf("data (-want +got):\n%s", diff)
	}
}

func TestGetMissingKey(t *testing.T) {
	_, err := testArchive().Get("arr_9")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestAddReplacesInPlace(t *testing.T) {
	ar := testArchive()
	ar.Add(DefaultKey, &Array{Shape: []int{1}, Descr: "|u1", Data: []float64{9}})
	if diff := cmp.Diff([]string{"arr_0", "arr_1"}, ar.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	a, err := ar.Get(DefaultKey)
	if err != nil {
		t.Fatal(err)
	}
	if a.Data[0] != 9 {
		t.Errorf("got %v", a.Data)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.npz"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v", err)
	}
}

func TestReadFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.npz")
	if err := os.WriteFile(path, []byte("this is not numpy data"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); !errors.Is(err, ErrBadMagic) {
		t.Errorf("got %v", err)
	}
}
