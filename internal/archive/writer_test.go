package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeArchive(t *testing.T, path, prefix string, files map[string]string, order []string) {
	t.Helper()
	w, err := NewWriter(path, prefix)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for _, name := range order {
		if err := w.Add(name, []byte(files[name])); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	files := map[string]string{
		"a.graphml":     "<graphml>a</graphml>",
		"sub/b.graphml": "<graphml>b</graphml>",
	}
	order := []string{"a.graphml", "sub/b.graphml"}

	for _, name := range []string{"out.tar.xz", "out.tar.gz", "out.tar"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			writeArchive(t, path, "corpus", files, order)

			var got []string
			err := Walk(path, func(h *tar.Header, r io.Reader) (bool, error) {
				data, err := io.ReadAll(r)
				got = append(got, h.Name)
				if want := files[h.Name[len("corpus/"):]]; string(data) != want {
					t.Errorf("%s = %q, want %q", h.Name, data, want)
				}
				return false, err
			})
			if err != nil {
				t.Fatalf("Walk: %v", err)
			}
			if len(got) != 2 || got[0] != "corpus/a.graphml" || got[1] != "corpus/sub/b.graphml" {
				t.Errorf("entries = %v", got)
			}
		})
	}
}

func TestWriterReproducible(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{"a.graphml": "<graphml/>"}
	first := filepath.Join(dir, "1.tar.xz")
	second := filepath.Join(dir, "2.tar.xz")
	writeArchive(t, first, "", files, []string{"a.graphml"})
	writeArchive(t, second, "", files, []string{"a.graphml"})

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("archives of identical content differ")
	}
}

func TestWriterDuplicateEntry(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "d.tar.gz"), "")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Close()

	if err := w.Add("a.graphml", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := w.Add("a.graphml", nil); err == nil {
		t.Error("Add() expected error for duplicate entry")
	}
}

func TestNewWriterUnsupported(t *testing.T) {
	if _, err := NewWriter(filepath.Join(t.TempDir(), "out.zip"), ""); err == nil {
		t.Error("NewWriter() expected error for unsupported format")
	}
}
