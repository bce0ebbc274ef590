package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
)

// epoch is the modification time stamped on every entry so that archives of
// identical content are byte-identical.
var epoch = time.Unix(0, 0).UTC()

// Writer streams files into a compressed tar archive.
type Writer struct {
	tw     *tar.Writer
	comp   io.WriteCloser
	file   *os.File
	prefix string
	names  map[string]bool
}

// NewWriter creates the archive at path, creating parent directories.
// The format follows the path suffix. Entries are stored below prefix when it
// is non-empty.
func NewWriter(path, prefix string) (*Writer, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unsupported archive format: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}

	w := &Writer{file: f, prefix: prefix, names: make(map[string]bool)}
	var out io.Writer = f
	switch format {
	case FormatTarXz:
		xw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		w.comp = xw
		out = xw
	case FormatTarGz:
		gw := gzip.NewWriter(f)
		w.comp = gw
		out = gw
	}
	w.tw = tar.NewWriter(out)
	return w, nil
}

// Add stores data as a regular file. Names must be unique within the archive.
func (w *Writer) Add(name string, data []byte) error {
	if w.prefix != "" {
		name = w.prefix + "/" + name
	}
	if w.names[name] {
		return fmt.Errorf("duplicate archive entry: %s", name)
	}
	w.names[name] = true

	header := &tar.Header{
		Name:     name,
		Mode:     0644,
		Size:     int64(len(data)),
		ModTime:  epoch,
		Typeflag: tar.TypeReg,
	}
	if err := w.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	if _, err := w.tw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Close flushes the archive and closes the file.
func (w *Writer) Close() error {
	err := w.tw.Close()
	if w.comp != nil {
		if cerr := w.comp.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if cerr := w.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
