// Package archive reads and writes compressed tar archives of corpus files.
// It supports tar.xz, tar.gz and plain tar.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// Format is an archive container format.
type Format int

// Archive formats.
const (
	FormatUnknown Format = iota
	FormatTarXz
	FormatTarGz
	FormatTar
)

func (f Format) String() string {
	switch f {
	case FormatTarXz:
		return "tar.xz"
	case FormatTarGz:
		return "tar.gz"
	case FormatTar:
		return "tar"
	default:
		return "unknown"
	}
}

// DetectFormat returns the archive format implied by the path suffix.
func DetectFormat(path string) Format {
	switch {
	case strings.HasSuffix(path, ".tar.xz"), strings.HasSuffix(path, ".txz"):
		return FormatTarXz
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(path, ".tar"):
		return FormatTar
	default:
		return FormatUnknown
	}
}

// IsArchive reports whether path names a supported archive.
func IsArchive(path string) bool {
	return DetectFormat(path) != FormatUnknown
}

// Reader wraps a tar.Reader with automatic decompression handling.
type Reader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

// NewReader opens the archive at path.
func NewReader(path string) (*Reader, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unsupported archive format: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var reader io.Reader = f
	var decompressor io.Closer

	switch format {
	case FormatTarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
	case FormatTarGz:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		reader = gzr
		decompressor = gzr
	}

	return &Reader{
		Reader:       tar.NewReader(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the archive reader and any underlying decompressors.
func (r *Reader) Close() error {
	var first error
	if r.decompressor != nil {
		first = r.decompressor.Close()
	}
	if err := r.file.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// Visitor is called for each regular file in an archive.
// Return true to stop iteration.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks the regular file entries of the archive in stored order.
func (r *Reader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		stop, err := visitor(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// Walk opens the archive at path and iterates its file entries.
func Walk(path string, visitor Visitor) error {
	r, err := NewReader(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Iterate(visitor)
}

// ReadFile returns the content of the entry named name. A single leading
// directory in the stored name is ignored.
func ReadFile(archivePath, name string) ([]byte, error) {
	var content []byte
	found := false
	err := Walk(archivePath, func(header *tar.Header, r io.Reader) (bool, error) {
		stored := header.Name
		if i := strings.Index(stored, "/"); i >= 0 && header.Name != name {
			stored = stored[i+1:]
		}
		if stored != name {
			return false, nil
		}
		found = true
		var err error
		content, err = io.ReadAll(r)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	return content, nil
}
