package corpus

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/graphml"
	"github.com/FocuswithJustin/hierarchizer/internal/archive"
	"github.com/FocuswithJustin/hierarchizer/internal/validation"
)

// Encode renders an entry as GraphML, xz compressed when compress is set.
func Encode(e *Entry, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	var out io.Writer = &buf
	var xw *xz.Writer
	if compress {
		var err error
		if xw, err = xz.NewWriter(&buf); err != nil {
			return nil, errors.Wrap(err, "xz writer")
		}
		out = xw
	}
	if err := graphml.Write(out, e.Documents...); err != nil {
		return nil, errors.Wrapf(err, "encode %s", e.Path)
	}
	if xw != nil {
		if err := xw.Close(); err != nil {
			return nil, errors.Wrap(err, "close xz writer")
		}
	}
	return buf.Bytes(), nil
}

// OutputName is the file name an entry is written under.
func OutputName(e *Entry, compress bool) string {
	if compress {
		return e.Path + SuffixXZ
	}
	return e.Path
}

// WriteDir writes every entry below dir, keeping entry paths. It returns the
// written file paths in entry order.
func WriteDir(dir string, entries []*Entry, compress bool) ([]string, error) {
	seen := make(map[string]bool)
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		rel, err := validation.SanitizePath(dir, OutputName(e, compress))
		if err != nil {
			return nil, &errors.ValidationError{Field: "output path", Value: e.Path, Message: err.Error(), Err: err}
		}
		if seen[rel] {
			return nil, errors.NewValidation("output path", "two entries share "+rel)
		}
		seen[rel] = true

		data, err := Encode(e, compress)
		if err != nil {
			return nil, err
		}
		target := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, errors.NewIO("create directory", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return nil, errors.NewIO("write", target, err)
		}
		paths = append(paths, target)
	}
	return paths, nil
}

// WriteArchive writes every entry into a single tar archive at path. Entries
// are stored uncompressed inside the archive.
func WriteArchive(path string, entries []*Entry) error {
	w, err := archive.NewWriter(path, "")
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	for _, e := range entries {
		name, err := validation.SanitizePath(".", e.Path)
		if err != nil {
			w.Close()
			return &errors.ValidationError{Field: "archive entry", Value: e.Path, Message: err.Error(), Err: err}
		}
		data, err := Encode(e, false)
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Add(filepath.ToSlash(name), data); err != nil {
			w.Close()
			return errors.NewIO("write", path, err)
		}
	}
	if err := w.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	return nil
}
