// Package corpus loads GraphML documents from files, directories and tar
// archives, and writes them back out.
//
// A corpus is a list of entries. Each entry is one GraphML file holding one or
// more documents; its Path is the slash-separated location the file is
// written to, relative to the output root.
package corpus

import (
	"archive/tar"
	"bufio"
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/graph"
	"github.com/FocuswithJustin/hierarchizer/core/graphml"
	"github.com/FocuswithJustin/hierarchizer/internal/archive"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
	"github.com/FocuswithJustin/hierarchizer/internal/validation"
)

// Corpus file suffixes.
const (
	SuffixGraphML = ".graphml"
	SuffixXZ      = ".xz"
)

// Entry is one GraphML file of a corpus.
type Entry struct {
	// Source names where the entry was read from, for diagnostics.
	Source string
	// Path is the relative output location without any ".xz" suffix.
	Path      string
	Documents []*graph.Document
}

// Documents flattens the documents of all entries in order.
func Documents(entries []*Entry) []*graph.Document {
	var docs []*graph.Document
	for _, e := range entries {
		docs = append(docs, e.Documents...)
	}
	return docs
}

// IsCorpusFile reports whether name is a GraphML file, optionally xz
// compressed.
func IsCorpusFile(name string) bool {
	return strings.HasSuffix(strings.TrimSuffix(name, SuffixXZ), SuffixGraphML)
}

// Load reads every input. Inputs may be GraphML files, directories searched
// recursively, or tar archives. A nil logger uses the package default.
func Load(inputs []string, logger *slog.Logger) ([]*Entry, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	var entries []*Entry
	for _, in := range inputs {
		if err := validation.ValidatePath(in); err != nil {
			return nil, &errors.ValidationError{Field: "input", Value: in, Message: err.Error(), Err: err}
		}
		info, err := os.Stat(in)
		if err != nil {
			return nil, errors.NewIO("stat", in, err)
		}

		var loaded []*Entry
		switch {
		case info.IsDir():
			loaded, err = loadDir(in, logger)
		case archive.IsArchive(in):
			loaded, err = loadArchive(in, logger)
		default:
			var e *Entry
			e, err = loadFile(in, filepath.Base(in), logger)
			loaded = []*Entry{e}
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}
	return entries, nil
}

func loadDir(root string, logger *slog.Logger) ([]*Entry, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsCorpusFile(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewIO("walk", root, err)
	}
	sort.Strings(files)

	entries := make([]*Entry, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return nil, errors.NewIO("resolve", f, err)
		}
		e, err := loadFile(f, filepath.ToSlash(rel), logger)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	logger.Debug("loaded corpus directory", "path", root, "files", len(entries))
	return entries, nil
}

func loadFile(p, rel string, logger *slog.Logger) (*Entry, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.NewIO("open", p, err)
	}
	defer f.Close()
	return decode(f, p, rel, logger)
}

func loadArchive(p string, logger *slog.Logger) ([]*Entry, error) {
	var entries []*Entry
	err := archive.Walk(p, func(h *tar.Header, r io.Reader) (bool, error) {
		if !IsCorpusFile(h.Name) {
			return false, nil
		}
		rel, err := validation.SanitizePath(".", h.Name)
		if err != nil {
			return true, &errors.ValidationError{Field: "archive entry", Value: h.Name, Message: err.Error(), Err: err}
		}
		e, err := decode(r, p+"!"+h.Name, filepath.ToSlash(rel), logger)
		if err != nil {
			return true, err
		}
		entries = append(entries, e)
		return false, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read archive %s", p)
	}
	logger.Debug("loaded corpus archive", "path", p, "files", len(entries))
	return entries, nil
}

// decode reads one GraphML file, decompressing xz content when name says so.
func decode(r io.Reader, source, name string, logger *slog.Logger) (*Entry, error) {
	head, err := validation.CheckFileType(r, name)
	if err != nil {
		return nil, &errors.ParseError{Format: "GraphML", Path: source, Message: err.Error(), Err: err}
	}
	in := io.MultiReader(bytes.NewReader(head), r)

	outPath := name
	if strings.HasSuffix(name, SuffixXZ) {
		xzr, err := xz.NewReader(bufio.NewReader(in))
		if err != nil {
			return nil, &errors.ParseError{Format: "xz", Path: source, Message: err.Error(), Err: err}
		}
		in = xzr
		outPath = strings.TrimSuffix(name, SuffixXZ)
	}

	docs, err := graphml.Read(validation.LimitReader(in, validation.MaxFileSize), logger.With("source", source))
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = source
		}
		return nil, err
	}
	if len(docs) == 0 {
		logger.Warn("corpus file holds no graphs", "source", source)
	}
	return &Entry{Source: source, Path: path.Clean(outPath), Documents: docs}, nil
}
