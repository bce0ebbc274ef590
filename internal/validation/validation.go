// Package validation checks corpus paths and file contents before they are
// read or written.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

// Limits applied to corpus input.
const (
	// MaxFileSize is the largest decompressed corpus file accepted (256 MB).
	MaxFileSize = 256 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrFileTooLarge     = errors.New("file too large")
	ErrTypeMismatch     = errors.New("file type mismatch")
)

// SanitizePath cleans a relative path taken from untrusted input, such as an
// archive entry name, and ensures it stays inside baseDir.
func SanitizePath(baseDir, userPath string) (string, error) {
	if err := ValidatePath(userPath); err != nil {
		return "", err
	}

	cleanPath := filepath.Clean(filepath.FromSlash(userPath))
	if filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("%w: absolute path not allowed", ErrPathTraversal)
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(baseDir, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return cleanPath, nil
}

// ValidatePath rejects empty, overlong and control-character paths.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	for _, r := range path {
		if r == 0 {
			return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
		}
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// FileType is a content type recognized for corpus files.
type FileType string

const (
	FileTypeXZ      FileType = "xz"
	FileTypeGzip    FileType = "gzip"
	FileTypeTar     FileType = "tar"
	FileTypeXML     FileType = "xml"
	FileTypeUnknown FileType = "unknown"
)

// HeaderSize is the number of leading bytes DetectFileType inspects.
const HeaderSize = 512

var magicBytes = []struct {
	fileType FileType
	magic    []byte
	offset   int
}{
	{FileTypeTar, []byte("ustar"), 257},
	{FileTypeGzip, []byte{0x1f, 0x8b}, 0},
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, 0},
}

// DetectFileType identifies buf by magic bytes, falling back to XML when the
// buffer is text starting with '<'.
func DetectFileType(buf []byte) FileType {
	for _, sig := range magicBytes {
		if sig.offset+len(sig.magic) <= len(buf) &&
			bytes.Equal(buf[sig.offset:sig.offset+len(sig.magic)], sig.magic) {
			return sig.fileType
		}
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf")), " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '<' && isLikelyText(trimmed) {
		return FileTypeXML
	}
	return FileTypeUnknown
}

// ExpectedFileType returns the outer content type implied by a file name.
func ExpectedFileType(name string) FileType {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xz"), strings.HasSuffix(lower, ".txz"):
		return FileTypeXZ
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		return FileTypeGzip
	case strings.HasSuffix(lower, ".tar"):
		return FileTypeTar
	case strings.HasSuffix(lower, ".graphml"), strings.HasSuffix(lower, ".xml"):
		return FileTypeXML
	default:
		return FileTypeUnknown
	}
}

// CheckFileType reads the header of r and verifies that its content matches
// the type implied by name. It returns the header bytes it consumed.
func CheckFileType(r io.Reader, name string) ([]byte, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	expected := ExpectedFileType(name)
	detected := DetectFileType(buf)
	if expected == FileTypeUnknown || detected == expected {
		return buf, nil
	}
	// Empty or non-XML text is left for the decoder to report.
	if expected == FileTypeXML && detected == FileTypeUnknown {
		return buf, nil
	}
	return buf, fmt.Errorf("%w: %s suggests %s but content is %s", ErrTypeMismatch, name, expected, detected)
}

// LimitReader returns a reader that fails with ErrFileTooLarge once more
// than limit bytes have been read.
func LimitReader(r io.Reader, limit int64) io.Reader {
	return &limitedReader{r: r, remaining: limit}
}

type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}

// isLikelyText reports whether more than 95% of buf is printable.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 || bytes.IndexByte(buf, 0) != -1 {
		return false
	}
	printable, control := 0, 0
	for _, b := range buf {
		switch {
		case b >= 0x20 && b <= 0x7e, b == '\t', b == '\n', b == '\r':
			printable++
		case b < 0x20:
			control++
		}
	}
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
