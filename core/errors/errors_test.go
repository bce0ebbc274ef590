package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "node", ID: "struct4"},
			wantMsg:  "node not found: struct4",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "layer"},
			wantMsg:  "layer not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("graph detached")
		err := &NotFoundError{Resource: "node", ID: "tok1", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		wantMsg string
	}{
		{
			name:    "with field",
			err:     &ValidationError{Field: "hierarchy.names", Message: "is required"},
			wantMsg: "validation failed for hierarchy.names: is required",
		},
		{
			name:    "without field",
			err:     &ValidationError{Message: "empty property bag"},
			wantMsg: "validation failed: empty property bag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Errorf("errors.Is(%v, ErrInvalidInput) = false", tt.err)
			}
		})
	}
}

func TestDocumentError(t *testing.T) {
	tests := []struct {
		name    string
		err     *DocumentError
		wantMsg string
	}{
		{
			name:    "named document",
			err:     &DocumentError{Document: "doc1", Message: "document graph is nil"},
			wantMsg: "document doc1: document graph is nil",
		},
		{
			name:    "missing document",
			err:     &DocumentError{Message: "document is nil"},
			wantMsg: "document: document is nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidDocument) {
				t.Errorf("errors.Is(%v, ErrInvalidDocument) = false", tt.err)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		cause := NewValidation("hierarchy.default.values", "no value")
		err := &DocumentError{Document: "d", Message: "cannot resolve level value", Err: cause}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatal("errors.As() did not find the ValidationError cause")
		}
		if errors.Is(err, ErrInvalidDocument) {
			t.Error("explicit cause should replace the ErrInvalidDocument sentinel")
		}
	})
}

func TestIOError(t *testing.T) {
	baseErr := fmt.Errorf("permission denied")
	tests := []struct {
		name    string
		err     *IOError
		wantMsg string
	}{
		{
			name:    "with path",
			err:     &IOError{Operation: "read", Path: "/corpus/doc.graphml", Err: baseErr},
			wantMsg: "failed to read /corpus/doc.graphml: permission denied",
		},
		{
			name:    "without path",
			err:     &IOError{Operation: "write", Err: baseErr},
			wantMsg: "failed to write: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, baseErr) {
				t.Errorf("Unwrap() = %v, want %v", got, baseErr)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantMsg string
	}{
		{
			name:    "with path",
			err:     &ParseError{Format: "GraphML", Path: "doc.graphml", Message: "edge without source"},
			wantMsg: "failed to parse GraphML at doc.graphml: edge without source",
		},
		{
			name:    "without path",
			err:     &ParseError{Format: "property", Message: "unexpected token"},
			wantMsg: "failed to parse property: unexpected token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, ErrInvalidInput) {
				t.Errorf("Unwrap() = %v, want %v", got, ErrInvalidInput)
			}
		})
	}
}

func TestUnsupportedError(t *testing.T) {
	err := &UnsupportedError{Feature: "relation type", Reason: "SORDER_RELATION"}
	if got, want := err.Error(), "unsupported relation type: SORDER_RELATION"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("errors.Is(%v, ErrUnsupported) = false", err)
	}
	if got, want := (&UnsupportedError{Feature: "format"}).Error(), "unsupported format"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestHelperFunctions(t *testing.T) {
	if err := NewNotFound("node", "tok1"); err.Resource != "node" || err.ID != "tok1" {
		t.Errorf("NewNotFound() = %+v", err)
	}
	if err := NewValidation("pointers", "not a boolean"); err.Field != "pointers" || err.Message != "not a boolean" {
		t.Errorf("NewValidation() = %+v", err)
	}
	if err := NewDocument("d1", "document graph is nil"); err.Document != "d1" {
		t.Errorf("NewDocument() = %+v", err)
	}
	baseErr := fmt.Errorf("disk full")
	if err := NewIO("write", "/tmp/out", baseErr); err.Operation != "write" || err.Err != baseErr {
		t.Errorf("NewIO() = %+v", err)
	}
	if err := NewParse("YAML", "props.yaml", "bad indent"); err.Format != "YAML" || err.Path != "props.yaml" {
		t.Errorf("NewParse() = %+v", err)
	}
	if err := NewUnsupported("codec", "lz4"); err.Feature != "codec" || err.Reason != "lz4" {
		t.Errorf("NewUnsupported() = %+v", err)
	}
}

func TestWrap(t *testing.T) {
	baseErr := fmt.Errorf("base error")
	wrapped := Wrap(baseErr, "context message")
	if !errors.Is(wrapped, baseErr) {
		t.Errorf("Wrap() error does not unwrap to base error")
	}
	if got, want := wrapped.Error(), "context message: base error"; got != want {
		t.Errorf("Wrap() = %q, want %q", got, want)
	}
	if got := Wrap(nil, "context"); got != nil {
		t.Errorf("Wrap(nil) = %v, want nil", got)
	}
}

func TestWrapf(t *testing.T) {
	baseErr := fmt.Errorf("base error")
	wrapped := Wrapf(baseErr, "failed to process %s", "doc.graphml")
	if got, want := wrapped.Error(), "failed to process doc.graphml: base error"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	if got := Wrapf(nil, "context %s", "test"); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}
}

func TestIsAs(t *testing.T) {
	err := Wrap(&NotFoundError{Resource: "node", ID: "123"}, "lookup")
	if !Is(err, ErrNotFound) {
		t.Error("Is() failed to match NotFoundError to ErrNotFound")
	}
	var nfErr *NotFoundError
	if !As(err, &nfErr) {
		t.Fatal("As() failed to match NotFoundError")
	}
	if nfErr.ID != "123" {
		t.Errorf("As() nfErr.ID = %q, want %q", nfErr.ID, "123")
	}
}

func TestIsSentinelWithUnderlying(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", &NotFoundError{Resource: "node", Err: cause}, ErrNotFound},
		{"validation", &ValidationError{Field: "pointers", Err: cause}, ErrInvalidInput},
		{"document", &DocumentError{Document: "d1", Err: cause}, ErrInvalidDocument},
		{"parse", &ParseError{Format: "GraphML", Err: cause}, ErrInvalidInput},
		{"unsupported", &UnsupportedError{Feature: "edge", Err: cause}, ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Is(tt.err, tt.sentinel) {
				t.Errorf("Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if !Is(tt.err, cause) {
				t.Errorf("Is(%v, cause) = false", tt.err)
			}
		})
	}
}
