// Package upload moves a user-chosen file into object storage through a
// presigned URL handed out by the backend, and derives its public CDN URL.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNoFile is returned when the form carried no file.
	ErrNoFile = errors.New("upload: no file")
	// ErrTooLarge is returned when a file exceeds its rule's size limit.
	ErrTooLarge = errors.New("upload: file too large")
	// ErrType is returned when the sniffed content type is not allowed.
	ErrType = errors.New("upload: file type not allowed")
)

// Rule constrains which files a form field accepts.
type Rule struct {
	Label    string   // shown to users, e.g. "PDF"
	MaxBytes int64    // inclusive upper bound
	Allowed  []string // exact types, or "image/*" style prefixes
}

var (
	PDFRule   = Rule{Label: "PDF", MaxBytes: 10 << 20, Allowed: []string{"application/pdf"}}
	ImageRule = Rule{Label: "image", MaxBytes: 5 << 20, Allowed: []string{"image/*"}}
)

// Allows reports whether contentType matches one of the rule's entries.
func (r Rule) Allows(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	for _, a := range r.Allowed {
		if prefix, ok := strings.CutSuffix(a, "/*"); ok {
			if strings.HasPrefix(contentType, prefix+"/") {
				return true
			}
			continue
		}
		if contentType == a {
			return true
		}
	}
	return false
}

// RuleError is a rule violation with a message fit for the form.
type RuleError struct {
	Err error // ErrTooLarge or ErrType
	Msg string
}

func (e *RuleError) Error() string { return e.Err.Error() + ": " + e.Msg }
func (e *RuleError) Unwrap() error { return e.Err }

// Check validates a file's size and sniffed type against rule. It runs
// before any network call.
func Check(rule Rule, size int64, sniffed string) error {
	if size <= 0 {
		return ErrNoFile
	}
	if size > rule.MaxBytes {
		return &RuleError{Err: ErrTooLarge, Msg: fmt.Sprintf("%s must be %d MB or smaller.", capitalize(rule.Label), rule.MaxBytes>>20)}
	}
	if !rule.Allows(sniffed) {
		return &RuleError{Err: ErrType, Msg: fmt.Sprintf("Please choose a valid %s file.", rule.Label)}
	}
	return nil
}

// File is a checked file read fully into memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Read loads a multipart file, sniffs its content type and checks it
// against rule. The browser-supplied Content-Type is ignored.
func Read(fh *multipart.FileHeader, rule Rule) (File, error) {
	if fh == nil || fh.Size == 0 {
		return File{}, ErrNoFile
	}
	if fh.Size > rule.MaxBytes {
		return File{}, Check(rule, fh.Size, "")
	}
	f, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, rule.MaxBytes+1))
	if err != nil {
		return File{}, fmt.Errorf("read upload: %w", err)
	}
	sniffed := mimetype.Detect(data).String()
	if err := Check(rule, int64(len(data)), sniffed); err != nil {
		return File{}, err
	}
	return File{Name: fh.Filename, ContentType: baseType(sniffed), Data: data}, nil
}

// UserMessage turns a rule violation into text for the form.
func UserMessage(err error) string {
	var re *RuleError
	switch {
	case errors.As(err, &re):
		return re.Msg
	case errors.Is(err, ErrNoFile):
		return "Please choose a file."
	}
	return "Failed to upload file. Please try again."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func baseType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		return strings.TrimSpace(ct[:i])
	}
	return ct
}
