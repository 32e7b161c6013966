// ABOUTME: Text extraction from PDF, DOCX, plain text, and image files
// ABOUTME: Every format funnels into one normalized UTF-8 output with a shared error taxonomy
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Extraction failure kinds. Callers branch on these to decide whether a
// document is retryable, rejectable, or a deployment problem.
var (
	// ErrUnsupportedType means the file format has no extraction path.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrCorruptFile means the file claims a supported format but cannot be parsed.
	ErrCorruptFile = errors.New("corrupt or unreadable file")
	// ErrEngineUnavailable means a required external engine is not installed.
	ErrEngineUnavailable = errors.New("extraction engine unavailable")
	// ErrEmptyText means extraction succeeded but produced no usable text.
	ErrEmptyText = errors.New("no text content extracted")
)

// ImageReader performs OCR on image bytes. Satisfied by llm.Client.
type ImageReader interface {
	ExtractImageText(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Extractor converts supported document files into normalized plain text.
type Extractor struct {
	runner CommandRunner
	ocr    ImageReader
}

// New creates an Extractor. ocr may be nil, in which case image files
// are rejected with ErrEngineUnavailable.
func New(ocr ImageReader) *Extractor {
	return &Extractor{
		runner: execRunner{},
		ocr:    ocr,
	}
}

// imageMIMEs maps supported image extensions to their MIME type for OCR.
var imageMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// textExts are extensions read verbatim as UTF-8 text.
var textExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".text": true,
	".log":  true,
	".csv":  true,
}

// Extract reads the file at path and returns its normalized text content.
// The format is chosen by extension, cross-checked against content sniffing
// so a renamed binary does not slip through as plain text.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyText)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var text string
	switch {
	case ext == ".pdf":
		text, err = e.extractPDF(ctx, path, data)
	case ext == ".docx":
		text, err = extractDOCX(data)
	case imageMIMEs[ext] != "":
		text, err = e.extractImage(ctx, data, imageMIMEs[ext])
	case textExts[ext]:
		text, err = extractPlainText(data)
	default:
		return "", fmt.Errorf("%s: %w", ext, ErrUnsupportedType)
	}
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}

	text = Normalize(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyText)
	}
	return text, nil
}

// Supported reports whether files with the given name have an extraction path.
func (e *Extractor) Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".pdf" || ext == ".docx" || imageMIMEs[ext] != "" || textExts[ext]
}

func (e *Extractor) extractImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	if e.ocr == nil {
		return "", fmt.Errorf("no OCR engine configured: %w", ErrEngineUnavailable)
	}
	text, err := e.ocr.ExtractImageText(ctx, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}

// extractPlainText rejects files whose sniffed content is binary despite a
// text extension.
func extractPlainText(data []byte) (string, error) {
	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "text/") {
		return "", fmt.Errorf("content sniffed as %s: %w", sniffed, ErrCorruptFile)
	}
	return string(data), nil
}

// Normalize strips NUL bytes, converts CRLF and CR line endings to LF, and
// trims surrounding whitespace. All extraction paths pass through here so
// chunking and embedding always see the same shape of text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}
