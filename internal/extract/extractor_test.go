// ABOUTME: Tests for text extraction and normalization
// ABOUTME: Uses fake command runners and OCR so nothing shells out or calls an API
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

type fakeRunner struct {
	output []byte
	err    error
	calls  int
}

func (f *fakeRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	f.calls++
	return f.output, f.err
}

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) ExtractImageText(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// buildDOCX assembles a minimal DOCX archive with the given paragraphs.
func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><document><body>`)
	for _, p := range paragraphs {
		sb.WriteString("<p><r><t>" + p + "</t></r></p>")
	}
	sb.WriteString(`</body></document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(sb.String())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtract_PlainText(t *testing.T) {
	path := writeTemp(t, "notes.txt", []byte("hello\r\nworld\r\n"))

	e := New(nil)
	got, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "hello\nworld" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_BinaryWithTextExtension(t *testing.T) {
	path := writeTemp(t, "sneaky.txt", []byte{0x7f, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00})

	e := New(nil)
	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrCorruptFile) {
		t.Errorf("Extract() error = %v, want ErrCorruptFile", err)
	}
}

func TestExtract_UnsupportedType(t *testing.T) {
	path := writeTemp(t, "track.mp3", []byte("ID3 not really audio"))

	e := New(nil)
	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Extract() error = %v, want ErrUnsupportedType", err)
	}
}

func TestExtract_EmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.txt", nil)

	e := New(nil)
	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("Extract() error = %v, want ErrEmptyText", err)
	}
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDOCX(t, "First paragraph.", "Second paragraph.")
	path := writeTemp(t, "report.docx", data)

	e := New(nil)
	got, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "First paragraph.\nSecond paragraph." {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_DOCXNotAZip(t *testing.T) {
	path := writeTemp(t, "broken.docx", []byte("this is not a zip archive"))

	e := New(nil)
	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrCorruptFile) {
		t.Errorf("Extract() error = %v, want ErrCorruptFile", err)
	}
}

func TestExtract_PDF(t *testing.T) {
	path := writeTemp(t, "paper.pdf", []byte("%PDF-1.7 fake body"))

	e := New(nil)
	runner := &fakeRunner{output: []byte("Extracted PDF text.\n")}
	e.runner = runner

	got, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "Extracted PDF text." {
		t.Errorf("Extract() = %q", got)
	}
	if runner.calls != 1 {
		t.Errorf("runner called %d times, want 1", runner.calls)
	}
}

func TestExtract_PDFMissingHeader(t *testing.T) {
	path := writeTemp(t, "paper.pdf", []byte("not a pdf at all"))

	e := New(nil)
	e.runner = &fakeRunner{output: []byte("should not be reached")}

	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrCorruptFile) {
		t.Errorf("Extract() error = %v, want ErrCorruptFile", err)
	}
}

func TestExtract_PDFEngineMissing(t *testing.T) {
	path := writeTemp(t, "paper.pdf", []byte("%PDF-1.7 fake body"))

	e := New(nil)
	e.runner = &fakeRunner{err: exec.ErrNotFound}

	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Extract() error = %v, want ErrEngineUnavailable", err)
	}
}

func TestExtract_ImageOCR(t *testing.T) {
	// Minimal valid PNG header plus padding.
	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 16)...)
	path := writeTemp(t, "scan.png", png)

	e := New(&fakeOCR{text: "Text from the scan.\n"})
	got, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "Text from the scan." {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_ImageWithoutOCR(t *testing.T) {
	path := writeTemp(t, "scan.png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})

	e := New(nil)
	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Extract() error = %v, want ErrEngineUnavailable", err)
	}
}

func TestSupported(t *testing.T) {
	e := New(nil)
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"report.DOCX", true},
		{"notes.md", true},
		{"scan.jpeg", true},
		{"track.mp3", false},
		{"archive.zip", false},
	}
	for _, tt := range tests {
		if got := e.Supported(tt.name); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb", "a\nb"},
		{"bare cr", "a\rb", "a\nb"},
		{"nul bytes", "a\x00b", "ab"},
		{"surrounding space", "  text  \n", "text"},
		{"already clean", "plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStaging_StageAndCleanup(t *testing.T) {
	s, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("NewStaging() error = %v", err)
	}

	path, cleanup, err := s.Stage([]byte("content"), "report.pdf")
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if filepath.Ext(path) != ".pdf" {
		t.Errorf("staged path %q does not keep the extension", path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "content" {
		t.Errorf("staged file read = %q, %v", data, err)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("staged file still exists after cleanup")
	}
}

func TestStaging_UniquePaths(t *testing.T) {
	s, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	a, cleanupA, err := s.Stage([]byte("a"), "doc.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanupA()
	b, cleanupB, err := s.Stage([]byte("b"), "doc.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanupB()

	if a == b {
		t.Errorf("two staged copies of the same filename share a path: %q", a)
	}
}
