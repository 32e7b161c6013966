// ABOUTME: PDF text extraction via the poppler pdftotext binary
// ABOUTME: The runner is an interface so tests never shell out
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var pdfMagic = []byte("%PDF-")

// extractPDF converts a PDF to text with pdftotext, writing to stdout.
func (e *Extractor) extractPDF(ctx context.Context, path string, data []byte) (string, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", fmt.Errorf("missing %%PDF header: %w", ErrCorruptFile)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("pdftotext not installed (%s): %w", PDFInstallHint, ErrEngineUnavailable)
		}
		return "", fmt.Errorf("pdftotext failed: %w: %v", ErrCorruptFile, err)
	}
	return string(out), nil
}

// PDFInstallHint names the package that provides pdftotext.
const PDFInstallHint = "brew install poppler / apt install poppler-utils"
