// ABOUTME: Staging area for uploaded document bytes during ingestion
// ABOUTME: Every staged file comes with a cleanup func so nothing outlives its ingest
package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Staging writes incoming document bytes to a scratch directory so the
// extractors, which work on paths, can run against them. Staged files are
// never the caller's originals.
type Staging struct {
	dir string
}

// NewStaging creates a staging area rooted at dir. An empty dir falls back
// to the system temp directory.
func NewStaging(dir string) (*Staging, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "maitre-staging")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	return &Staging{dir: dir}, nil
}

// Stage writes data under a unique name that preserves the original
// extension, and returns the staged path plus a cleanup func. The cleanup
// func always removes the staged copy, success or failure.
func (s *Staging) Stage(data []byte, filename string) (string, func(), error) {
	name := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nil, fmt.Errorf("staging %s: %w", filename, err)
	}
	return path, func() { os.Remove(path) }, nil
}
