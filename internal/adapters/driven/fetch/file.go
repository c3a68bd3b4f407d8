// Package fetch provides source-text fetchers for document ingestion.
package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
)

// Ensure FileFetcher implements the interface.
var _ driven.Fetcher = (*FileFetcher)(nil)

// FileFetcher reads document text from the local filesystem. URIs may
// carry a file:// prefix or be plain paths.
type FileFetcher struct{}

// NewFileFetcher creates a filesystem fetcher.
func NewFileFetcher() *FileFetcher {
	return &FileFetcher{}
}

// Fetch reads the file at uri and returns its text.
func (f *FileFetcher) Fetch(ctx context.Context, uri string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := strings.TrimPrefix(uri, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
