// Package ingest discovers prediction files and decodes them into typed
// records.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is a location that holds prediction files.
type Source interface {
	// Glob returns the names of files matching pattern, sorted.
	Glob(ctx context.Context, pattern string) ([]string, error)

	// Open returns the contents of a file previously returned by Glob.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// String describes the location for log messages.
	String() string
}

// NewSource picks a Source for projectPath: http(s) URLs are treated as Azure
// Blob Storage prefixes, anything else as a local directory.
func NewSource(projectPath string) (Source, error) {
	if IsBlobURL(projectPath) {
		return NewBlobSource(projectPath)
	}
	return NewLocalSource(projectPath)
}

// IsBlobURL reports whether projectPath addresses blob storage.
func IsBlobURL(projectPath string) bool {
	return strings.HasPrefix(projectPath, "https://") || strings.HasPrefix(projectPath, "http://")
}

// LocalSource reads prediction files from a directory.
type LocalSource struct {
	dir string
}

// NewLocalSource returns a LocalSource rooted at dir. The directory must exist.
func NewLocalSource(dir string) (*LocalSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("project path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s is not a directory", dir)
	}
	return &LocalSource{dir: dir}, nil
}

func (s *LocalSource) Glob(_ context.Context, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func (s *LocalSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (s *LocalSource) String() string {
	return s.dir
}

// Dir returns the directory the source reads from.
func (s *LocalSource) Dir() string {
	return s.dir
}
