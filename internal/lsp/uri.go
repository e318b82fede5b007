package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// PathToURI converts a file path to a file:// URI.
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// URIToPath converts a file:// URI back to a file path.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

// rootMarkers name files whose presence marks a workspace root.
var rootMarkers = []string{".git", "go.mod", "package.json", "Cargo.toml", "pyproject.toml", "pom.xml", "compile_commands.json"}

// FindRoot returns the nearest directory above path that holds a root
// marker, or path's own directory when none does.
func FindRoot(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	start := filepath.Dir(path)
	for dir := start; ; {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
