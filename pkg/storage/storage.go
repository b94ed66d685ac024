// Package storage is a thin file store over a local public directory.
// Rows reference files by path relative to the base; the HTTP layer serves
// the base under /storage/ like the original deployment.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store writes and removes files under Base. Relative paths returned by
// Save are what gets persisted in database rows.
type Store struct {
	Base string
}

func New(base string) *Store {
	return &Store{Base: base}
}

// Save streams r to folder/name under the base and returns the relative
// path. Parent directories are created on demand.
func (s *Store) Save(folder, name string, r io.Reader) (string, error) {
	dir := filepath.Join(s.Base, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	rel := folder + "/" + name
	f, err := os.Create(filepath.Join(s.Base, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return rel, nil
}

// Delete removes a stored file. Paths persisted as public URLs carry a
// /storage/ prefix which must be stripped first. A missing file is not an
// error: delete is used for best-effort cleanup.
func (s *Store) Delete(relPath string) error {
	rel := StripPublicPrefix(relPath)
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Base, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a stored file is present.
func (s *Store) Exists(relPath string) bool {
	rel := StripPublicPrefix(relPath)
	_, err := os.Stat(filepath.Join(s.Base, filepath.FromSlash(rel)))
	return err == nil
}

// URL returns the public retrieval URL for a stored relative path.
func (s *Store) URL(relPath string) string {
	return "/storage/" + strings.TrimPrefix(relPath, "/")
}

// StripPublicPrefix converts a persisted path (relative, or a public URL
// like /storage/images/member/x.jpg) back to a base-relative path.
func StripPublicPrefix(p string) string {
	p = strings.TrimPrefix(p, "/storage/")
	p = strings.TrimPrefix(p, "storage/")
	return strings.TrimPrefix(p, "/")
}
