// Package blobstore persists opaque file contents on the local
// filesystem, addressed by caller-supplied keys.
package blobstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no blob exists for a key.
var ErrNotFound = errors.New("blobstore: not found")

// Store writes each blob to its own file under a root directory. Put
// streams through a temp file and renames, so readers never observe a
// partially written blob.
type Store struct {
	root string
}

// New creates the root directory if needed and returns a store over it.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("blobstore: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: failed to create root: %w", err)
	}
	return &Store{root: root}, nil
}

// Put stores the contents under key and returns the number of bytes written.
func (s *Store) Put(key string, contents io.Reader) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("blobstore: failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, contents)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("blobstore: failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("blobstore: failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("blobstore: failed to place blob: %w", err)
	}
	return size, nil
}

// Open returns a reader over the blob stored under key. The caller owns
// the returned reader.
func (s *Store) Open(key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blobstore: failed to open blob: %w", err)
	}
	return f, nil
}

// Remove deletes the blob stored under key.
func (s *Store) Remove(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("blobstore: failed to remove blob: %w", err)
	}
	return nil
}

// path rejects keys that would escape the root directory.
func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", fmt.Errorf("blobstore: invalid key %q", key)
	}
	return filepath.Join(s.root, key), nil
}
