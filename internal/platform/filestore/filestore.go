// Package filestore provides storage for uploaded document files. It defines
// the Store interface, a local-disk implementation, and an in-memory
// implementation suitable for testing.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
)

// MaxUploadSize is the maximum allowed upload size in bytes (10 MB).
const MaxUploadSize = 10 * 1024 * 1024

// AllowedContentTypes lists the MIME types accepted for uploads.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
}

// Store is the contract for uploaded file storage backends.
type Store interface {
	// Save validates size and content type, then persists the file under a
	// generated name. It returns the stored name and the byte count written.
	Save(ctx context.Context, originalName, contentType string, content io.Reader) (string, int64, error)
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	Delete(ctx context.Context, storedName string) error
}

// readAll enforces the size limit while buffering the content.
func readAll(content io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// storedName generates a unique file name preserving the original extension.
func storedName(originalName string) string {
	return uuid.New().String() + filepath.Ext(originalName)
}

// DiskStore stores files in a local directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a DiskStore.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory files are stored in.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(_ context.Context, originalName, contentType string, content io.Reader) (string, int64, error) {
	if !AllowedContentTypes[contentType] {
		return "", 0, ErrInvalidContentType
	}
	data, err := readAll(content)
	if err != nil {
		return "", 0, err
	}

	name := storedName(originalName)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("writing file: %w", err)
	}
	return name, int64(len(data)), nil
}

func (s *DiskStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	// Reject anything that could escape the upload directory.
	if name != filepath.Base(name) {
		return nil, ErrFileNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

func (s *DiskStore) Delete(_ context.Context, name string) error {
	if name != filepath.Base(name) {
		return ErrFileNotFound
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrFileNotFound
	}
	if err != nil {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// MemoryStore is a thread-safe, in-memory Store for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, originalName, contentType string, content io.Reader) (string, int64, error) {
	if !AllowedContentTypes[contentType] {
		return "", 0, ErrInvalidContentType
	}
	data, err := readAll(content)
	if err != nil {
		return "", 0, err
	}

	name := storedName(originalName)
	s.mu.Lock()
	s.files[name] = data
	s.mu.Unlock()
	return name, int64(len(data)), nil
}

func (s *MemoryStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.files[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		return ErrFileNotFound
	}
	delete(s.files, name)
	return nil
}

// Len reports the number of stored files. Intended for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
