package filestore

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestDiskStoreSaveAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	content := []byte("%PDF-1.4 test document")
	name, size, err := store.Save(context.Background(), "report.pdf", "application/pdf", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len(content)) {
		t.Errorf("size = %d, want %d", size, len(content))
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("stored name %q should keep the .pdf extension", name)
	}

	rc, err := store.Open(context.Background(), name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestDiskStoreSizeLimit(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	// Exactly at the limit is accepted.
	atLimit := bytes.Repeat([]byte("a"), MaxUploadSize)
	if _, _, err := store.Save(context.Background(), "big.pdf", "application/pdf", bytes.NewReader(atLimit)); err != nil {
		t.Errorf("file of exactly %d bytes should be accepted, got %v", MaxUploadSize, err)
	}

	// One byte over is rejected.
	over := bytes.Repeat([]byte("a"), MaxUploadSize+1)
	if _, _, err := store.Save(context.Background(), "big.pdf", "application/pdf", bytes.NewReader(over)); err != ErrFileTooLarge {
		t.Errorf("file of %d bytes: got %v, want ErrFileTooLarge", MaxUploadSize+1, err)
	}
}

func TestDiskStoreRejectsDisallowedContentType(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	_, _, err = store.Save(context.Background(), "archive.zip", "application/zip", strings.NewReader("PK"))
	if err != ErrInvalidContentType {
		t.Errorf("got %v, want ErrInvalidContentType", err)
	}
}

func TestDiskStoreDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	name, _, err := store.Save(context.Background(), "x.png", "image/png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(context.Background(), name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(context.Background(), name); err != ErrFileNotFound {
		t.Errorf("open after delete: got %v, want ErrFileNotFound", err)
	}
	if err := store.Delete(context.Background(), name); err != ErrFileNotFound {
		t.Errorf("second delete: got %v, want ErrFileNotFound", err)
	}
}

func TestDiskStoreRejectsPathTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	if _, err := store.Open(context.Background(), "../etc/passwd"); err != ErrFileNotFound {
		t.Errorf("open with traversal: got %v, want ErrFileNotFound", err)
	}
	if err := store.Delete(context.Background(), "../etc/passwd"); err != ErrFileNotFound {
		t.Errorf("delete with traversal: got %v, want ErrFileNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	name, size, err := store.Save(context.Background(), "scan.jpeg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("jpeg-bytes")) {
		t.Errorf("size = %d", size)
	}
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}

	rc, err := store.Open(context.Background(), name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rc.Close()

	if err := store.Delete(context.Background(), name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("len after delete = %d, want 0", store.Len())
	}
}
