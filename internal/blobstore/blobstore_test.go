package blobstore

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestStore_PutAndOpen(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	size, err := store.Put("blob-1", strings.NewReader("hello blob"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if size != int64(len("hello blob")) {
		t.Fatalf("expected size %d, got %d", len("hello blob"), size)
	}

	contents, err := store.Open("blob-1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer contents.Close()

	buf, err := io.ReadAll(contents)
	if err != nil {
		t.Fatalf("reading blob failed: %v", err)
	}
	if string(buf) != "hello blob" {
		t.Fatalf("unexpected contents %q", buf)
	}
}

func TestStore_Put_Overwrites(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := store.Put("blob-1", strings.NewReader("first")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := store.Put("blob-1", strings.NewReader("second")); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	contents, err := store.Open("blob-1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer contents.Close()

	buf, _ := io.ReadAll(contents)
	if string(buf) != "second" {
		t.Fatalf("expected overwrite, got %q", buf)
	}
}

func TestStore_Open_Missing(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := store.Open("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := store.Put("blob-1", strings.NewReader("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Remove("blob-1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := store.Remove("blob-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestStore_RejectsTraversalKeys(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, key := range []string{"", "../escape", "a/b", `a\b`, ".."} {
		if _, err := store.Put(key, strings.NewReader("x")); err == nil {
			t.Errorf("expected Put(%q) to fail", key)
		}
		if _, err := store.Open(key); err == nil {
			t.Errorf("expected Open(%q) to fail", key)
		}
	}
}
