package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a JSON document on disk holding a whole collection (or a singleton
// object). Each read-modify-write cycle runs under the file's mutex, so two
// concurrent updates against the same collection cannot lose each other's
// writes.
type File[T any] struct {
	path string
	mu   sync.Mutex
}

func NewFile[T any](path string) *File[T] {
	return &File[T]{path: path}
}

func (f *File[T]) Path() string {
	return f.path
}

// Load decodes the whole document. A missing file surfaces the underlying
// fs.ErrNotExist so callers can fall back to an empty collection or a default
// singleton.
func (f *File[T]) Load() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *File[T]) load() (T, error) {
	var doc T
	data, err := os.ReadFile(f.path)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return doc, nil
}

// Save overwrites the document. The write goes to a temp file in the same
// directory and is renamed over the target, so a crash mid-write cannot leave
// a truncated document behind.
func (f *File[T]) Save(doc T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(doc)
}

func (f *File[T]) save(doc T) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Update runs fn over the current document and saves the result, all under the
// file lock. fn receives the zero value when the file does not exist yet.
// Returning an error from fn aborts the update without touching the file.
func (f *File[T]) Update(fn func(T) (T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	next, err := fn(doc)
	if err != nil {
		return err
	}
	return f.save(next)
}
