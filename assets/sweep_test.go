package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeBrandingFile(t *testing.T, uploads *Uploads, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(uploads.BrandingDir, name)
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestSweepBrandingKeepsNewestOnly(t *testing.T) {
	uploads := newTestUploads(t)

	writeBrandingFile(t, uploads, "oldest.png", 3*time.Hour)
	writeBrandingFile(t, uploads, "older.png", 2*time.Hour)
	writeBrandingFile(t, uploads, "current.png", time.Minute)

	assert.NoError(t, uploads.SweepBranding())

	entries, err := os.ReadDir(uploads.BrandingDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "current.png", entries[0].Name())
}

func TestSweepBrandingSingleFileIsNoOp(t *testing.T) {
	uploads := newTestUploads(t)

	writeBrandingFile(t, uploads, "only.png", time.Hour)

	assert.NoError(t, uploads.SweepBranding())

	entries, _ := os.ReadDir(uploads.BrandingDir)
	assert.Len(t, entries, 1)
}

func TestSweepBrandingEmptyDirIsNoOp(t *testing.T) {
	uploads := newTestUploads(t)

	assert.NoError(t, uploads.SweepBranding())
}

func TestSweepBrandingCreatesMissingDir(t *testing.T) {
	dir := t.TempDir()
	uploads := NewUploads(filepath.Join(dir, "uploads"), filepath.Join(dir, "uploads2"))

	assert.NoError(t, uploads.SweepBranding())

	info, err := os.Stat(uploads.BrandingDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStartBrandingSweepRunsImmediately(t *testing.T) {
	uploads := newTestUploads(t)

	writeBrandingFile(t, uploads, "stale.png", 2*time.Hour)
	writeBrandingFile(t, uploads, "fresh.png", time.Minute)

	stop := uploads.StartBrandingSweep(time.Hour)
	defer stop()

	entries, _ := os.ReadDir(uploads.BrandingDir)
	assert.Len(t, entries, 1)
	assert.Equal(t, "fresh.png", entries[0].Name())
}
