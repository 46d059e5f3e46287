package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestLoadMissingFile(t *testing.T) {
	f := NewFile[[]record](filepath.Join(t.TempDir(), "missing.json"))

	_, err := f.Load()
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := NewFile[[]record](filepath.Join(t.TempDir(), "records.json"))

	want := []record{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}
	assert.NoError(t, f.Save(want))

	got, err := f.Load()
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewFile[[]record](filepath.Join(dir, "records.json"))

	assert.NoError(t, f.Save([]record{{ID: 1}}))
	assert.NoError(t, f.Save([]record{{ID: 1}, {ID: 2}}))

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "records.json", entries[0].Name())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	f := NewFile[[]record](path)
	_, err := f.Load()
	assert.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}

func TestUpdateStartsFromZeroValue(t *testing.T) {
	f := NewFile[[]record](filepath.Join(t.TempDir(), "records.json"))

	err := f.Update(func(records []record) ([]record, error) {
		assert.Empty(t, records)
		return append(records, record{ID: 7, Title: "first"}), nil
	})
	assert.NoError(t, err)

	got, err := f.Load()
	assert.NoError(t, err)
	assert.Equal(t, []record{{ID: 7, Title: "first"}}, got)
}

func TestUpdateAbortLeavesFileUntouched(t *testing.T) {
	f := NewFile[[]record](filepath.Join(t.TempDir(), "records.json"))
	assert.NoError(t, f.Save([]record{{ID: 1}}))

	boom := errors.New("boom")
	err := f.Update(func(records []record) ([]record, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := f.Load()
	assert.NoError(t, err)
	assert.Equal(t, []record{{ID: 1}}, got)
}

func TestNextIDStrictlyIncreasing(t *testing.T) {
	last := NextID()
	for i := 0; i < 10000; i++ {
		id := NextID()
		assert.Greater(t, id, last)
		last = id
	}
}
