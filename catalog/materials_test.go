package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"vitrina/models"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected string
	}{
		{"absent defaults to draft", nil, "draft"},
		{"empty scalar defaults to draft", []string{""}, "draft"},
		{"scalar kept", []string{"published"}, "published"},
		{"multi with published", []string{"draft", "published"}, "published"},
		{"multi without published", []string{"draft", "draft"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeStatus(tt.values))
		})
	}
}

func TestCreateMaterial(t *testing.T) {
	_, materials, _ := newTestServices(t)

	created, err := materials.Create(MaterialInput{
		Title:    "X",
		Category: "Books",
		Content:  "text",
		Status:   NormalizeStatus(nil),
	}, "img.png")
	assert.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "img.png", created.Image)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.NotEmpty(t, created.Date)
}

func TestListAllSortedByDateDesc(t *testing.T) {
	_, materials, _ := newTestServices(t)

	seedMaterials(t, materials, []models.Material{
		{ID: 1, Title: "old", Date: "2024-01-01T00:00:00Z"},
		{ID: 2, Title: "new", Date: "2024-03-01T00:00:00Z"},
		{ID: 3, Title: "mid", Date: "2024-02-01T00:00:00Z"},
	})

	all, err := materials.ListAll()
	assert.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{all[0].Title, all[1].Title, all[2].Title})
}

func TestListPublishedFiltersAndSorts(t *testing.T) {
	_, materials, _ := newTestServices(t)

	seedMaterials(t, materials, []models.Material{
		{ID: 1, Title: "draft in published cat", Category: "Books", Status: "draft", Date: "2024-04-01T00:00:00Z"},
		{ID: 2, Title: "published in hidden cat", Category: "Hidden", Status: "published", Date: "2024-03-01T00:00:00Z"},
		{ID: 3, Title: "older", Category: "Books", Status: "published", Date: "2024-01-01T00:00:00Z"},
		{ID: 4, Title: "newer", Category: "Books", Status: "published", Date: "2024-02-01T00:00:00Z"},
	})

	visible, err := materials.ListPublished(map[string]bool{"Books": true})
	assert.NoError(t, err)
	assert.Len(t, visible, 2)
	assert.Equal(t, "newer", visible[0].Title)
	assert.Equal(t, "older", visible[1].Title)
}

func TestUpdateMaterialNotFound(t *testing.T) {
	_, materials, _ := newTestServices(t)

	_, err := materials.Update(42, MaterialInput{Title: "X"}, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMaterialReplacesImage(t *testing.T) {
	_, materials, uploads := newTestServices(t)

	storeFakeImage(t, uploads, "old.png")
	created, err := materials.Create(MaterialInput{Title: "X", Status: "published"}, "old.png")
	assert.NoError(t, err)

	storeFakeImage(t, uploads, "new.png")
	updated, err := materials.Update(created.ID, MaterialInput{Title: "X", Status: "published"}, "new.png")
	assert.NoError(t, err)
	assert.Equal(t, "new.png", updated.Image)

	_, statErr := os.Stat(filepath.Join(uploads.GalleryDir, "old.png"))
	assert.True(t, os.IsNotExist(statErr))

	all, _ := materials.ListAll()
	assert.Equal(t, "new.png", all[0].Image)
}

func TestUpdateMaterialWithoutImageKeepsOld(t *testing.T) {
	_, materials, uploads := newTestServices(t)

	storeFakeImage(t, uploads, "keep.png")
	created, _ := materials.Create(MaterialInput{Title: "X", Status: "published"}, "keep.png")

	updated, err := materials.Update(created.ID, MaterialInput{Title: "renamed", Status: "published"}, "")
	assert.NoError(t, err)
	assert.Equal(t, "keep.png", updated.Image)
	assert.Equal(t, "renamed", updated.Title)

	_, statErr := os.Stat(filepath.Join(uploads.GalleryDir, "keep.png"))
	assert.NoError(t, statErr)
}

func TestDeleteMaterial(t *testing.T) {
	_, materials, uploads := newTestServices(t)

	storeFakeImage(t, uploads, "gone.png")
	created, _ := materials.Create(MaterialInput{Title: "X", Status: "published"}, "gone.png")

	assert.NoError(t, materials.Delete(created.ID, created.Image))

	all, _ := materials.ListAll()
	assert.Empty(t, all)
	_, statErr := os.Stat(filepath.Join(uploads.GalleryDir, "gone.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteMaterialIdempotent(t *testing.T) {
	_, materials, _ := newTestServices(t)

	created, _ := materials.Create(MaterialInput{Title: "X", Status: "published"}, "")

	assert.NoError(t, materials.Delete(9999, ""))

	all, _ := materials.ListAll()
	assert.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
}

func seedMaterials(t *testing.T, materials *MaterialService, records []models.Material) {
	t.Helper()
	err := materials.file.Save(records)
	if err != nil {
		t.Fatal(err)
	}
}
