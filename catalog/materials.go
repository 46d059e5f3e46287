package catalog

import (
	"errors"
	"os"
	"sort"
	"time"

	"vitrina/assets"
	"vitrina/models"
	"vitrina/store"
)

// MaterialService is CRUD over catalog items. Image files travel with their
// records: a replaced or deleted record drags its stored image along.
type MaterialService struct {
	file    *store.File[[]models.Material]
	uploads *assets.Uploads
}

func NewMaterialService(file *store.File[[]models.Material], uploads *assets.Uploads) *MaterialService {
	return &MaterialService{file: file, uploads: uploads}
}

// MaterialInput carries the editable fields of a material. Status must
// already be normalized (see NormalizeStatus).
type MaterialInput struct {
	Title    string
	Category string
	Content  string
	Status   string
}

// NormalizeStatus maps raw form values for the status field onto one stored
// value. Checkbox-style submissions arrive as several values and collapse to
// published when present, empty otherwise. A single value is kept as-is; an
// absent one defaults to draft on both create and update.
func NormalizeStatus(values []string) string {
	if len(values) > 1 {
		for _, v := range values {
			if v == models.StatusPublished {
				return models.StatusPublished
			}
		}
		return ""
	}
	if len(values) == 1 && values[0] != "" {
		return values[0]
	}
	return models.StatusDraft
}

// ListAll returns every material, drafts included, newest first.
func (s *MaterialService) ListAll() ([]models.Material, error) {
	materials, err := s.load()
	if err != nil {
		return nil, err
	}
	sortByDateDesc(materials)
	return materials, nil
}

// ListPublished returns published materials whose category is in the given
// published set, newest first. The join against the category registry is
// re-derived on every call.
func (s *MaterialService) ListPublished(publishedCategories map[string]bool) ([]models.Material, error) {
	materials, err := s.load()
	if err != nil {
		return nil, err
	}
	visible := []models.Material{}
	for _, m := range materials {
		if m.Status == models.StatusPublished && publishedCategories[m.Category] {
			visible = append(visible, m)
		}
	}
	sortByDateDesc(visible)
	return visible, nil
}

// Create appends a material. image is the stored upload filename, or empty
// when nothing was uploaded.
func (s *MaterialService) Create(in MaterialInput, image string) (models.Material, error) {
	material := models.Material{
		ID:       store.NextID(),
		Title:    in.Title,
		Category: in.Category,
		Content:  in.Content,
		Image:    image,
		Date:     time.Now().UTC().Format(time.RFC3339),
		Status:   in.Status,
	}
	err := s.file.Update(func(materials []models.Material) ([]models.Material, error) {
		return append(materials, material), nil
	})
	if err != nil {
		return models.Material{}, err
	}
	return material, nil
}

// Update rewrites a material in place. A non-empty newImage replaces the
// stored filename and deletes the previous image file best-effort.
func (s *MaterialService) Update(id int64, in MaterialInput, newImage string) (models.Material, error) {
	var updated models.Material
	var oldImage string
	err := s.file.Update(func(materials []models.Material) ([]models.Material, error) {
		idx := -1
		for i, m := range materials {
			if m.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, ErrNotFound
		}

		m := &materials[idx]
		if newImage != "" {
			oldImage = m.Image
			m.Image = newImage
		}
		m.Title = in.Title
		m.Category = in.Category
		m.Content = in.Content
		m.Status = in.Status
		updated = *m
		return materials, nil
	})
	if err != nil {
		return models.Material{}, err
	}
	if oldImage != "" {
		s.uploads.RemoveGallery(oldImage)
	}
	return updated, nil
}

// Delete removes a material and its image file. A missing id is silent
// success: deletion is idempotent.
func (s *MaterialService) Delete(id int64, image string) error {
	err := s.file.Update(func(materials []models.Material) ([]models.Material, error) {
		kept := materials[:0]
		for _, m := range materials {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	s.uploads.RemoveGallery(image)
	return nil
}

// RenameCategory rewrites the category reference of every material pointing
// at oldTitle. Called by the category registry on rename.
func (s *MaterialService) RenameCategory(oldTitle, newTitle string) error {
	return s.file.Update(func(materials []models.Material) ([]models.Material, error) {
		for i := range materials {
			if materials[i].Category == oldTitle {
				materials[i].Category = newTitle
			}
		}
		return materials, nil
	})
}

// DeleteByCategory removes every material in the named category and deletes
// their image files best-effort. Called by the category registry on delete.
func (s *MaterialService) DeleteByCategory(title string) error {
	var removedImages []string
	err := s.file.Update(func(materials []models.Material) ([]models.Material, error) {
		kept := materials[:0]
		for _, m := range materials {
			if m.Category == title {
				if m.Image != "" {
					removedImages = append(removedImages, m.Image)
				}
				continue
			}
			kept = append(kept, m)
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	for _, image := range removedImages {
		s.uploads.RemoveGallery(image)
	}
	return nil
}

func (s *MaterialService) load() ([]models.Material, error) {
	materials, err := s.file.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Material{}, nil
		}
		return nil, err
	}
	return materials, nil
}

func sortByDateDesc(materials []models.Material) {
	sort.Slice(materials, func(i, j int) bool {
		return parseDate(materials[i].Date).After(parseDate(materials[j].Date))
	})
}

func parseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
