package catalog

import (
	"os"
	"sort"
	"strings"

	"vitrina/models"
	"vitrina/store"
)

// CategoryService is the registry of material categories. Materials reference
// a category by title, so the registry is responsible for keeping those soft
// references intact: a rename rewrites every referencing material, a delete
// removes them along with their image files.
type CategoryService struct {
	file      *store.File[[]models.Category]
	materials *MaterialService
}

func NewCategoryService(file *store.File[[]models.Category], materials *MaterialService) *CategoryService {
	return &CategoryService{file: file, materials: materials}
}

// List returns all categories sorted ascending by id (creation order).
func (s *CategoryService) List() ([]models.Category, error) {
	categories, err := s.file.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Category{}, nil
		}
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

func (s *CategoryService) Create(title, status string) (models.Category, error) {
	if title == "" {
		return models.Category{}, ErrTitleRequired
	}

	category := models.Category{
		ID:     store.NextID(),
		Title:  title,
		Status: normalizeCategoryStatus(status),
	}

	err := s.file.Update(func(categories []models.Category) ([]models.Category, error) {
		for _, c := range categories {
			if strings.EqualFold(c.Title, title) {
				return nil, ErrDuplicateTitle
			}
		}
		return append(categories, category), nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// Update renames a category and/or changes its status. When the title
// changes, every material referencing the old title is rewritten to the new
// one.
func (s *CategoryService) Update(id int64, title, status string) (models.Category, error) {
	if title == "" {
		return models.Category{}, ErrTitleRequired
	}

	var updated models.Category
	var oldTitle string
	err := s.file.Update(func(categories []models.Category) ([]models.Category, error) {
		idx := -1
		for i, c := range categories {
			if c.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, ErrNotFound
		}
		for i, c := range categories {
			if i != idx && strings.EqualFold(c.Title, title) {
				return nil, ErrDuplicateTitle
			}
		}

		oldTitle = categories[idx].Title
		categories[idx].Title = title
		categories[idx].Status = normalizeCategoryStatus(status)
		updated = categories[idx]
		return categories, nil
	})
	if err != nil {
		return models.Category{}, err
	}

	if oldTitle != title {
		if err := s.materials.RenameCategory(oldTitle, title); err != nil {
			return models.Category{}, err
		}
	}
	return updated, nil
}

// Delete removes a category and cascades: every material in it is removed and
// each removed material's image file is deleted best-effort.
func (s *CategoryService) Delete(id int64) error {
	var title string
	err := s.file.Update(func(categories []models.Category) ([]models.Category, error) {
		idx := -1
		for i, c := range categories {
			if c.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, ErrNotFound
		}
		title = categories[idx].Title
		return append(categories[:idx], categories[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	return s.materials.DeleteByCategory(title)
}

// PublishedTitles returns the titles of published categories, the visibility
// set the storefront joins materials against.
func (s *CategoryService) PublishedTitles() (map[string]bool, error) {
	categories, err := s.List()
	if err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.Status == models.StatusPublished {
			titles[c.Title] = true
		}
	}
	return titles, nil
}

func normalizeCategoryStatus(status string) string {
	if status == models.StatusPublished {
		return models.StatusPublished
	}
	return models.StatusDraft
}
