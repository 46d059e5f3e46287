package gallery

import (
	"os"
	"time"

	"vitrina/assets"
	"vitrina/models"
	"vitrina/store"
)

// Service manages the standalone image gallery. Items are keyed by their
// generated upload filename.
type Service struct {
	file    *store.File[[]models.GalleryItem]
	uploads *assets.Uploads
}

func NewService(file *store.File[[]models.GalleryItem], uploads *assets.Uploads) *Service {
	return &Service{file: file, uploads: uploads}
}

func (s *Service) List() ([]models.GalleryItem, error) {
	items, err := s.file.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return []models.GalleryItem{}, nil
		}
		return nil, err
	}
	return items, nil
}

// Add records an already-stored upload as a gallery item.
func (s *Service) Add(filename, title string) (models.GalleryItem, error) {
	item := models.GalleryItem{
		Filename: filename,
		Title:    title,
		Date:     time.Now().UTC().Format(time.RFC3339),
	}
	err := s.file.Update(func(items []models.GalleryItem) ([]models.GalleryItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return models.GalleryItem{}, err
	}
	return item, nil
}

// Remove drops the item and deletes its file best-effort. A filename with no
// matching item is silent success.
func (s *Service) Remove(filename string) error {
	err := s.file.Update(func(items []models.GalleryItem) ([]models.GalleryItem, error) {
		kept := items[:0]
		for _, item := range items {
			if item.Filename != filename {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	s.uploads.RemoveGallery(filename)
	return nil
}
