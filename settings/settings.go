package settings

import (
	"os"

	"vitrina/models"
	"vitrina/store"
)

// Service owns the site config singleton.
type Service struct {
	file *store.File[models.SiteConfig]
}

func NewService(file *store.File[models.SiteConfig]) *Service {
	return &Service{file: file}
}

// Get returns the persisted config, or the defaults when none has been
// written yet.
func (s *Service) Get() (models.SiteConfig, error) {
	cfg, err := s.file.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultSiteConfig(), nil
		}
		return models.SiteConfig{}, err
	}
	return cfg, nil
}

// Input carries the settings form fields. CurrentImage round-trips the stored
// image path so the form can be saved without re-uploading.
type Input struct {
	Sitename     string
	Description  string
	Slogan       string
	CurrentImage string
}

// Save overwrites the branding fields. uploadedPath, when non-empty, becomes
// the new image; otherwise the caller-supplied current image is kept
// verbatim. The stored password always survives a settings save.
func (s *Service) Save(in Input, uploadedPath string) (models.SiteConfig, error) {
	image := in.CurrentImage
	if uploadedPath != "" {
		image = uploadedPath
	}

	var saved models.SiteConfig
	err := s.file.Update(func(cfg models.SiteConfig) (models.SiteConfig, error) {
		if cfg.Password == "" {
			cfg.Password = models.DefaultSiteConfig().Password
		}
		cfg.Sitename = in.Sitename
		cfg.Description = in.Description
		cfg.Slogan = in.Slogan
		cfg.Image = image
		saved = cfg
		return cfg, nil
	})
	if err != nil {
		return models.SiteConfig{}, err
	}
	return saved, nil
}

// SetPassword persists a new password, leaving the branding fields alone.
func (s *Service) SetPassword(password string) error {
	return s.file.Update(func(cfg models.SiteConfig) (models.SiteConfig, error) {
		cfg.Password = password
		return cfg, nil
	})
}
