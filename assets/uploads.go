package assets

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"

	"vitrina/store"
)

const thumbWidth = 480

// Uploads owns the two image destinations: the gallery dir backing gallery
// items and material images, and the branding dir backing the site config
// image. Record services call into it when a record drags a file along.
type Uploads struct {
	GalleryDir  string
	BrandingDir string
}

func NewUploads(galleryDir, brandingDir string) *Uploads {
	return &Uploads{GalleryDir: galleryDir, BrandingDir: brandingDir}
}

// EnsureDirs creates both destinations plus the thumbnail subdir.
func (u *Uploads) EnsureDirs() error {
	for _, dir := range []string{u.GalleryDir, u.ThumbDir(), u.BrandingDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (u *Uploads) ThumbDir() string {
	return filepath.Join(u.GalleryDir, "thumbs")
}

// SaveGallery writes an uploaded gallery/material image under a generated
// <millis><ext> name and returns that name. A downscaled thumbnail is written
// next to it under thumbs/; uploads that do not decode as images simply get no
// thumbnail.
func (u *Uploads) SaveGallery(src io.Reader, originalName string) (string, error) {
	name := strconv.FormatInt(store.NextID(), 10) + filepath.Ext(originalName)
	if err := writeFile(filepath.Join(u.GalleryDir, name), src); err != nil {
		return "", err
	}
	u.makeThumb(name)
	return name, nil
}

// SaveBranding writes an uploaded branding image as <millis>-<originalname>
// and returns the generated name.
func (u *Uploads) SaveBranding(src io.Reader, originalName string) (string, error) {
	name := fmt.Sprintf("%d-%s", store.NextID(), filepath.Base(originalName))
	if err := writeFile(filepath.Join(u.BrandingDir, name), src); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveGallery deletes a stored gallery image and its thumbnail. Deletion is
// best-effort: a record pointing at an already-missing file must never block
// the record operation that triggered the cleanup, so errors are logged and
// swallowed.
func (u *Uploads) RemoveGallery(filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(filepath.Join(u.GalleryDir, filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("remove upload %s: %v", filename, err)
	}
	if err := os.Remove(filepath.Join(u.ThumbDir(), filename+".jpg")); err != nil && !os.IsNotExist(err) {
		log.Printf("remove thumbnail for %s: %v", filename, err)
	}
}

// ThumbName returns the thumbnail filename for a stored gallery image.
func ThumbName(filename string) string {
	return filename + ".jpg"
}

func (u *Uploads) makeThumb(filename string) {
	img, err := imaging.Open(filepath.Join(u.GalleryDir, filename), imaging.AutoOrientation(true))
	if err != nil {
		log.Printf("no thumbnail for %s: %v", filename, err)
		return
	}
	thumb := imaging.Fit(img, thumbWidth, thumbWidth, imaging.Lanczos)
	dst := filepath.Join(u.ThumbDir(), ThumbName(filename))
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(80)); err != nil {
		log.Printf("save thumbnail %s: %v", dst, err)
	}
}

func writeFile(path string, src io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}
