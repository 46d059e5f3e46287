package site

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"vitrina/catalog"
	"vitrina/gallery"
	"vitrina/models"
	"vitrina/settings"
)

// SiteModule serves the public storefront API: categories, the published
// material list, the gallery, and the branding config.
type SiteModule struct {
	categories *catalog.CategoryService
	materials  *catalog.MaterialService
	gallery    *gallery.Service
	settings   *settings.Service
}

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(),
	),
)

func NewSiteModule(categories *catalog.CategoryService, materials *catalog.MaterialService, gallerySvc *gallery.Service, settingsSvc *settings.Service) *SiteModule {
	return &SiteModule{
		categories: categories,
		materials:  materials,
		gallery:    gallerySvc,
		settings:   settingsSvc,
	}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/categories", s.listCategories)
	router.GET("/gallery", s.listGallery)
	router.GET("/materials_magaz", s.listStorefront)
	router.GET("/main", s.mainConfig)
}

func (s *SiteModule) listCategories(c *gin.Context) {
	categories, err := s.categories.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *SiteModule) listGallery(c *gin.Context) {
	items, err := s.gallery.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load gallery"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type storefrontMaterial struct {
	models.Material
	ContentHTML template.HTML `json:"content_html"`
}

// listStorefront joins published materials against the published category
// set, newest first. Content is additionally rendered as markdown for the
// storefront page.
func (s *SiteModule) listStorefront(c *gin.Context) {
	published, err := s.categories.PublishedTitles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}

	materials, err := s.materials.ListPublished(published)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load materials"})
		return
	}

	payload := make([]storefrontMaterial, len(materials))
	for i, m := range materials {
		payload[i] = storefrontMaterial{
			Material:    m,
			ContentHTML: template.HTML(renderMarkdown(m.Content)),
		}
	}
	c.JSON(http.StatusOK, payload)
}

// mainConfig returns the branding config as a one-element array, password
// blanked on the wire.
func (s *SiteModule) mainConfig(c *gin.Context) {
	cfg, err := s.settings.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, []gin.H{{
		"sitename":    cfg.Sitename,
		"description": cfg.Description,
		"slogan":      cfg.Slogan,
		"image":       cfg.Image,
	}})
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// on a render error, fall back to the raw content
		return content
	}
	return buf.String()
}
