package models

// Visibility states shared by categories and materials. The string values are
// part of the on-disk contract and must round-trip unchanged.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

type Category struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type Material struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"` // references Category.Title, not ID
	Content  string `json:"content"`
	Image    string `json:"image"` // filename in the gallery upload dir, or empty
	Date     string `json:"date"`  // RFC3339
	Status   string `json:"status"`
}

type GalleryItem struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Date     string `json:"date"` // RFC3339
}

// SiteConfig is the singleton branding record persisted as config.json.
type SiteConfig struct {
	Sitename    string `json:"sitename"`
	Description string `json:"description"`
	Slogan      string `json:"slogan"`
	Image       string `json:"image"` // served path, e.g. /uploads2/<file>
	Password    string `json:"password"`
}

// DefaultSiteConfig is returned when no config file has been written yet.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Password: "admin123",
	}
}
