package main

import (
	"crypto/rand"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"vitrina/admin"
	"vitrina/assets"
	"vitrina/catalog"
	"vitrina/gallery"
	"vitrina/models"
	"vitrina/settings"
	"vitrina/site"
	"vitrina/store"
)

const defaultConfirmationKey = "791f136fdc926e810edd1b6643a9f3cb3029c9af726fbeed657a7fc9714168db"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	dataDir := getenv("DATA_DIR", "data")
	publicDir := getenv("PUBLIC_DIR", "public")
	uploadDir := getenv("UPLOAD_DIR", filepath.Join(publicDir, "uploads"))
	brandingDir := getenv("BRANDING_UPLOAD_DIR", "uploads2")
	configPath := getenv("CONFIG_PATH", "config.json")
	confirmationKey := getenv("CONFIRMATION_KEY", defaultConfirmationKey)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatal("Failed to create data dir:", err)
	}

	uploads := assets.NewUploads(uploadDir, brandingDir)
	if err := uploads.EnsureDirs(); err != nil {
		log.Fatal("Failed to create upload dirs:", err)
	}

	categoriesFile := store.NewFile[[]models.Category](filepath.Join(dataDir, "categories.json"))
	materialsFile := store.NewFile[[]models.Material](filepath.Join(dataDir, "materials.json"))
	galleryFile := store.NewFile[[]models.GalleryItem](filepath.Join(dataDir, "gallery.json"))
	configFile := store.NewFile[models.SiteConfig](configPath)

	materialService := catalog.NewMaterialService(materialsFile, uploads)
	categoryService := catalog.NewCategoryService(categoriesFile, materialService)
	galleryService := gallery.NewService(galleryFile, uploads)
	settingsService := settings.NewService(configFile)

	auth, err := settings.NewAuth(settingsService, confirmationKey)
	if err != nil {
		log.Fatal("Failed to load credentials:", err)
	}

	stopSweep := uploads.StartBrandingSweep(24 * time.Hour)
	defer stopSweep()

	router := gin.Default()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = randomSecret()
		log.Println("SESSION_SECRET not set, generated an ephemeral one")
	}

	cookieStore := cookie.NewStore([]byte(sessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})
	router.Use(sessions.Sessions("vitrina-session", cookieStore))

	adminModule := admin.NewAdminModule(categoryService, materialService, galleryService, settingsService, auth, uploads)
	adminModule.RegisterRoutes(router)

	siteModule := site.NewSiteModule(categoryService, materialService, galleryService, settingsService)
	siteModule.RegisterRoutes(router)

	router.Static("/uploads2", brandingDir)

	// everything else falls through to the static frontend; the admin page
	// itself needs a session
	fileServer := http.FileServer(http.Dir(publicDir))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == "/admin.html" && !adminModule.IsAuthenticated(c) {
			c.Redirect(http.StatusFound, "/login.html")
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	})

	port := getenv("PORT", "3000")
	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("Failed to generate session secret:", err)
	}
	return string(b)
}
