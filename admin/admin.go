package admin

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"vitrina/assets"
	"vitrina/catalog"
	"vitrina/gallery"
	"vitrina/settings"
)

const sessionAuthKey = "auth"

// loginFailureDelay dampens password brute-forcing on the shared credential.
var loginFailureDelay = 1500 * time.Millisecond

// AdminModule serves the admin panel API: login against the shared password
// and the mutating routes for categories, materials, gallery and settings.
type AdminModule struct {
	categories *catalog.CategoryService
	materials  *catalog.MaterialService
	gallery    *gallery.Service
	settings   *settings.Service
	auth       *settings.Auth
	uploads    *assets.Uploads
}

func NewAdminModule(categories *catalog.CategoryService, materials *catalog.MaterialService, gallerySvc *gallery.Service, settingsSvc *settings.Service, auth *settings.Auth, uploads *assets.Uploads) *AdminModule {
	return &AdminModule{
		categories: categories,
		materials:  materials,
		gallery:    gallerySvc,
		settings:   settingsSvc,
		auth:       auth,
		uploads:    uploads,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/login", a.login)
	router.GET("/logout", a.logout)
	router.POST("/change-password", a.changePassword)

	authed := router.Group("", a.requireAuth)
	{
		authed.GET("/materials", a.listMaterials)
		authed.POST("/materials", a.createMaterial)
		authed.POST("/materials/update", a.updateMaterial)
		authed.POST("/materials/delete", a.deleteMaterial)
		authed.POST("/categories", a.createCategory)
		authed.POST("/categories/update", a.updateCategory)
		authed.POST("/categories/delete", a.deleteCategory)
		authed.POST("/upload", a.uploadGalleryItem)
		authed.POST("/delete", a.deleteGalleryItem)
		authed.POST("/main", a.saveSettings)
		authed.POST("/admin/save-settings", a.saveSettings)
	}
}

// IsAuthenticated reports whether the request carries an admin session. The
// static admin page gate in main uses it too.
func (a *AdminModule) IsAuthenticated(c *gin.Context) bool {
	session := sessions.Default(c)
	authed, _ := session.Get(sessionAuthKey).(bool)
	return authed
}

func (a *AdminModule) requireAuth(c *gin.Context) {
	if !a.IsAuthenticated(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Not authorized",
		})
		return
	}
	c.Next()
}

func (a *AdminModule) login(c *gin.Context) {
	var request struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if !a.auth.Verify(request.Password) {
		time.Sleep(loginFailureDelay)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Wrong password. Try again."})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionAuthKey, true)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged in"})
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/login.html")
}

func (a *AdminModule) changePassword(c *gin.Context) {
	if !a.IsAuthenticated(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	var request struct {
		OldPass string `json:"oldPass"`
		NewPass string `json:"newPass"`
		PassKey string `json:"passKey"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := a.auth.Change(request.OldPass, request.NewPass, request.PassKey); err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidConfirmationKey):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid confirmation key"})
		case errors.Is(err, settings.ErrWrongPassword):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Current password is incorrect"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed"})
}

/* ==================== categories ==================== */

func (a *AdminModule) createCategory(c *gin.Context) {
	var request struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	category, err := a.categories.Create(request.Title, request.Status)
	if err != nil {
		a.categoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

func (a *AdminModule) updateCategory(c *gin.Context) {
	var request struct {
		ID     json.Number `json:"id"`
		Title  string      `json:"title"`
		Status string      `json:"status"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	id, err := request.ID.Int64()
	if err != nil || id == 0 || request.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID and title are required"})
		return
	}

	category, err := a.categories.Update(id, request.Title, request.Status)
	if err != nil {
		a.categoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

func (a *AdminModule) deleteCategory(c *gin.Context) {
	var request struct {
		ID json.Number `json:"id"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	id, err := request.ID.Int64()
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID is required"})
		return
	}

	if err := a.categories.Delete(id); err != nil {
		a.categoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category and its materials deleted"})
}

func (a *AdminModule) categoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category title is required"})
	case errors.Is(err, catalog.ErrDuplicateTitle):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A category with this title already exists"})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
	default:
		log.Printf("category operation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
	}
}

/* ==================== materials ==================== */

func (a *AdminModule) listMaterials(c *gin.Context) {
	materials, err := a.materials.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load materials"})
		return
	}
	c.JSON(http.StatusOK, materials)
}

func (a *AdminModule) createMaterial(c *gin.Context) {
	image, err := a.storeFormImage(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store image"})
		return
	}

	in := catalog.MaterialInput{
		Title:    c.PostForm("title"),
		Category: c.PostForm("category"),
		Content:  c.PostForm("content"),
		Status:   catalog.NormalizeStatus(c.PostFormArray("status")),
	}

	if _, err := a.materials.Create(in, image); err != nil {
		log.Printf("create material: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) updateMaterial(c *gin.Context) {
	id, err := strconv.ParseInt(c.PostForm("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID"})
		return
	}

	image, err := a.storeFormImage(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store image"})
		return
	}

	in := catalog.MaterialInput{
		Title:    c.PostForm("title"),
		Category: c.PostForm("category"),
		Content:  c.PostForm("content"),
		Status:   catalog.NormalizeStatus(c.PostFormArray("status")),
	}

	if _, err := a.materials.Update(id, in, image); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Material not found"})
			return
		}
		log.Printf("update material: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) deleteMaterial(c *gin.Context) {
	var request struct {
		ID    json.Number `json:"id"`
		Image string      `json:"image"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	// delete is idempotent: an unknown id still reports success
	id, _ := request.ID.Int64()
	if err := a.materials.Delete(id, request.Image); err != nil {
		log.Printf("delete material: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

/* ==================== gallery ==================== */

func (a *AdminModule) uploadGalleryItem(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image file is required"})
		return
	}

	filename, err := a.saveUpload(header, a.uploads.SaveGallery)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store image"})
		return
	}

	if _, err := a.gallery.Add(filename, c.PostForm("title")); err != nil {
		log.Printf("add gallery item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) deleteGalleryItem(c *gin.Context) {
	var request struct {
		Filename string `json:"filename"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := a.gallery.Remove(request.Filename); err != nil {
		log.Printf("delete gallery item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

/* ==================== settings ==================== */

func (a *AdminModule) saveSettings(c *gin.Context) {
	var uploadedPath string
	if header, err := c.FormFile("image"); err == nil {
		filename, err := a.saveUpload(header, a.uploads.SaveBranding)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store image"})
			return
		}
		uploadedPath = "/uploads2/" + filename
	}

	in := settings.Input{
		Sitename:     c.PostForm("sitename"),
		Description:  c.PostForm("description"),
		Slogan:       c.PostForm("slogan"),
		CurrentImage: c.PostForm("currentImage"),
	}

	if _, err := a.settings.Save(in, uploadedPath); err != nil {
		log.Printf("save settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Settings saved"})
}

/* ==================== helpers ==================== */

// storeFormImage persists the optional "image" multipart field and returns
// the generated filename, or "" when no file was sent.
func (a *AdminModule) storeFormImage(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return a.saveUpload(header, a.uploads.SaveGallery)
}

func (a *AdminModule) saveUpload(header *multipart.FileHeader, save func(src io.Reader, originalName string) (string, error)) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return save(file, header.Filename)
}
