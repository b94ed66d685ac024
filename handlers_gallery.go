package main

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"lgapi/pkg/uploadrules"
	"lgapi/repository"
)

var galleryRules = []uploadrules.Rule{
	{Field: "topicEn", Required: true, RequiredMessage: "The Topic English is compulsory"},
	{Field: "topicSi", Required: true, RequiredMessage: "The Topic Sinhala is compulsory"},
	{Field: "topicTa", Required: true, RequiredMessage: "The Topic Tamil is compulsory"},
}

// galleryFiles collects every uploaded file of the form in deterministic
// (sorted key) encounter order.
func galleryFiles(form *multipart.Form) []repository.NamedFile {
	keys := make([]string, 0, len(form.File))
	for k := range form.File {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []repository.NamedFile
	for _, k := range keys {
		for _, fh := range form.File[k] {
			out = append(out, repository.NamedFile{Key: k, File: fh})
		}
	}
	return out
}

// validateGalleryImages runs the JPEG constraint over every uploaded file.
func validateGalleryImages(files []repository.NamedFile) []string {
	fc := uploadrules.JPEGImage()
	var errs []string
	for _, nf := range files {
		errs = append(errs, uploadrules.CheckFile(nf.File, fc)...)
	}
	return errs
}

func listGalleriesHandler(c *gin.Context) {
	galleries, err := galleryRepo.ListGalleries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllGalleries": galleries})
}

func getGalleryHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	gallery, err := galleryRepo.GetGallery(id)
	if err != nil {
		respondNotFoundOr500(c, err, "Gallery not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"gallery": gallery})
}

func storeGalleryHandler(c *gin.Context) {
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	files := galleryFiles(form)
	errs := uploadrules.Validate(form, galleryRules)
	errs = append(errs, validateGalleryImages(files)...)
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	topics := repository.TopicFields{
		TopicEn: c.PostForm("topicEn"),
		TopicSi: c.PostForm("topicSi"),
		TopicTa: c.PostForm("topicTa"),
	}
	if _, err := galleryRepo.CreateGallery(topics, files); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Gallery created successfully"})
}

func updateGalleryHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	form, ok := multipartForm(c)
	if !ok {
		return
	}

	upd := repository.GalleryUpdate{
		Topics: repository.TopicFields{
			TopicEn: c.PostForm("topicEn"),
			TopicSi: c.PostForm("topicSi"),
			TopicTa: c.PostForm("topicTa"),
		},
		ImagesModified: c.PostForm("images_modified") == "true",
	}

	if v := c.PostForm("deleted_images"); v != "" {
		if err := json.Unmarshal([]byte(v), &upd.DeletedImages); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deleted_images"})
			return
		}
	}
	if v := c.PostForm("existing_images"); v != "" {
		if err := json.Unmarshal([]byte(v), &upd.ExistingImages); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid existing_images"})
			return
		}
	}

	// new uploads arrive under new_image_* keys
	var newFiles []repository.NamedFile
	for _, nf := range galleryFiles(form) {
		if strings.HasPrefix(nf.Key, "new_image_") {
			newFiles = append(newFiles, nf)
			upd.NewFiles = append(upd.NewFiles, nf.File)
		}
	}
	if errs := validateGalleryImages(newFiles); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	if err := galleryRepo.UpdateGallery(id, upd); err != nil {
		respondNotFoundOr500(c, err, "Gallery not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gallery updated successfully"})
}

func deleteGalleryHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := galleryRepo.DeleteGallery(id); err != nil {
		respondNotFoundOr500(c, err, "Gallery not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gallery deleted successfully"})
}

func deleteGalleryImageHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := galleryRepo.DeleteImages([]uint{id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Images deleted successfully"})
}

func deleteGalleryImagesHandler(c *gin.Context) {
	var req struct {
		ImageIDs []uint `json:"image_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := galleryRepo.DeleteImages(req.ImageIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Images deleted successfully"})
}

func updateGalleryImageOrderHandler(c *gin.Context) {
	var req struct {
		Images []repository.ImageOrder `json:"images" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orders := make(map[uint]int, len(req.Images))
	for _, io := range req.Images {
		orders[io.ID] = io.Order
	}
	if err := galleryRepo.UpdateImageOrders(orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image order updated successfully"})
}

// countGalleryHandler returns the stored image count used by the dashboard.
func countGalleryHandler(c *gin.Context) {
	n, err := galleryRepo.ImageCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
