package main

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// parseID reads the :id route parameter; a malformed id answers 400.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// formFile returns the first uploaded file under key, or nil when absent.
func formFile(form *multipart.Form, key string) *multipart.FileHeader {
	if form == nil || len(form.File[key]) == 0 {
		return nil
	}
	return form.File[key][0]
}

// multipartForm parses the request form; a parse failure answers 400.
func multipartForm(c *gin.Context) (*multipart.Form, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return nil, false
	}
	return form, true
}

// respondNotFoundOr500 translates a repository error at the boundary:
// missing rows become 404 with the given message, anything else is a
// generic server error.
func respondNotFoundOr500(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}

// statusNotFoundOr500 is the bodyless variant for delete endpoints: 404
// only for a missing row, 500 for any other repository failure.
func statusNotFoundOr500(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}
