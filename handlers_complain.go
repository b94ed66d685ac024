package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lgapi/pkg/uploadrules"
	"lgapi/repository"
)

var complainRules = []uploadrules.Rule{
	{Field: "complain", Required: true, RequiredMessage: "The complain is compulsory",
		MaxLen: 1000, MaxLenMessage: "The complain must be maximum of 1000 characters"},
	{Field: "tele", ExactLen: 10, ExactLenMessage: "The Telephone number must be 10 digits"},
	{Field: "imageList", File: uploadrules.JPEGImage(),
		MaxFiles: 3, MaxFilesMessage: "You can only upload a maximum of 3 images"},
}

// addComplainHandler serves both the public submission endpoint and the
// staff-side create route.
func addComplainHandler(c *gin.Context) {
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, complainRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	fields := repository.ComplainFields{
		Cname:    c.PostForm("cname"),
		Tele:     c.PostForm("tele"),
		Complain: c.PostForm("complain"),
	}
	complain, err := complainRepo.AddComplain(fields, form.File["imageList"])
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"Complain": complain})
}

func listComplainsHandler(c *gin.Context) {
	complains, err := complainRepo.ListComplains()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllComplains": complains})
}

func addComplainActionHandler(c *gin.Context) {
	var req struct {
		ID     uint   `json:"id" binding:"required"`
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action, err := complainRepo.AddAction(req.ID, req.Action)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"complainAction": action})
}

// updateComplainActionHandler overwrites the action of complaint :id; the
// action must already exist.
func updateComplainActionHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := complainRepo.UpdateAction(id, req.Action); err != nil {
		respondNotFoundOr500(c, err, "Complain action not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complain action updated successfully."})
}

func deleteComplainHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !complainRepo.DeleteComplain(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complain not found or could not be deleted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complain deleted successfully."})
}

func countComplainHandler(c *gin.Context) {
	n, err := complainRepo.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
