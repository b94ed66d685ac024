package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lgapi/pkg/uploadrules"
	"lgapi/repository"
)

var officerRules = []uploadrules.Rule{
	{Field: "email", Required: true, RequiredMessage: "The Email is compulsory"},
	{Field: "nameEn", Required: true, RequiredMessage: "The Name English is compulsory"},
	{Field: "img", File: uploadrules.JPEGImage()},
}

func officerFieldsFromForm(c *gin.Context) repository.OfficerFields {
	return repository.OfficerFields{
		Email:      c.PostForm("email"),
		Title:      c.PostForm("title"),
		NameEn:     c.PostForm("nameEn"),
		NameSi:     c.PostForm("nameSi"),
		NameTa:     c.PostForm("nameTa"),
		Tel:        c.PostForm("tel"),
		ServiceID:  formUint(c, "service"),
		PositionID: formUint(c, "position"),
		SubjectIDs: formUintList(c, "subject"),
	}
}

func listOfficersHandler(c *gin.Context) {
	officers, err := officerRepo.ListOfficers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllOfficers": officers})
}

func createOfficerHandler(c *gin.Context) {
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, officerRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	officer, err := officerRepo.CreateOfficer(officerFieldsFromForm(c), formFile(form, "img"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"officer": officer})
}

func updateOfficerHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, officerRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	err := officerRepo.UpdateOfficer(id, officerFieldsFromForm(c), formFile(form, "img"), c.PostForm("status"))
	if err != nil {
		respondNotFoundOr500(c, err, "Officer not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Officer updated successfully."})
}

func deleteOfficerHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !officerRepo.DeleteOfficer(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Officer not found or could not be deleted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Officer deleted successfully."})
}

func countOfficerHandler(c *gin.Context) {
	n, err := officerRepo.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

//-----------------Lookups--------------------------------------------------------------------

func listOfficerServicesHandler(c *gin.Context) {
	ss, err := officerRepo.ListServices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllServices": ss})
}

func listOfficerPositionsHandler(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("serviceId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}
	ps, err := officerRepo.ListPositionsByService(uint(serviceID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllPositions": ps})
}

func addOfficerPositionHandler(c *gin.Context) {
	var req struct {
		PositionEn string `json:"positionEn" binding:"required"`
		PositionSi string `json:"positionSi"`
		PositionTa string `json:"positionTa"`
		ServiceID  uint   `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := officerRepo.AddPosition(repository.OfficerPositionFields{
		En: req.PositionEn, Si: req.PositionSi, Ta: req.PositionTa, ServiceID: req.ServiceID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"position": p})
}

func updateOfficerPositionHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		PositionEn string `json:"positionEn" binding:"required"`
		PositionSi string `json:"positionSi"`
		PositionTa string `json:"positionTa"`
		ServiceID  uint   `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := officerRepo.UpdatePosition(id, repository.OfficerPositionFields{
		En: req.PositionEn, Si: req.PositionSi, Ta: req.PositionTa, ServiceID: req.ServiceID,
	})
	if err != nil {
		respondNotFoundOr500(c, err, "Position not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Position updated successfully."})
}

func deleteOfficerPositionHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := officerRepo.DeletePosition(id); err != nil {
		statusNotFoundOr500(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func listOfficerSubjectsHandler(c *gin.Context) {
	ss, err := officerRepo.ListSubjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllSubjects": ss})
}

func addOfficerSubjectHandler(c *gin.Context) {
	var req struct {
		SubjectEn string `json:"subjectEn" binding:"required"`
		SubjectSi string `json:"subjectSi"`
		SubjectTa string `json:"subjectTa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := officerRepo.AddSubject(repository.LocalizedNames{En: req.SubjectEn, Si: req.SubjectSi, Ta: req.SubjectTa})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subject": s})
}

func updateOfficerSubjectHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		SubjectEn string `json:"subjectEn" binding:"required"`
		SubjectSi string `json:"subjectSi"`
		SubjectTa string `json:"subjectTa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := officerRepo.UpdateSubject(id, repository.LocalizedNames{En: req.SubjectEn, Si: req.SubjectSi, Ta: req.SubjectTa})
	if err != nil {
		respondNotFoundOr500(c, err, "Subject not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subject updated successfully."})
}

func deleteOfficerSubjectHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := officerRepo.DeleteSubject(id); err != nil {
		statusNotFoundOr500(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
