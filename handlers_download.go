package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lgapi/pkg/uploadrules"
	"lgapi/repository"
)

// Validation tables for the localized-document resources. File constraints
// only fire when the slot actually carries an upload.
var actRules = []uploadrules.Rule{
	{Field: "actNumber", Required: true, RequiredMessage: "The Act Number is compulsory"},
	{Field: "actDate", Required: true, RequiredMessage: "The Act Date is compulsory"},
	{Field: "nameEn", Required: true, RequiredMessage: "The Name English is compulsory"},
	{Field: "nameSi", Required: true, RequiredMessage: "The Name Sinhala is compulsory"},
	{Field: "nameTa", Required: true, RequiredMessage: "The Name Tamil is compulsory"},
	{Field: "actFileEn", File: uploadrules.PDFFile("English")},
	{Field: "actFileSi", File: uploadrules.PDFFile("Sinhala")},
	{Field: "actFileTa", File: uploadrules.PDFFile("Tamil")},
}

var reportRules = []uploadrules.Rule{
	{Field: "reportYear", Required: true, RequiredMessage: "The Report Year is compulsory"},
	{Field: "reportMonth", Required: true, RequiredMessage: "The Report Month is compulsory"},
	{Field: "nameEn", Required: true, RequiredMessage: "The Name English is compulsory"},
	{Field: "nameSi", Required: true, RequiredMessage: "The Name Sinhala is compulsory"},
	{Field: "nameTa", Required: true, RequiredMessage: "The Name Tamil is compulsory"},
	{Field: "reportFileEn", File: uploadrules.PDFFile("English")},
	{Field: "reportFileSi", File: uploadrules.PDFFile("Sinhala")},
	{Field: "reportFileTa", File: uploadrules.PDFFile("Tamil")},
}

var applicationRules = []uploadrules.Rule{
	{Field: "applicationYear", Required: true, RequiredMessage: "The Application Year is compulsory"},
	{Field: "applicationMonth", Required: true, RequiredMessage: "The Application Month is compulsory"},
	{Field: "nameEn", Required: true, RequiredMessage: "The Name English is compulsory"},
	{Field: "nameSi", Required: true, RequiredMessage: "The Name Sinhala is compulsory"},
	{Field: "nameTa", Required: true, RequiredMessage: "The Name Tamil is compulsory"},
	{Field: "applicationFileEn", File: uploadrules.PDFFile("English")},
	{Field: "applicationFileSi", File: uploadrules.PDFFile("Sinhala")},
	{Field: "applicationFileTa", File: uploadrules.PDFFile("Tamil")},
}

//-----------------Acts--------------------------------------------------------------------

func listActsHandler(c *gin.Context) {
	acts, err := downloadRepo.ListActs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllActs": acts})
}

func getActHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	act, err := downloadRepo.GetAct(id)
	if err != nil {
		respondNotFoundOr500(c, err, "Act not found.")
		return
	}
	c.JSON(http.StatusOK, act)
}

func storeActHandler(c *gin.Context) {
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, actRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	fields := repository.ActFields{
		Number:    c.PostForm("actNumber"),
		IssueDate: c.PostForm("actDate"),
		NameEn:    c.PostForm("nameEn"),
		NameSi:    c.PostForm("nameSi"),
		NameTa:    c.PostForm("nameTa"),
	}
	files := repository.LangFiles{
		En: formFile(form, "actFileEn"),
		Si: formFile(form, "actFileSi"),
		Ta: formFile(form, "actFileTa"),
	}
	act, err := downloadRepo.AddAct(fields, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"acts": act})
}

func updateActHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, actRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	fields := repository.ActFields{
		Number:    c.PostForm("actNumber"),
		IssueDate: c.PostForm("actDate"),
		NameEn:    c.PostForm("nameEn"),
		NameSi:    c.PostForm("nameSi"),
		NameTa:    c.PostForm("nameTa"),
	}
	files := repository.LangFiles{
		En: formFile(form, "actFileEn"),
		Si: formFile(form, "actFileSi"),
		Ta: formFile(form, "actFileTa"),
	}
	if err := downloadRepo.UpdateAct(id, fields, files); err != nil {
		respondNotFoundOr500(c, err, "Act not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Acts updated successfully."})
}

func deleteActHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := downloadRepo.DeleteAct(id); err != nil {
		statusNotFoundOr500(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//-----------------Report--------------------------------------------------------------------

func listReportsHandler(c *gin.Context) {
	reports, err := downloadRepo.ListReports()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllReports": reports})
}

func getReportHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	report, err := downloadRepo.GetReport(id)
	if err != nil {
		respondNotFoundOr500(c, err, "Report not found.")
		return
	}
	c.JSON(http.StatusOK, report)
}

func storeReportHandler(c *gin.Context) {
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, reportRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	fields := repository.ReportFields{
		ReportYear:  c.PostForm("reportYear"),
		ReportMonth: c.PostForm("reportMonth"),
		NameEn:      c.PostForm("nameEn"),
		NameSi:      c.PostForm("nameSi"),
		NameTa:      c.PostForm("nameTa"),
	}
	files := repository.LangFiles{
		En: formFile(form, "reportFileEn"),
		Si: formFile(form, "reportFileSi"),
		Ta: formFile(form, "reportFileTa"),
	}
	report, err := downloadRepo.AddReport(fields, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

func updateReportHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, reportRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	fields := repository.ReportFields{
		ReportYear:  c.PostForm("reportYear"),
		ReportMonth: c.PostForm("reportMonth"),
		NameEn:      c.PostForm("nameEn"),
		NameSi:      c.PostForm("nameSi"),
		NameTa:      c.PostForm("nameTa"),
	}
	files := repository.LangFiles{
		En: formFile(form, "reportFileEn"),
		Si: formFile(form, "reportFileSi"),
		Ta: formFile(form, "reportFileTa"),
	}
	if err := downloadRepo.UpdateReport(id, fields, files); err != nil {
		respondNotFoundOr500(c, err, "Report not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report updated successfully."})
}

func deleteReportHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := downloadRepo.DeleteReport(id); err != nil {
		statusNotFoundOr500(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//-----------------Applications--------------------------------------------------------------------

func listApplicationsHandler(c *gin.Context) {
	apps, err := downloadRepo.ListApplications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllApplications": apps})
}

func getApplicationHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	app, err := downloadRepo.GetApplication(id)
	if err != nil {
		respondNotFoundOr500(c, err, "Application not found.")
		return
	}
	c.JSON(http.StatusOK, app)
}

func storeApplicationHandler(c *gin.Context) {
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, applicationRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	fields := repository.ApplicationFields{
		ApplicationYear:  c.PostForm("applicationYear"),
		ApplicationMonth: c.PostForm("applicationMonth"),
		NameEn:           c.PostForm("nameEn"),
		NameSi:           c.PostForm("nameSi"),
		NameTa:           c.PostForm("nameTa"),
	}
	files := repository.LangFiles{
		En: formFile(form, "applicationFileEn"),
		Si: formFile(form, "applicationFileSi"),
		Ta: formFile(form, "applicationFileTa"),
	}
	app, err := downloadRepo.AddApplication(fields, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

func updateApplicationHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, applicationRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	fields := repository.ApplicationFields{
		ApplicationYear:  c.PostForm("applicationYear"),
		ApplicationMonth: c.PostForm("applicationMonth"),
		NameEn:           c.PostForm("nameEn"),
		NameSi:           c.PostForm("nameSi"),
		NameTa:           c.PostForm("nameTa"),
	}
	files := repository.LangFiles{
		En: formFile(form, "applicationFileEn"),
		Si: formFile(form, "applicationFileSi"),
		Ta: formFile(form, "applicationFileTa"),
	}
	if err := downloadRepo.UpdateApplication(id, fields, files); err != nil {
		respondNotFoundOr500(c, err, "Application not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application updated successfully."})
}

func deleteApplicationHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := downloadRepo.DeleteApplication(id); err != nil {
		statusNotFoundOr500(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//----------------------------------------------------------

// countDownloadHandler returns the dashboard counts for acts and reports.
func countDownloadHandler(c *gin.Context) {
	acts, reports, err := downloadRepo.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, []int64{acts, reports})
}
