package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lgapi/pkg/uploadrules"
	"lgapi/repository"
)

var memberRules = []uploadrules.Rule{
	{Field: "email", Required: true, RequiredMessage: "The Email is compulsory"},
	{Field: "nameEn", Required: true, RequiredMessage: "The Name English is compulsory"},
	{Field: "img", File: uploadrules.JPEGImage()},
}

func formUint(c *gin.Context, field string) uint {
	v, _ := strconv.ParseUint(c.PostForm(field), 10, 64)
	return uint(v)
}

func formUintList(c *gin.Context, field string) []uint {
	vals := c.PostFormArray(field)
	if vals == nil {
		return nil
	}
	out := make([]uint, 0, len(vals))
	for _, v := range vals {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			out = append(out, uint(n))
		}
	}
	return out
}

func memberFieldsFromForm(c *gin.Context) repository.MemberFields {
	return repository.MemberFields{
		Email:       c.PostForm("email"),
		Title:       c.PostForm("title"),
		NameEn:      c.PostForm("nameEn"),
		NameSi:      c.PostForm("nameSi"),
		NameTa:      c.PostForm("nameTa"),
		Tel:         c.PostForm("tel"),
		DivisionID:  formUint(c, "division"),
		PartyID:     formUint(c, "party"),
		PositionIDs: formUintList(c, "position"),
	}
}

func listMembersHandler(c *gin.Context) {
	members, err := memberRepo.ListMembers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllMembers": members})
}

func createMemberHandler(c *gin.Context) {
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, memberRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	member, err := memberRepo.CreateMember(memberFieldsFromForm(c), formFile(form, "img"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

func updateMemberHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	form, ok := multipartForm(c)
	if !ok {
		return
	}
	if errs := uploadrules.Validate(form, memberRules); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}
	err := memberRepo.UpdateMember(id, memberFieldsFromForm(c), formFile(form, "img"), c.PostForm("status"))
	if err != nil {
		respondNotFoundOr500(c, err, "Member not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member updated successfully."})
}

func deleteMemberHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !memberRepo.DeleteMember(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found or could not be deleted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully."})
}

func countMemberHandler(c *gin.Context) {
	n, err := memberRepo.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

//-----------------Lookups--------------------------------------------------------------------

func listDivisionsHandler(c *gin.Context) {
	ds, err := memberRepo.ListDivisions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllDivisions": ds})
}

func addDivisionHandler(c *gin.Context) {
	var req struct {
		DivisionEn string `json:"divisionEn" binding:"required"`
		DivisionSi string `json:"divisionSi"`
		DivisionTa string `json:"divisionTa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := memberRepo.AddDivision(repository.LocalizedNames{En: req.DivisionEn, Si: req.DivisionSi, Ta: req.DivisionTa})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"division": d})
}

func updateDivisionHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		DivisionEn string `json:"divisionEn" binding:"required"`
		DivisionSi string `json:"divisionSi"`
		DivisionTa string `json:"divisionTa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := memberRepo.UpdateDivision(id, repository.LocalizedNames{En: req.DivisionEn, Si: req.DivisionSi, Ta: req.DivisionTa})
	if err != nil {
		respondNotFoundOr500(c, err, "Division not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Division updated successfully."})
}

func deleteDivisionHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !memberRepo.DeleteDivision(id) {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func listPartiesHandler(c *gin.Context) {
	ps, err := memberRepo.ListParties()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllParties": ps})
}

func addPartyHandler(c *gin.Context) {
	var req struct {
		PartyEn string `json:"partyEn" binding:"required"`
		PartySi string `json:"partySi"`
		PartyTa string `json:"partyTa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := memberRepo.AddParty(repository.LocalizedNames{En: req.PartyEn, Si: req.PartySi, Ta: req.PartyTa})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"party": p})
}

func updatePartyHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		PartyEn string `json:"partyEn" binding:"required"`
		PartySi string `json:"partySi"`
		PartyTa string `json:"partyTa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := memberRepo.UpdateParty(id, repository.LocalizedNames{En: req.PartyEn, Si: req.PartySi, Ta: req.PartyTa})
	if err != nil {
		respondNotFoundOr500(c, err, "Party not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Party updated successfully."})
}

func deletePartyHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !memberRepo.DeleteParty(id) {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func listMemberPositionsHandler(c *gin.Context) {
	ps, err := memberRepo.ListPositions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"AllPositions": ps})
}

func addMemberPositionHandler(c *gin.Context) {
	var req struct {
		PositionEn string `json:"positionEn" binding:"required"`
		PositionSi string `json:"positionSi"`
		PositionTa string `json:"positionTa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := memberRepo.AddPosition(repository.LocalizedNames{En: req.PositionEn, Si: req.PositionSi, Ta: req.PositionTa})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"position": p})
}

func updateMemberPositionHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		PositionEn string `json:"positionEn" binding:"required"`
		PositionSi string `json:"positionSi"`
		PositionTa string `json:"positionTa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := memberRepo.UpdatePosition(id, repository.LocalizedNames{En: req.PositionEn, Si: req.PositionSi, Ta: req.PositionTa})
	if err != nil {
		respondNotFoundOr500(c, err, "Position not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Position updated successfully."})
}

func deleteMemberPositionHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !memberRepo.DeletePosition(id) {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
