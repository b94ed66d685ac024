package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"lgapi/models"
)

func setupRoutes(r *gin.Engine) {
	// Public routes
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	r.GET("/downloadActs", listActsHandler)
	r.GET("/downloadActs/:id", getActHandler)
	r.GET("/downloadReport", listReportsHandler)
	r.GET("/downloadReport/:id", getReportHandler)
	r.GET("/downloadApplications", listApplicationsHandler)
	r.GET("/downloadApplications/:id", getApplicationHandler)
	r.GET("/gallery", listGalleriesHandler)
	r.GET("/gallery/:id", getGalleryHandler)

	r.POST("/siteComplainAdd", addComplainHandler)
	r.GET("/siteComplainsView", listComplainsHandler)
	r.GET("/members/directory", listMembersHandler)
	r.GET("/officers/directory", listOfficersHandler)

	// Any authenticated staff role
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.GET("/complains", listComplainsHandler)
	authGroup.POST("/complains", addComplainHandler)
	authGroup.DELETE("/complains/:id", deleteComplainHandler)
	authGroup.POST("/complainActions", addComplainActionHandler)
	authGroup.PUT("/complainActions/:id", updateComplainActionHandler)
	authGroup.GET("/countDownload", countDownloadHandler)
	authGroup.GET("/countGallery", countGalleryHandler)
	authGroup.GET("/countMember", countMemberHandler)
	authGroup.GET("/countOfficer", countOfficerHandler)
	authGroup.GET("/complaincount", countComplainHandler)
	authGroup.GET("/divisions", listDivisionsHandler)
	authGroup.GET("/memberParties", listPartiesHandler)
	authGroup.GET("/memberPositions", listMemberPositionsHandler)
	authGroup.GET("/officerServices", listOfficerServicesHandler)
	authGroup.GET("/officerPositions/:serviceId", listOfficerPositionsHandler)
	authGroup.GET("/officerSubjects", listOfficerSubjectsHandler)

	// Officer and admin routes
	staff := r.Group("")
	staff.Use(jwtAuthMiddleware(), requireRole("officer", "admin"))
	staff.POST("/downloadActs", storeActHandler)
	staff.PUT("/downloadActs/:id", updateActHandler)
	staff.DELETE("/downloadActs/:id", deleteActHandler)
	staff.POST("/downloadReport", storeReportHandler)
	staff.PUT("/downloadReport/:id", updateReportHandler)
	staff.DELETE("/downloadReport/:id", deleteReportHandler)
	staff.POST("/downloadApplications", storeApplicationHandler)
	staff.PUT("/downloadApplications/:id", updateApplicationHandler)
	staff.DELETE("/downloadApplications/:id", deleteApplicationHandler)
	staff.POST("/gallery", storeGalleryHandler)
	staff.PUT("/gallery/:id", updateGalleryHandler)
	staff.DELETE("/gallery/:id", deleteGalleryHandler)
	staff.DELETE("/gallery-images/:id", deleteGalleryImageHandler)
	staff.POST("/gallery-images/delete-multiple", deleteGalleryImagesHandler)
	staff.POST("/gallery-images/update-order", updateGalleryImageOrderHandler)

	// Admin-only routes
	admin := r.Group("")
	admin.Use(jwtAuthMiddleware(), requireRole("admin"))
	admin.GET("/member", listMembersHandler)
	admin.POST("/member", createMemberHandler)
	admin.PUT("/member/:id", updateMemberHandler)
	admin.DELETE("/member/:id", deleteMemberHandler)
	admin.POST("/division", addDivisionHandler)
	admin.PUT("/division/:id", updateDivisionHandler)
	admin.DELETE("/division/:id", deleteDivisionHandler)
	admin.POST("/memberParty", addPartyHandler)
	admin.PUT("/memberParty/:id", updatePartyHandler)
	admin.DELETE("/memberParty/:id", deletePartyHandler)
	admin.POST("/memberPosition", addMemberPositionHandler)
	admin.PUT("/memberPosition/:id", updateMemberPositionHandler)
	admin.DELETE("/memberPosition/:id", deleteMemberPositionHandler)
	admin.GET("/officer", listOfficersHandler)
	admin.POST("/officer", createOfficerHandler)
	admin.PUT("/officer/:id", updateOfficerHandler)
	admin.DELETE("/officer/:id", deleteOfficerHandler)
	admin.POST("/officerPosition", addOfficerPositionHandler)
	admin.PUT("/officerPosition/:id", updateOfficerPositionHandler)
	admin.DELETE("/officerPosition/:id", deleteOfficerPositionHandler)
	admin.POST("/officerSubject", addOfficerSubjectHandler)
	admin.PUT("/officerSubject/:id", updateOfficerSubjectHandler)
	admin.DELETE("/officerSubject/:id", deleteOfficerSubjectHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

// requireRole gates a route group to the given role names.
func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		c.Abort()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	username := usernameVal.(string)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := RegisterUser(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	// Generate JWT token. Resolve role name from RoleID (we only store role_id).
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// create refresh token
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	// generate random 32-byte token (hex)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	// hash for storage
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	// load user
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	// create access token
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
