package main

import (
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lgapi/models"
	"lgapi/pkg/storage"
	"lgapi/repository"
)

var db *gorm.DB
var store *storage.Store

var (
	downloadRepo *repository.DownloadRepository
	galleryRepo  *repository.GalleryRepository
	complainRepo *repository.ComplainRepository
	memberRepo   *repository.MemberRepository
	officerRepo  *repository.OfficerRepository
)

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
	}
	seedRoles()

	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		for name, m := range map[string]any{
			"users":                      &models.User{},
			"refresh_tokens":             &models.RefreshToken{},
			"download_acts":              &models.DownloadAct{},
			"download_committee_reports": &models.DownloadReport{},
			"download_applications":      &models.DownloadApplication{},
			"galleries":                  &models.Gallery{},
			"gallery_images":             &models.GalleryImage{},
			"complains":                  &models.Complain{},
			"complain_actions":           &models.ComplainAction{},
			"divisions":                  &models.Division{},
			"member_parties":             &models.MemberParty{},
			"member_positions":           &models.MemberPosition{},
			"members":                    &models.Member{},
			"officer_services":           &models.OfficerService{},
			"officer_positions":          &models.OfficerPosition{},
			"officer_subjects":           &models.OfficerSubject{},
			"officers":                   &models.Officer{},
		} {
			if err := db.AutoMigrate(m); err != nil {
				log.Printf("migration warning (%s): %v", name, err)
			}
		}
	}

	store = storage.New(storageBaseDir())
	ensureStorageBase()

	downloadRepo = repository.NewDownloadRepository(db, store)
	galleryRepo = repository.NewGalleryRepository(db, store)
	complainRepo = repository.NewComplainRepository(db, store)
	memberRepo = repository.NewMemberRepository(db, store)
	officerRepo = repository.NewOfficerRepository(db, store)

	seedDB()
}

func seedRoles() {
	roles := []models.Role{
		{Name: "admin", Description: "full access"},
		{Name: "officer", Description: "council officer"},
		{Name: "member", Description: "council member"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "admin").First(&role).Error; err != nil {
			log.Printf("failed to find admin role: %v", err)
		}
		rid := role.ID
		admin := models.User{
			Username: "admin",
			RoleID:   &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Println("Seeded admin user: username=admin, password=admin123")
	}
}

// ensureStorageBase creates the base storage directory.
func ensureStorageBase() {
	base := storageBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create storage base dir %s: %v", base, err)
	}
}

// storageBaseDir returns the base directory for the public file store (configurable via STORAGE_BASE env)
func storageBaseDir() string {
	if v := os.Getenv("STORAGE_BASE"); v != "" {
		return v
	}
	return "storage"
}
