package repository

import (
	"log"
	"mime/multipart"

	"gorm.io/gorm"

	"lgapi/models"
	"lgapi/pkg/storage"
)

const officerImageFolder = "images/officer"

// OfficerRepository manages the officer directory, its lookup tables
// (services, positions, subjects) and the linked portal user accounts.
type OfficerRepository struct {
	db    *gorm.DB
	store *storage.Store
}

func NewOfficerRepository(db *gorm.DB, store *storage.Store) *OfficerRepository {
	return &OfficerRepository{db: db, store: store}
}

// OfficerFields enumerates the mutable officer fields.
type OfficerFields struct {
	Email      string
	Title      string
	NameEn     string
	NameSi     string
	NameTa     string
	Tel        string
	ServiceID  uint
	PositionID uint
	SubjectIDs []uint
}

//-----------------Officer--------------------------------------------------------------------

func (r *OfficerRepository) ListOfficers() ([]models.Officer, error) {
	var officers []models.Officer
	err := r.db.
		Select("id", "title", "name_en", "name_si", "name_ta", "image", "tel",
			"officer_services_id", "officer_positions_id", "user_id").
		Preload("OfficerService", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "sname_en")
		}).
		Preload("OfficerPosition", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "position_en")
		}).
		Preload("OfficerSubjects", func(db *gorm.DB) *gorm.DB {
			return db.Select("officer_subjects.id", "subject_en")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "email", "status")
		}).
		Find(&officers).Error
	return officers, err
}

func (r *OfficerRepository) CreateOfficer(fields OfficerFields, img *multipart.FileHeader) (*models.Officer, error) {
	role, err := ensureRole(r.db, "officer")
	if err != nil {
		return nil, err
	}
	rid := role.ID
	user := models.User{Username: fields.Email, Email: fields.Email, RoleID: &rid}
	if err := r.db.Create(&user).Error; err != nil {
		return nil, err
	}

	imgPath, err := storeProfileImage(r.store, officerImageFolder, img)
	if err != nil {
		return nil, err
	}

	officer := models.Officer{
		UserID:             user.ID,
		Title:              fields.Title,
		NameEn:             fields.NameEn,
		NameSi:             fields.NameSi,
		NameTa:             fields.NameTa,
		Tel:                fields.Tel,
		OfficerServicesID:  fields.ServiceID,
		OfficerPositionsID: fields.PositionID,
		Image:              imgPath,
	}
	if err := r.db.Create(&officer).Error; err != nil {
		return nil, err
	}
	if err := r.syncSubjects(&officer, fields.SubjectIDs); err != nil {
		return nil, err
	}
	return &officer, nil
}

func (r *OfficerRepository) syncSubjects(officer *models.Officer, ids []uint) error {
	if ids == nil {
		return nil
	}
	var subjects []models.OfficerSubject
	if len(ids) > 0 {
		if err := r.db.Find(&subjects, ids).Error; err != nil {
			return err
		}
	}
	return r.db.Model(officer).Association("OfficerSubjects").Replace(subjects)
}

func (r *OfficerRepository) UpdateOfficer(id uint, fields OfficerFields, img *multipart.FileHeader, status string) error {
	var exist models.Officer
	if err := r.db.First(&exist, id).Error; err != nil {
		return err
	}

	imgPath := exist.Image
	if img != nil {
		if exist.Image != nil {
			if err := r.store.Delete(*exist.Image); err != nil {
				log.Printf("delete officer image %s: %v", *exist.Image, err)
			}
		}
		var err error
		imgPath, err = storeProfileImage(r.store, officerImageFolder, img)
		if err != nil {
			return err
		}
	}

	err := r.db.Model(&exist).Updates(map[string]any{
		"title":                fields.Title,
		"name_en":              fields.NameEn,
		"name_si":              fields.NameSi,
		"name_ta":              fields.NameTa,
		"tel":                  fields.Tel,
		"officer_services_id":  fields.ServiceID,
		"officer_positions_id": fields.PositionID,
		"image":                imgPath,
	}).Error
	if err != nil {
		return err
	}
	if err := r.syncSubjects(&exist, fields.SubjectIDs); err != nil {
		return err
	}
	if status != "" {
		var user models.User
		if err := r.db.First(&user, exist.UserID).Error; err != nil {
			return err
		}
		if err := r.db.Model(&user).Update("status", status).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteOfficer removes the photo, subject links, officer row, refresh
// tokens and user row as one transaction.
func (r *OfficerRepository) DeleteOfficer(id uint) bool {
	var officer models.Officer
	if err := r.db.First(&officer, id).Error; err != nil {
		return false
	}
	userID := officer.UserID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if officer.Image != nil {
			if err := r.store.Delete(*officer.Image); err != nil {
				return err
			}
		}
		if err := tx.Model(&officer).Association("OfficerSubjects").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&officer).Error; err != nil {
			return err
		}
		var user models.User
		if err := tx.First(&user, userID).Error; err == nil {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return err == nil
}

// Count returns the number of directory officers.
func (r *OfficerRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Officer{}).Count(&n).Error
	return n, err
}

//-----------------Service--------------------------------------------------------------------

func (r *OfficerRepository) ListServices() ([]models.OfficerService, error) {
	var ss []models.OfficerService
	err := r.db.Find(&ss).Error
	return ss, err
}

//-----------------Position--------------------------------------------------------------------

// OfficerPositionFields enumerates the mutable position fields.
type OfficerPositionFields struct {
	En, Si, Ta string
	ServiceID  uint
}

func (r *OfficerRepository) AddPosition(f OfficerPositionFields) (*models.OfficerPosition, error) {
	p := models.OfficerPosition{
		PositionEn:        f.En,
		PositionSi:        f.Si,
		PositionTa:        f.Ta,
		OfficerServicesID: f.ServiceID,
	}
	if err := r.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *OfficerRepository) UpdatePosition(id uint, f OfficerPositionFields) error {
	var p models.OfficerPosition
	if err := r.db.First(&p, id).Error; err != nil {
		return err
	}
	return r.db.Model(&p).Updates(map[string]any{
		"position_en":         f.En,
		"position_si":         f.Si,
		"position_ta":         f.Ta,
		"officer_services_id": f.ServiceID,
	}).Error
}

func (r *OfficerRepository) DeletePosition(id uint) error {
	var p models.OfficerPosition
	if err := r.db.First(&p, id).Error; err != nil {
		return err
	}
	return r.db.Delete(&p).Error
}

func (r *OfficerRepository) ListPositionsByService(serviceID uint) ([]models.OfficerPosition, error) {
	var ps []models.OfficerPosition
	err := r.db.Where("officer_services_id = ?", serviceID).Find(&ps).Error
	return ps, err
}

//-----------------Subject--------------------------------------------------------------------

func (r *OfficerRepository) AddSubject(n LocalizedNames) (*models.OfficerSubject, error) {
	s := models.OfficerSubject{SubjectEn: n.En, SubjectSi: n.Si, SubjectTa: n.Ta}
	if err := r.db.Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *OfficerRepository) UpdateSubject(id uint, n LocalizedNames) error {
	var s models.OfficerSubject
	if err := r.db.First(&s, id).Error; err != nil {
		return err
	}
	return r.db.Model(&s).Updates(map[string]any{
		"subject_en": n.En, "subject_si": n.Si, "subject_ta": n.Ta,
	}).Error
}

func (r *OfficerRepository) DeleteSubject(id uint) error {
	var s models.OfficerSubject
	if err := r.db.First(&s, id).Error; err != nil {
		return err
	}
	return r.db.Delete(&s).Error
}

func (r *OfficerRepository) ListSubjects() ([]models.OfficerSubject, error) {
	var ss []models.OfficerSubject
	err := r.db.Find(&ss).Error
	return ss, err
}
