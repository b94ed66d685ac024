package repository

import (
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lgapi/models"
	"lgapi/pkg/storage"
)

const complainFolder = "complains"

// ComplainRepository handles citizen complaints and their optional staff
// action note. Deletion is the one fully transactional path in the system:
// images, action and complaint go together or not at all.
type ComplainRepository struct {
	db    *gorm.DB
	store *storage.Store
}

func NewComplainRepository(db *gorm.DB, store *storage.Store) *ComplainRepository {
	return &ComplainRepository{db: db, store: store}
}

// ComplainFields enumerates the submitter-provided fields.
type ComplainFields struct {
	Cname    string
	Tele     string
	Complain string
}

// AddComplain inserts a complaint with up to three stored images assigned
// to img1..img3 in array order; slots beyond the supplied images stay null.
func (r *ComplainRepository) AddComplain(fields ComplainFields, images []*multipart.FileHeader) (*models.Complain, error) {
	var paths [3]*string
	for i, fh := range images {
		if i >= len(paths) {
			break
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(fh.Filename))
		rel, err := r.store.Save(complainFolder, name, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		paths[i] = &rel
	}
	complain := models.Complain{
		Cname:    fields.Cname,
		Tele:     fields.Tele,
		Complain: fields.Complain,
		Img1:     paths[0],
		Img2:     paths[1],
		Img3:     paths[2],
	}
	if err := r.db.Create(&complain).Error; err != nil {
		return nil, err
	}
	return &complain, nil
}

// ListComplains returns all complaints with the associated action (if any)
// eagerly loaded.
func (r *ComplainRepository) ListComplains() ([]models.Complain, error) {
	var complains []models.Complain
	err := r.db.
		Select("id", "created_at", "cname", "tele", "complain", "img1", "img2", "img3").
		Preload("ComplainAction", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "complain_id", "action", "created_at")
		}).
		Find(&complains).Error
	return complains, err
}

// AddAction attaches a staff note to a complaint. The insert is
// unconditional: a second call creates a second row, matching the original
// behavior (updates always target the single row found by complain_id).
func (r *ComplainRepository) AddAction(complainID uint, action string) (*models.ComplainAction, error) {
	ca := models.ComplainAction{ComplainID: complainID, Action: action}
	if err := r.db.Create(&ca).Error; err != nil {
		return nil, err
	}
	return &ca, nil
}

// UpdateAction overwrites the existing action text for a complaint. The
// action must already exist; gorm.ErrRecordNotFound surfaces otherwise.
func (r *ComplainRepository) UpdateAction(complainID uint, action string) error {
	var exist models.ComplainAction
	if err := r.db.Where("complain_id = ?", complainID).First(&exist).Error; err != nil {
		return err
	}
	return r.db.Model(&exist).Update("action", action).Error
}

// DeleteComplain removes a complaint, its stored images and its action as
// one transaction. Any failure rolls everything back; the caller only
// learns success or failure.
func (r *ComplainRepository) DeleteComplain(id uint) bool {
	var complain models.Complain
	if err := r.db.First(&complain, id).Error; err != nil {
		return false
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range []*string{complain.Img1, complain.Img2, complain.Img3} {
			if p == nil {
				continue
			}
			// paths may be persisted with the public /storage/ prefix
			if err := r.store.Delete(*p); err != nil {
				return err
			}
		}
		if err := tx.Where("complain_id = ?", id).Delete(&models.ComplainAction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&complain).Error
	})
	return err == nil
}

// Count returns the number of complaints.
func (r *ComplainRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Complain{}).Count(&n).Error
	return n, err
}
