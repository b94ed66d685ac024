package repository

import (
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"lgapi/models"
	"lgapi/pkg/storage"
)

const memberImageFolder = "images/member"

// MemberRepository manages the council member directory, its lookup tables
// (divisions, parties, positions) and the linked portal user accounts.
type MemberRepository struct {
	db    *gorm.DB
	store *storage.Store
}

func NewMemberRepository(db *gorm.DB, store *storage.Store) *MemberRepository {
	return &MemberRepository{db: db, store: store}
}

// LocalizedNames is a single localized value triple used by lookup tables.
type LocalizedNames struct {
	En, Si, Ta string
}

//-----------------Division--------------------------------------------------------------------

func (r *MemberRepository) AddDivision(n LocalizedNames) (*models.Division, error) {
	d := models.Division{DivisionEn: n.En, DivisionSi: n.Si, DivisionTa: n.Ta}
	if err := r.db.Create(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *MemberRepository) UpdateDivision(id uint, n LocalizedNames) error {
	var d models.Division
	if err := r.db.First(&d, id).Error; err != nil {
		return err
	}
	return r.db.Model(&d).Updates(map[string]any{
		"division_en": n.En, "division_si": n.Si, "division_ta": n.Ta,
	}).Error
}

func (r *MemberRepository) DeleteDivision(id uint) bool {
	var d models.Division
	if err := r.db.First(&d, id).Error; err != nil {
		return false
	}
	return r.db.Delete(&d).Error == nil
}

func (r *MemberRepository) ListDivisions() ([]models.Division, error) {
	var ds []models.Division
	err := r.db.Find(&ds).Error
	return ds, err
}

//-----------------Party--------------------------------------------------------------------

func (r *MemberRepository) AddParty(n LocalizedNames) (*models.MemberParty, error) {
	p := models.MemberParty{PartyEn: n.En, PartySi: n.Si, PartyTa: n.Ta}
	if err := r.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MemberRepository) UpdateParty(id uint, n LocalizedNames) error {
	var p models.MemberParty
	if err := r.db.First(&p, id).Error; err != nil {
		return err
	}
	return r.db.Model(&p).Updates(map[string]any{
		"party_en": n.En, "party_si": n.Si, "party_ta": n.Ta,
	}).Error
}

func (r *MemberRepository) DeleteParty(id uint) bool {
	var p models.MemberParty
	if err := r.db.First(&p, id).Error; err != nil {
		return false
	}
	return r.db.Delete(&p).Error == nil
}

func (r *MemberRepository) ListParties() ([]models.MemberParty, error) {
	var ps []models.MemberParty
	err := r.db.Find(&ps).Error
	return ps, err
}

//-----------------Position--------------------------------------------------------------------

func (r *MemberRepository) AddPosition(n LocalizedNames) (*models.MemberPosition, error) {
	p := models.MemberPosition{PositionEn: n.En, PositionSi: n.Si, PositionTa: n.Ta}
	if err := r.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MemberRepository) UpdatePosition(id uint, n LocalizedNames) error {
	var p models.MemberPosition
	if err := r.db.First(&p, id).Error; err != nil {
		return err
	}
	return r.db.Model(&p).Updates(map[string]any{
		"position_en": n.En, "position_si": n.Si, "position_ta": n.Ta,
	}).Error
}

func (r *MemberRepository) DeletePosition(id uint) bool {
	var p models.MemberPosition
	if err := r.db.First(&p, id).Error; err != nil {
		return false
	}
	return r.db.Delete(&p).Error == nil
}

func (r *MemberRepository) ListPositions() ([]models.MemberPosition, error) {
	var ps []models.MemberPosition
	err := r.db.Find(&ps).Error
	return ps, err
}

//-----------------Member--------------------------------------------------------------------

// MemberFields enumerates the mutable member fields.
type MemberFields struct {
	Email       string
	Title       string
	NameEn      string
	NameSi      string
	NameTa      string
	Tel         string
	DivisionID  uint
	PartyID     uint
	PositionIDs []uint
}

// storeProfileImage stores a profile photo as {unixtime}.{ext} under the
// given folder and returns its public URL, which is what gets persisted.
func storeProfileImage(store *storage.Store, folder string, fh *multipart.FileHeader) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := fmt.Sprintf("%d%s", time.Now().Unix(), filepath.Ext(fh.Filename))
	rel, err := store.Save(folder, name, f)
	if err != nil {
		return nil, err
	}
	url := store.URL(rel)
	return &url, nil
}

func ensureRole(db *gorm.DB, name string) (*models.Role, error) {
	var role models.Role
	err := db.Where("name = ?", name).FirstOrCreate(&role, models.Role{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// ListMembers returns the directory with lookup names and account state
// eagerly loaded.
func (r *MemberRepository) ListMembers() ([]models.Member, error) {
	var members []models.Member
	err := r.db.
		Select("id", "title", "name_en", "name_si", "name_ta", "image", "tel",
			"divisions_id", "member_parties_id", "user_id").
		Preload("Division", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "division_en")
		}).
		Preload("MemberParty", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "party_en")
		}).
		Preload("MemberPositions", func(db *gorm.DB) *gorm.DB {
			return db.Select("member_positions.id", "position_en")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "email", "status")
		}).
		Find(&members).Error
	return members, err
}

// CreateMember creates the portal user, stores the profile photo and
// inserts the member row with its position assignments.
func (r *MemberRepository) CreateMember(fields MemberFields, img *multipart.FileHeader) (*models.Member, error) {
	role, err := ensureRole(r.db, "member")
	if err != nil {
		return nil, err
	}
	rid := role.ID
	user := models.User{Username: fields.Email, Email: fields.Email, RoleID: &rid}
	if err := r.db.Create(&user).Error; err != nil {
		return nil, err
	}

	imgPath, err := storeProfileImage(r.store, memberImageFolder, img)
	if err != nil {
		return nil, err
	}

	member := models.Member{
		UserID:          user.ID,
		Title:           fields.Title,
		NameEn:          fields.NameEn,
		NameSi:          fields.NameSi,
		NameTa:          fields.NameTa,
		Tel:             fields.Tel,
		DivisionsID:     fields.DivisionID,
		MemberPartiesID: fields.PartyID,
		Image:           imgPath,
	}
	if err := r.db.Create(&member).Error; err != nil {
		return nil, err
	}
	if err := r.syncPositions(&member, fields.PositionIDs); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) syncPositions(member *models.Member, ids []uint) error {
	if ids == nil {
		return nil
	}
	var positions []models.MemberPosition
	if len(ids) > 0 {
		if err := r.db.Find(&positions, ids).Error; err != nil {
			return err
		}
	}
	return r.db.Model(member).Association("MemberPositions").Replace(positions)
}

// UpdateMember replaces the profile photo when a new one is supplied (the
// old file is removed best-effort), rewrites the mutable fields, re-syncs
// positions and updates the linked account status.
func (r *MemberRepository) UpdateMember(id uint, fields MemberFields, img *multipart.FileHeader, status string) error {
	var exist models.Member
	if err := r.db.First(&exist, id).Error; err != nil {
		return err
	}

	imgPath := exist.Image
	if img != nil {
		if exist.Image != nil {
			if err := r.store.Delete(*exist.Image); err != nil {
				log.Printf("delete member image %s: %v", *exist.Image, err)
			}
		}
		var err error
		imgPath, err = storeProfileImage(r.store, memberImageFolder, img)
		if err != nil {
			return err
		}
	}

	err := r.db.Model(&exist).Updates(map[string]any{
		"title":             fields.Title,
		"name_en":           fields.NameEn,
		"name_si":           fields.NameSi,
		"name_ta":           fields.NameTa,
		"tel":               fields.Tel,
		"divisions_id":      fields.DivisionID,
		"member_parties_id": fields.PartyID,
		"image":             imgPath,
	}).Error
	if err != nil {
		return err
	}
	if err := r.syncPositions(&exist, fields.PositionIDs); err != nil {
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

// DeleteMember removes the photo, position links, member row, refresh
// tokens and user row as one transaction.
func (r *MemberRepository) DeleteMember(id uint) bool {
	var member models.Member
	if err := r.db.First(&member, id).Error; err != nil {
		return false
	}
	userID := member.UserID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if member.Image != nil {
			if err := r.store.Delete(*member.Image); err != nil {
				return err
			}
		}
		if err := tx.Model(&member).Association("MemberPositions").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&member).Error; err != nil {
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

// Count returns the number of directory members.
func (r *MemberRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Member{}).Count(&n).Error
	return n, err
}
