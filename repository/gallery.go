package repository

import (
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lgapi/models"
	"lgapi/pkg/storage"
)

const galleryFolder = "gallery_images"

// GalleryRepository manages albums and their ordered image lists. Images
// are always retrieved ascending by their order column and appends land at
// max(order)+1 so new images sort last.
type GalleryRepository struct {
	db    *gorm.DB
	store *storage.Store
}

func NewGalleryRepository(db *gorm.DB, store *storage.Store) *GalleryRepository {
	return &GalleryRepository{db: db, store: store}
}

// TopicFields enumerates the mutable album fields.
type TopicFields struct {
	TopicEn string
	TopicSi string
	TopicTa string
}

// NamedFile carries an upload together with its form field key, which is
// embedded in the stored filename.
type NamedFile struct {
	Key  string
	File *multipart.FileHeader
}

// ImageOrder is one {id, order} reorder instruction. Resulting orders are
// not validated for contiguity or uniqueness.
type ImageOrder struct {
	ID    uint `json:"id"`
	Order int  `json:"order"`
}

func (r *GalleryRepository) saveImage(name string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return r.store.Save(galleryFolder, name, f)
}

// CreateGallery inserts the album row and stores each supplied file in
// encounter order with a monotonically increasing order starting at 0.
func (r *GalleryRepository) CreateGallery(topics TopicFields, files []NamedFile) (*models.Gallery, error) {
	gallery := models.Gallery{
		TopicEn: topics.TopicEn,
		TopicSi: topics.TopicSi,
		TopicTa: topics.TopicTa,
	}
	if err := r.db.Create(&gallery).Error; err != nil {
		return nil, err
	}
	order := 0
	for _, nf := range files {
		if nf.File == nil {
			continue
		}
		name := fmt.Sprintf("%s_%s%s", uuid.NewString(), nf.Key, filepath.Ext(nf.File.Filename))
		rel, err := r.saveImage(name, nf.File)
		if err != nil {
			return nil, err
		}
		img := models.GalleryImage{GalleryID: gallery.ID, ImagePath: rel, Order: order}
		if err := r.db.Create(&img).Error; err != nil {
			return nil, err
		}
		order++
	}
	return &gallery, nil
}

func (r *GalleryRepository) withOrderedImages(q *gorm.DB) *gorm.DB {
	return q.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "image_path", "gallery_id", `"order"`).Order(`"order"`)
	})
}

func (r *GalleryRepository) annotate(g *models.Gallery) {
	for i := range g.Images {
		g.Images[i].FullURL = r.store.URL(g.Images[i].ImagePath)
	}
}

// ListGalleries returns every album with its images eagerly loaded in
// ascending order, each annotated with its public retrieval URL.
func (r *GalleryRepository) ListGalleries() ([]models.Gallery, error) {
	var galleries []models.Gallery
	err := r.withOrderedImages(r.db.
		Select("id", "topic_en", "topic_si", "topic_ta", "created_at", "updated_at")).
		Find(&galleries).Error
	if err != nil {
		return nil, err
	}
	for i := range galleries {
		r.annotate(&galleries[i])
	}
	return galleries, nil
}

func (r *GalleryRepository) GetGallery(id uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.withOrderedImages(r.db).First(&gallery, id).Error
	if err != nil {
		return nil, err
	}
	r.annotate(&gallery)
	return &gallery, nil
}

// GalleryUpdate is the full instruction set for one album update. Steps are
// applied in declaration order: topics, deletions, reorders, appends.
type GalleryUpdate struct {
	Topics         TopicFields
	DeletedImages  []uint
	ExistingImages []ImageOrder
	NewFiles       []*multipart.FileHeader
	ImagesModified bool // explicit caller flag; any image mutation also sets it
}

// UpdateGallery applies an album update. The album timestamp is touched
// whenever any image sub-operation ran, so updated_at reflects the latest
// of any mutation, not only topic changes.
func (r *GalleryRepository) UpdateGallery(id uint, upd GalleryUpdate) error {
	var gallery models.Gallery
	if err := r.db.First(&gallery, id).Error; err != nil {
		return err
	}

	if err := r.db.Model(&gallery).Updates(map[string]any{
		"topic_en": upd.Topics.TopicEn,
		"topic_si": upd.Topics.TopicSi,
		"topic_ta": upd.Topics.TopicTa,
	}).Error; err != nil {
		return err
	}

	imagesModified := upd.ImagesModified
	if len(upd.DeletedImages) > 0 {
		if err := r.DeleteImages(upd.DeletedImages); err != nil {
			return err
		}
		imagesModified = true
	}
	if len(upd.ExistingImages) > 0 {
		orders := make(map[uint]int, len(upd.ExistingImages))
		for _, io := range upd.ExistingImages {
			orders[io.ID] = io.Order
		}
		if err := r.UpdateImageOrders(orders); err != nil {
			return err
		}
		imagesModified = true
	}
	if len(upd.NewFiles) > 0 {
		if err := r.AddImages(gallery.ID, upd.NewFiles); err != nil {
			return err
		}
		imagesModified = true
	}

	if imagesModified {
		if err := r.db.Model(&gallery).Update("updated_at", time.Now()).Error; err != nil {
			return err
		}
	}
	return nil
}

// touchGallery advances the album timestamp after an image mutation, so
// updated_at reflects image changes even when no album field changed.
func (r *GalleryRepository) touchGallery(ids ...uint) error {
	for _, id := range ids {
		err := r.db.Model(&models.Gallery{}).
			Where("id = ?", id).
			Update("updated_at", time.Now()).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// AddImages appends files as new images starting at max(existing order)+1.
func (r *GalleryRepository) AddImages(galleryID uint, files []*multipart.FileHeader) error {
	var maxOrder int
	err := r.db.Model(&models.GalleryImage{}).
		Where("gallery_id = ?", galleryID).
		Select(`COALESCE(MAX("order"), -1)`).
		Scan(&maxOrder).Error
	if err != nil {
		return err
	}
	order := maxOrder + 1
	for _, fh := range files {
		name := fmt.Sprintf("%s_%d_%d%s", uuid.NewString(), time.Now().Unix(), order, filepath.Ext(fh.Filename))
		rel, err := r.saveImage(name, fh)
		if err != nil {
			return err
		}
		img := models.GalleryImage{GalleryID: galleryID, ImagePath: rel, Order: order}
		if err := r.db.Create(&img).Error; err != nil {
			return err
		}
		order++
	}
	return r.touchGallery(galleryID)
}

// DeleteImages removes the given images, file first then row, leaving all
// other images and their orders unchanged.
func (r *GalleryRepository) DeleteImages(ids []uint) error {
	var images []models.GalleryImage
	if err := r.db.Where("id IN ?", ids).Find(&images).Error; err != nil {
		return err
	}
	touched := map[uint]bool{}
	for _, img := range images {
		if err := r.store.Delete(img.ImagePath); err != nil {
			log.Printf("delete gallery image file %s: %v", img.ImagePath, err)
		}
		if err := r.db.Delete(&models.GalleryImage{}, img.ID).Error; err != nil {
			return err
		}
		touched[img.GalleryID] = true
	}
	for id := range touched {
		if err := r.touchGallery(id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateImageOrders applies each {id: order} pair as an independent row
// update and touches every affected album.
func (r *GalleryRepository) UpdateImageOrders(orders map[uint]int) error {
	touched := map[uint]bool{}
	for id, order := range orders {
		err := r.db.Model(&models.GalleryImage{}).
			Where("id = ?", id).
			Update("order", order).Error
		if err != nil {
			return err
		}
		var img models.GalleryImage
		if err := r.db.Select("gallery_id").First(&img, id).Error; err == nil {
			touched[img.GalleryID] = true
		}
	}
	for id := range touched {
		if err := r.touchGallery(id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteGallery removes every owned image's file, then all image rows and
// the album row inside one transaction. Files are removed before the rows
// so no committed row references an orphaned blob.
func (r *GalleryRepository) DeleteGallery(id uint) error {
	var gallery models.Gallery
	if err := r.db.First(&gallery, id).Error; err != nil {
		return err
	}
	var images []models.GalleryImage
	if err := r.db.Where("gallery_id = ?", id).Find(&images).Error; err != nil {
		return err
	}
	for _, img := range images {
		if err := r.store.Delete(img.ImagePath); err != nil {
			log.Printf("delete gallery image file %s: %v", img.ImagePath, err)
		}
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&gallery).Error
	})
}

// GalleryCount returns the number of albums.
func (r *GalleryRepository) GalleryCount() (int64, error) {
	var n int64
	err := r.db.Model(&models.Gallery{}).Count(&n).Error
	return n, err
}

// ImageCount returns the number of stored gallery images.
func (r *GalleryRepository) ImageCount() (int64, error) {
	var n int64
	err := r.db.Model(&models.GalleryImage{}).Count(&n).Error
	return n, err
}
