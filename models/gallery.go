package models

import "time"

// Gallery is a photo album with localized topic names. It exclusively owns
// its GalleryImages; an image never exists without a parent gallery.
type Gallery struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	TopicEn   string         `gorm:"size:255"`
	TopicSi   string         `gorm:"size:255"`
	TopicTa   string         `gorm:"size:255"`
	Images    []GalleryImage `gorm:"foreignKey:GalleryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// GalleryImage is one stored image of a gallery. Retrieval is always
// ascending by Order; appends use max(order)+1 so new images sort last.
type GalleryImage struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	GalleryID uint   `gorm:"index;not null"`
	ImagePath string `gorm:"size:512;not null"`
	Order     int    `gorm:"column:order;not null;default:0"`
	// FullURL is filled at read time from the stored path, never persisted.
	FullURL string `gorm:"-" json:"full_url,omitempty"`
}
