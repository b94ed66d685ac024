package models

import "time"

// Complain is a citizen-submitted report with up to three image attachments.
type Complain struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Cname     string  `gorm:"size:255"`
	Tele      string  `gorm:"size:64"`
	Complain  string  `gorm:"size:1000;not null"`
	Img1      *string `gorm:"size:512"`
	Img2      *string `gorm:"size:512"`
	Img3      *string `gorm:"size:512"`
	// At most one staff response note; optional until staff responds.
	ComplainAction *ComplainAction `gorm:"foreignKey:ComplainID"`
}

func (Complain) TableName() string { return "complains" }

// ComplainAction is the staff response attached to a complaint.
type ComplainAction struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ComplainID uint   `gorm:"index;not null"`
	Action     string `gorm:"size:1000;not null"`
}
