package models

import "time"

// OfficerService is a public-service category lookup row.
type OfficerService struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	SnameEn   string `gorm:"size:255;not null"`
	SnameSi   string `gorm:"size:255"`
	SnameTa   string `gorm:"size:255"`
}

// OfficerPosition is a post lookup row scoped to a service.
type OfficerPosition struct {
	ID                uint `gorm:"primaryKey"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	PositionEn        string `gorm:"size:255;not null"`
	PositionSi        string `gorm:"size:255"`
	PositionTa        string `gorm:"size:255"`
	OfficerServicesID uint   `gorm:"index"`
}

// OfficerSubject is a duty lookup row assignable to officers.
type OfficerSubject struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	SubjectEn string `gorm:"size:255;not null"`
	SubjectSi string `gorm:"size:255"`
	SubjectTa string `gorm:"size:255"`
}

// Officer is a staff directory entry with a single profile photo under
// images/officer/.
type Officer struct {
	ID                 uint `gorm:"primaryKey"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	UserID             uint             `gorm:"index;not null"`
	User               User             `gorm:"foreignKey:UserID;references:ID"`
	Title              string           `gorm:"size:32"`
	NameEn             string           `gorm:"size:255;not null"`
	NameSi             string           `gorm:"size:255"`
	NameTa             string           `gorm:"size:255"`
	Tel                string           `gorm:"size:64"`
	Image              *string          `gorm:"size:512"`
	OfficerServicesID  uint             `gorm:"index"`
	OfficerService     OfficerService   `gorm:"foreignKey:OfficerServicesID"`
	OfficerPositionsID uint             `gorm:"index"`
	OfficerPosition    OfficerPosition  `gorm:"foreignKey:OfficerPositionsID"`
	OfficerSubjects    []OfficerSubject `gorm:"many2many:officers_officer_subjects;"`
}
