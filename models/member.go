package models

import "time"

// Division is an electoral division lookup row.
type Division struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DivisionEn string `gorm:"size:255;not null"`
	DivisionSi string `gorm:"size:255"`
	DivisionTa string `gorm:"size:255"`
}

// MemberParty is a political party lookup row.
type MemberParty struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	PartyEn   string `gorm:"size:255;not null"`
	PartySi   string `gorm:"size:255"`
	PartyTa   string `gorm:"size:255"`
}

// MemberPosition is a council position lookup row (chairman, member, ...).
type MemberPosition struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	PositionEn string `gorm:"size:255;not null"`
	PositionSi string `gorm:"size:255"`
	PositionTa string `gorm:"size:255"`
}

// Member is a council member directory entry. Image holds the public URL of
// the single profile photo under images/member/.
type Member struct {
	ID              uint `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          uint             `gorm:"index;not null"`
	User            User             `gorm:"foreignKey:UserID;references:ID"`
	Title           string           `gorm:"size:32"`
	NameEn          string           `gorm:"size:255;not null"`
	NameSi          string           `gorm:"size:255"`
	NameTa          string           `gorm:"size:255"`
	Tel             string           `gorm:"size:64"`
	Image           *string          `gorm:"size:512"`
	DivisionsID     uint             `gorm:"index"`
	Division        Division         `gorm:"foreignKey:DivisionsID"`
	MemberPartiesID uint             `gorm:"index"`
	MemberParty     MemberParty      `gorm:"foreignKey:MemberPartiesID"`
	MemberPositions []MemberPosition `gorm:"many2many:members_member_positions;"`
}
