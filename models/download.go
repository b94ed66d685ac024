package models

import "time"

// DownloadAct is a published act with one optional PDF per language.
// A file path is non-null only when a file was successfully stored for
// that language slot; slots are independent of each other.
type DownloadAct struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Number     string  `gorm:"size:255;not null"`
	IssueDate  string  `gorm:"size:255;not null"`
	NameEn     string  `gorm:"size:255;not null"`
	NameSi     string  `gorm:"size:255;not null"`
	NameTa     string  `gorm:"size:255;not null"`
	FilePathEn *string `gorm:"size:512"`
	FilePathSi *string `gorm:"size:512"`
	FilePathTa *string `gorm:"size:512"`
}

func (DownloadAct) TableName() string { return "download_acts" }

// DownloadReport is a monthly committee report, same attachment shape as acts.
type DownloadReport struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ReportYear  string  `gorm:"size:255;not null"`
	ReportMonth string  `gorm:"size:255;not null"`
	NameEn      string  `gorm:"size:255;not null"`
	NameSi      string  `gorm:"size:255;not null"`
	NameTa      string  `gorm:"size:255;not null"`
	FilePathEn  *string `gorm:"size:512"`
	FilePathSi  *string `gorm:"size:512"`
	FilePathTa  *string `gorm:"size:512"`
}

func (DownloadReport) TableName() string { return "download_committee_reports" }

// DownloadApplication is a downloadable application form, same attachment shape.
type DownloadApplication struct {
	ID               uint `gorm:"primaryKey"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ApplicationYear  string  `gorm:"size:255;not null"`
	ApplicationMonth string  `gorm:"size:255;not null"`
	NameEn           string  `gorm:"size:255;not null"`
	NameSi           string  `gorm:"size:255;not null"`
	NameTa           string  `gorm:"size:255;not null"`
	FilePathEn       *string `gorm:"size:512"`
	FilePathSi       *string `gorm:"size:512"`
	FilePathTa       *string `gorm:"size:512"`
}

func (DownloadApplication) TableName() string { return "download_applications" }
