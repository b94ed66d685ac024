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

// DownloadRepository manages the three localized-document tables (acts,
// committee reports, application forms). Each record carries up to three
// independent language-tagged PDF slots; file cleanup is best-effort and
// never part of the row write.
type DownloadRepository struct {
	db    *gorm.DB
	store *storage.Store
}

func NewDownloadRepository(db *gorm.DB, store *storage.Store) *DownloadRepository {
	return &DownloadRepository{db: db, store: store}
}

// LangFiles is the set of optional uploads for the three language slots.
type LangFiles struct {
	En, Si, Ta *multipart.FileHeader
}

// ActFields enumerates the mutable fields of an act record.
type ActFields struct {
	Number    string
	IssueDate string
	NameEn    string
	NameSi    string
	NameTa    string
}

// ReportFields enumerates the mutable fields of a committee report record.
type ReportFields struct {
	ReportYear  string
	ReportMonth string
	NameEn      string
	NameSi      string
	NameTa      string
}

// ApplicationFields enumerates the mutable fields of an application record.
type ApplicationFields struct {
	ApplicationYear  string
	ApplicationMonth string
	NameEn           string
	NameSi           string
	NameTa           string
}

// storeSlot stores one uploaded file under folder as {unixtime}_{lang}.{ext},
// preserving the client extension. Returns nil when no file was supplied.
func (r *DownloadRepository) storeSlot(folder, lang string, fh *multipart.FileHeader) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), lang, filepath.Ext(fh.Filename))
	rel, err := r.store.Save(folder, name, f)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// storeLangFiles stores every present slot; the language tag in the name
// keeps simultaneous uploads from colliding.
func (r *DownloadRepository) storeLangFiles(folder string, files LangFiles) (en, si, ta *string, err error) {
	if en, err = r.storeSlot(folder, "en", files.En); err != nil {
		return
	}
	if si, err = r.storeSlot(folder, "si", files.Si); err != nil {
		return
	}
	ta, err = r.storeSlot(folder, "ta", files.Ta)
	return
}

// replaceSlot implements the update contract for one language slot: a new
// upload deletes the old stored file (best-effort) and takes its place; no
// upload retains the existing path untouched.
func (r *DownloadRepository) replaceSlot(folder, lang string, fh *multipart.FileHeader, existing *string) (*string, error) {
	if fh == nil {
		return existing, nil
	}
	if existing != nil {
		if err := r.store.Delete(*existing); err != nil {
			log.Printf("delete old %s file %s: %v", lang, *existing, err)
		}
	}
	return r.storeSlot(folder, lang, fh)
}

// deleteSlots removes the stored files of every non-null slot, best-effort.
func (r *DownloadRepository) deleteSlots(paths ...*string) {
	for _, p := range paths {
		if p == nil {
			continue
		}
		if err := r.store.Delete(*p); err != nil {
			log.Printf("delete stored file %s: %v", *p, err)
		}
	}
}

//-----------------Acts--------------------------------------------------------------------

func (r *DownloadRepository) AddAct(fields ActFields, files LangFiles) (*models.DownloadAct, error) {
	en, si, ta, err := r.storeLangFiles("acts", files)
	if err != nil {
		return nil, err
	}
	act := models.DownloadAct{
		Number:     fields.Number,
		IssueDate:  fields.IssueDate,
		NameEn:     fields.NameEn,
		NameSi:     fields.NameSi,
		NameTa:     fields.NameTa,
		FilePathEn: en,
		FilePathSi: si,
		FilePathTa: ta,
	}
	if err := r.db.Create(&act).Error; err != nil {
		return nil, err
	}
	return &act, nil
}

func (r *DownloadRepository) UpdateAct(id uint, fields ActFields, files LangFiles) error {
	var exist models.DownloadAct
	if err := r.db.First(&exist, id).Error; err != nil {
		return err
	}
	en, err := r.replaceSlot("acts", "en", files.En, exist.FilePathEn)
	if err != nil {
		return err
	}
	si, err := r.replaceSlot("acts", "si", files.Si, exist.FilePathSi)
	if err != nil {
		return err
	}
	ta, err := r.replaceSlot("acts", "ta", files.Ta, exist.FilePathTa)
	if err != nil {
		return err
	}
	return r.db.Model(&exist).Updates(map[string]any{
		"number":       fields.Number,
		"issue_date":   fields.IssueDate,
		"name_en":      fields.NameEn,
		"name_si":      fields.NameSi,
		"name_ta":      fields.NameTa,
		"file_path_en": en,
		"file_path_si": si,
		"file_path_ta": ta,
	}).Error
}

func (r *DownloadRepository) DeleteAct(id uint) error {
	var act models.DownloadAct
	if err := r.db.First(&act, id).Error; err != nil {
		return err
	}
	r.deleteSlots(act.FilePathEn, act.FilePathSi, act.FilePathTa)
	return r.db.Delete(&act).Error
}

func (r *DownloadRepository) ListActs() ([]models.DownloadAct, error) {
	var acts []models.DownloadAct
	err := r.db.
		Select("id", "number", "issue_date", "name_en", "name_si", "name_ta",
			"file_path_en", "file_path_si", "file_path_ta").
		Find(&acts).Error
	return acts, err
}

func (r *DownloadRepository) GetAct(id uint) (*models.DownloadAct, error) {
	var act models.DownloadAct
	if err := r.db.
		Select("id", "number", "issue_date", "name_en", "name_si", "name_ta",
			"file_path_en", "file_path_si", "file_path_ta").
		First(&act, id).Error; err != nil {
		return nil, err
	}
	return &act, nil
}

//-----------------Report--------------------------------------------------------------------

func (r *DownloadRepository) AddReport(fields ReportFields, files LangFiles) (*models.DownloadReport, error) {
	en, si, ta, err := r.storeLangFiles("report", files)
	if err != nil {
		return nil, err
	}
	report := models.DownloadReport{
		ReportYear:  fields.ReportYear,
		ReportMonth: fields.ReportMonth,
		NameEn:      fields.NameEn,
		NameSi:      fields.NameSi,
		NameTa:      fields.NameTa,
		FilePathEn:  en,
		FilePathSi:  si,
		FilePathTa:  ta,
	}
	if err := r.db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *DownloadRepository) UpdateReport(id uint, fields ReportFields, files LangFiles) error {
	var exist models.DownloadReport
	if err := r.db.First(&exist, id).Error; err != nil {
		return err
	}
	en, err := r.replaceSlot("report", "en", files.En, exist.FilePathEn)
	if err != nil {
		return err
	}
	si, err := r.replaceSlot("report", "si", files.Si, exist.FilePathSi)
	if err != nil {
		return err
	}
	ta, err := r.replaceSlot("report", "ta", files.Ta, exist.FilePathTa)
	if err != nil {
		return err
	}
	return r.db.Model(&exist).Updates(map[string]any{
		"report_year":  fields.ReportYear,
		"report_month": fields.ReportMonth,
		"name_en":      fields.NameEn,
		"name_si":      fields.NameSi,
		"name_ta":      fields.NameTa,
		"file_path_en": en,
		"file_path_si": si,
		"file_path_ta": ta,
	}).Error
}

func (r *DownloadRepository) DeleteReport(id uint) error {
	var report models.DownloadReport
	if err := r.db.First(&report, id).Error; err != nil {
		return err
	}
	r.deleteSlots(report.FilePathEn, report.FilePathSi, report.FilePathTa)
	return r.db.Delete(&report).Error
}

func (r *DownloadRepository) ListReports() ([]models.DownloadReport, error) {
	var reports []models.DownloadReport
	err := r.db.
		Select("id", "report_year", "report_month", "name_en", "name_si", "name_ta",
			"file_path_en", "file_path_si", "file_path_ta").
		Find(&reports).Error
	return reports, err
}

func (r *DownloadRepository) GetReport(id uint) (*models.DownloadReport, error) {
	var report models.DownloadReport
	if err := r.db.
		Select("id", "report_year", "report_month", "name_en", "name_si", "name_ta",
			"file_path_en", "file_path_si", "file_path_ta").
		First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

//-----------------Applications--------------------------------------------------------------------

func (r *DownloadRepository) AddApplication(fields ApplicationFields, files LangFiles) (*models.DownloadApplication, error) {
	en, si, ta, err := r.storeLangFiles("applications", files)
	if err != nil {
		return nil, err
	}
	app := models.DownloadApplication{
		ApplicationYear:  fields.ApplicationYear,
		ApplicationMonth: fields.ApplicationMonth,
		NameEn:           fields.NameEn,
		NameSi:           fields.NameSi,
		NameTa:           fields.NameTa,
		FilePathEn:       en,
		FilePathSi:       si,
		FilePathTa:       ta,
	}
	if err := r.db.Create(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *DownloadRepository) UpdateApplication(id uint, fields ApplicationFields, files LangFiles) error {
	var exist models.DownloadApplication
	if err := r.db.First(&exist, id).Error; err != nil {
		return err
	}
	en, err := r.replaceSlot("applications", "en", files.En, exist.FilePathEn)
	if err != nil {
		return err
	}
	si, err := r.replaceSlot("applications", "si", files.Si, exist.FilePathSi)
	if err != nil {
		return err
	}
	ta, err := r.replaceSlot("applications", "ta", files.Ta, exist.FilePathTa)
	if err != nil {
		return err
	}
	return r.db.Model(&exist).Updates(map[string]any{
		"application_year":  fields.ApplicationYear,
		"application_month": fields.ApplicationMonth,
		"name_en":           fields.NameEn,
		"name_si":           fields.NameSi,
		"name_ta":           fields.NameTa,
		"file_path_en":      en,
		"file_path_si":      si,
		"file_path_ta":      ta,
	}).Error
}

func (r *DownloadRepository) DeleteApplication(id uint) error {
	var app models.DownloadApplication
	if err := r.db.First(&app, id).Error; err != nil {
		return err
	}
	r.deleteSlots(app.FilePathEn, app.FilePathSi, app.FilePathTa)
	return r.db.Delete(&app).Error
}

func (r *DownloadRepository) ListApplications() ([]models.DownloadApplication, error) {
	var apps []models.DownloadApplication
	err := r.db.
		Select("id", "application_year", "application_month", "name_en", "name_si", "name_ta",
			"file_path_en", "file_path_si", "file_path_ta").
		Find(&apps).Error
	return apps, err
}

func (r *DownloadRepository) GetApplication(id uint) (*models.DownloadApplication, error) {
	var app models.DownloadApplication
	if err := r.db.
		Select("id", "application_year", "application_month", "name_en", "name_si", "name_ta",
			"file_path_en", "file_path_si", "file_path_ta").
		First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

//----------------------------------------------------------

// Count returns the dashboard counts for acts and reports.
func (r *DownloadRepository) Count() (acts, reports int64, err error) {
	if err = r.db.Model(&models.DownloadAct{}).Count(&acts).Error; err != nil {
		return
	}
	err = r.db.Model(&models.DownloadReport{}).Count(&reports).Error
	return
}
