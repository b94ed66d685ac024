package repository

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lgapi/models"
	"lgapi/pkg/storage"
)

// testDB opens the opt-in test database. Set DB_DSN_TEST=1 and DB_DSN to
// run these tests against a disposable Postgres instance.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("repository tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Fatal("DB_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	for _, m := range []any{
		&models.Role{}, &models.User{}, &models.RefreshToken{},
		&models.DownloadAct{}, &models.DownloadReport{}, &models.DownloadApplication{},
		&models.Gallery{}, &models.GalleryImage{},
		&models.Complain{}, &models.ComplainAction{},
		&models.Division{}, &models.MemberParty{}, &models.MemberPosition{}, &models.Member{},
		&models.OfficerService{}, &models.OfficerPosition{}, &models.OfficerSubject{}, &models.Officer{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New(t.TempDir())
}

// fileHeader builds a real multipart.FileHeader the way gin hands it to the
// repositories.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()
	req := httptest.NewRequest("POST", "/", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n%%EOF\n")
}

func jpegBytes() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x00}, 32)...)
}
