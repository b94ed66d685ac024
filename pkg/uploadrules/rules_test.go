package uploadrules

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// buildForm assembles a parsed multipart.Form from values and files.
func buildForm(t *testing.T, values map[string]string, files map[string][]byte) *multipart.Form {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range values {
		_ = mw.WriteField(k, v)
	}
	for k, content := range files {
		w, err := mw.CreateFormFile(k, k+".bin")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = w.Write(content)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm
}

// minimal valid file payloads for mimetype sniffing
var (
	pdfBytes  = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF")
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0xFF, 0xD9}
	pngBytes  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
)

func TestRequiredFields(t *testing.T) {
	rules := []Rule{
		{Field: "nameEn", Required: true, RequiredMessage: "The Name English is compulsory"},
		{Field: "nameSi", Required: true, RequiredMessage: "The Name Sinhala is compulsory"},
	}
	form := buildForm(t, map[string]string{"nameEn": "Act No. 12"}, nil)
	errs := Validate(form, rules)
	if len(errs) != 1 || errs[0] != "The Name Sinhala is compulsory" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestFileRuleSkippedWhenAbsent(t *testing.T) {
	rules := []Rule{{Field: "actFileEn", File: PDFFile("English")}}
	form := buildForm(t, nil, nil)
	if errs := Validate(form, rules); len(errs) != 0 {
		t.Fatalf("absent file must not trigger file constraints: %v", errs)
	}
}

func TestPDFMimeEnforced(t *testing.T) {
	rules := []Rule{{Field: "actFileEn", File: PDFFile("English")}}

	good := buildForm(t, nil, map[string][]byte{"actFileEn": pdfBytes})
	if errs := Validate(good, rules); len(errs) != 0 {
		t.Fatalf("valid pdf rejected: %v", errs)
	}

	bad := buildForm(t, nil, map[string][]byte{"actFileEn": pngBytes})
	errs := Validate(bad, rules)
	if len(errs) != 1 || errs[0] != "The file (English) must be a PDF file" {
		t.Fatalf("png should fail pdf rule: %v", errs)
	}
}

func TestJPEGMimeEnforced(t *testing.T) {
	rules := []Rule{{Field: "imageList", File: JPEGImage()}}

	good := buildForm(t, nil, map[string][]byte{"imageList": jpegBytes})
	if errs := Validate(good, rules); len(errs) != 0 {
		t.Fatalf("valid jpeg rejected: %v", errs)
	}

	bad := buildForm(t, nil, map[string][]byte{"imageList": pngBytes})
	errs := Validate(bad, rules)
	if len(errs) != 1 || errs[0] != "Each file must be a JPEG image" {
		t.Fatalf("png should fail jpeg rule: %v", errs)
	}
}

func TestTextLengthRules(t *testing.T) {
	rules := []Rule{
		{Field: "complain", Required: true, RequiredMessage: "The complain is compulsory",
			MaxLen: 1000, MaxLenMessage: "The complain must be maximum of 1000 characters"},
		{Field: "tele", ExactLen: 10, ExactLenMessage: "The Telephone number must be 10 digits"},
	}

	long := strings.Repeat("x", 1001)
	form := buildForm(t, map[string]string{"complain": long, "tele": "07712"}, nil)
	errs := Validate(form, rules)
	if len(errs) != 2 {
		t.Fatalf("expected length errors for both fields: %v", errs)
	}

	// exact-length rule does not fire on an absent optional field
	form = buildForm(t, map[string]string{"complain": "no water"}, nil)
	if errs := Validate(form, rules); len(errs) != 0 {
		t.Fatalf("optional empty tele must pass: %v", errs)
	}
}

func TestMaxFilesCap(t *testing.T) {
	rules := []Rule{{Field: "imageList", MaxFiles: 3,
		MaxFilesMessage: "You can only upload a maximum of 3 images"}}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for i := 0; i < 4; i++ {
		w, _ := mw.CreateFormFile("imageList", "a.jpg")
		_, _ = w.Write(jpegBytes)
	}
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatal(err)
	}

	errs := Validate(req.MultipartForm, rules)
	if len(errs) != 1 || errs[0] != "You can only upload a maximum of 3 images" {
		t.Fatalf("four files should exceed cap: %v", errs)
	}
}
