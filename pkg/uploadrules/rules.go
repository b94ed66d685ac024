// Package uploadrules evaluates declarative validation tables over
// multipart forms. Each resource declares a []Rule; constraints on files
// apply only when the field actually carries a file, so handlers never
// branch on upload presence themselves.
package uploadrules

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileConstraint bounds an uploaded file. MIME membership is checked by
// sniffing content, not by trusting the client header.
type FileConstraint struct {
	MaxBytes    int64
	MIME        []string
	MimeMessage string
	MaxMessage  string
}

// Rule validates one form field. Zero values disable the corresponding
// check, so a table only states the constraints that matter.
type Rule struct {
	Field           string
	Required        bool
	RequiredMessage string
	MaxLen          int
	MaxLenMessage   string
	ExactLen        int
	ExactLenMessage string
	// File applies to every uploaded file under Field, only when present.
	File *FileConstraint
	// MaxFiles caps how many files may be submitted under Field.
	MaxFiles        int
	MaxFilesMessage string
}

// PDFFile is the document constraint: PDF mimetype, at most 25MB.
func PDFFile(label string) *FileConstraint {
	return &FileConstraint{
		MaxBytes: 25 * 1024 * 1024,
		MIME: []string{
			"application/pdf", "application/x-pdf", "application/octet-stream",
			"application/x-download", "application/acrobat",
		},
		MimeMessage: fmt.Sprintf("The file (%s) must be a PDF file", label),
		MaxMessage:  fmt.Sprintf("The file (%s) may not be greater than 25 MB", label),
	}
}

// JPEGImage is the image constraint: JPEG mimetype, at most 10MB.
func JPEGImage() *FileConstraint {
	return &FileConstraint{
		MaxBytes:    10 * 1024 * 1024,
		MIME:        []string{"image/jpeg"},
		MimeMessage: "Each file must be a JPEG image",
		MaxMessage:  "Each image may not be greater than 10 MB",
	}
}

// Validate runs every rule over the form and returns the collected
// messages; an empty slice means the form passed.
func Validate(form *multipart.Form, rules []Rule) []string {
	var errs []string
	for _, r := range rules {
		errs = append(errs, r.check(form)...)
	}
	return errs
}

func (r Rule) check(form *multipart.Form) []string {
	var errs []string
	val := ""
	if form != nil && len(form.Value[r.Field]) > 0 {
		val = strings.TrimSpace(form.Value[r.Field][0])
	}
	var files []*multipart.FileHeader
	if form != nil {
		files = form.File[r.Field]
	}

	if r.Required && val == "" {
		msg := r.RequiredMessage
		if msg == "" {
			msg = fmt.Sprintf("The %s field is required", r.Field)
		}
		errs = append(errs, msg)
	}
	if r.MaxLen > 0 && len(val) > r.MaxLen {
		errs = append(errs, r.MaxLenMessage)
	}
	if r.ExactLen > 0 && val != "" && len(val) != r.ExactLen {
		errs = append(errs, r.ExactLenMessage)
	}
	if r.MaxFiles > 0 && len(files) > r.MaxFiles {
		errs = append(errs, r.MaxFilesMessage)
	}
	if r.File != nil {
		for _, fh := range files {
			errs = append(errs, CheckFile(fh, r.File)...)
		}
	}
	return errs
}

// CheckFile validates one uploaded file against a constraint. Exposed for
// handlers that enumerate dynamic file keys (gallery uploads).
func CheckFile(fh *multipart.FileHeader, fc *FileConstraint) []string {
	var errs []string
	if fc.MaxBytes > 0 && fh.Size > fc.MaxBytes {
		errs = append(errs, fc.MaxMessage)
	}
	if len(fc.MIME) > 0 {
		mt, err := sniff(fh)
		if err != nil || !mimeAllowed(mt, fc.MIME) {
			errs = append(errs, fc.MimeMessage)
		}
	}
	return errs
}

func sniff(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	return mt.String(), nil
}

func mimeAllowed(got string, allowed []string) bool {
	for _, a := range allowed {
		if got == a {
			return true
		}
	}
	return false
}
