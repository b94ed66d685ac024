package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	_ = os.Setenv("STORAGE_BASE", t.TempDir())
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func adminToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	loginBody, _ := json.Marshal(map[string]string{"username": "admin", "password": "admin123"})
	resp := performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("admin login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}
	return token
}

func pdfPayload() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}

func jpegPayload() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x00}, 64)...)
}

type formField struct{ key, value string }
type formUpload struct {
	key, name string
	data      []byte
}

func buildMultipart(t *testing.T, fields []formField, uploads []formUpload) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for _, f := range fields {
		_ = mw.WriteField(f.key, f.value)
	}
	for _, u := range uploads {
		w, err := mw.CreateFormFile(u.key, u.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = w.Write(u.data)
	}
	_ = mw.Close()
	return buf, mw.FormDataContentType()
}

func createdID(t *testing.T, resp *httptest.ResponseRecorder, envelope string) uint {
	t.Helper()
	var body map[string]map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s response: %v body=%s", envelope, err, resp.Body.String())
	}
	id, _ := body[envelope]["ID"].(float64)
	if id == 0 {
		t.Fatalf("missing ID in %s response: %s", envelope, resp.Body.String())
	}
	return uint(id)
}

func TestActFlow(t *testing.T) {
	r := setupTestServer(t)
	token := adminToken(t, r)

	// mutating download routes require a token
	buf, ct := buildMultipart(t,
		[]formField{
			{"actNumber", "12"}, {"actDate", "2024-03-01"},
			{"nameEn", "Waste Act"}, {"nameSi", "si"}, {"nameTa", "ta"},
		},
		[]formUpload{{"actFileEn", "act_en.pdf", pdfPayload()}},
	)
	unauth := performRequest(r, http.MethodPost, "/downloadActs", buf, "", ct)
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated act create got %d", unauth.Code)
	}

	buf, ct = buildMultipart(t,
		[]formField{
			{"actNumber", "12"}, {"actDate", "2024-03-01"},
			{"nameEn", "Waste Act"}, {"nameSi", "si"}, {"nameTa", "ta"},
		},
		[]formUpload{{"actFileEn", "act_en.pdf", pdfPayload()}},
	)
	resp := performRequest(r, http.MethodPost, "/downloadActs", buf, token, ct)
	if resp.Code != http.StatusCreated {
		t.Fatalf("act create failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	id := createdID(t, resp, "acts")

	// missing required fields are rejected with 422
	buf, ct = buildMultipart(t, []formField{{"actNumber", "13"}}, nil)
	resp = performRequest(r, http.MethodPost, "/downloadActs", buf, token, ct)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for incomplete act got %d body=%s", resp.Code, resp.Body.String())
	}

	// a non-PDF upload in a file slot is rejected
	buf, ct = buildMultipart(t,
		[]formField{
			{"actNumber", "13"}, {"actDate", "2024-03-02"},
			{"nameEn", "Roads Act"}, {"nameSi", "si"}, {"nameTa", "ta"},
		},
		[]formUpload{{"actFileEn", "act_en.pdf", jpegPayload()}},
	)
	resp = performRequest(r, http.MethodPost, "/downloadActs", buf, token, ct)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for non-PDF act file got %d body=%s", resp.Code, resp.Body.String())
	}

	// public list and get
	resp = performRequest(r, http.MethodGet, "/downloadActs", nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("act list failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/downloadActs/%d", id), nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("act get failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// update with a Sinhala file only; English path must survive
	buf, ct = buildMultipart(t,
		[]formField{
			{"actNumber", "12"}, {"actDate", "2024-03-01"},
			{"nameEn", "Waste Act (rev)"}, {"nameSi", "si"}, {"nameTa", "ta"},
		},
		[]formUpload{{"actFileSi", "act_si.pdf", pdfPayload()}},
	)
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/downloadActs/%d", id), buf, token, ct)
	if resp.Code != 200 {
		t.Fatalf("act update failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/downloadActs/%d", id), nil, "", "")
	var act map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &act)
	if act["FilePathEn"] == nil || act["FilePathSi"] == nil {
		t.Fatalf("expected both En and Si paths after partial update: %s", resp.Body.String())
	}
	if act["NameEn"] != "Waste Act (rev)" {
		t.Fatalf("expected updated name, got %v", act["NameEn"])
	}

	// delete answers 204, a second delete 404
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/downloadActs/%d", id), nil, token, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("act delete failed status=%d", resp.Code)
	}
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/downloadActs/%d", id), nil, token, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeated act delete got %d", resp.Code)
	}
}

func TestGalleryFlow(t *testing.T) {
	r := setupTestServer(t)
	token := adminToken(t, r)

	buf, ct := buildMultipart(t,
		[]formField{{"topicEn", "Opening"}, {"topicSi", "si"}, {"topicTa", "ta"}},
		[]formUpload{
			{"image_0", "a.jpg", jpegPayload()},
			{"image_1", "b.jpg", jpegPayload()},
		},
	)
	resp := performRequest(r, http.MethodPost, "/gallery", buf, token, ct)
	if resp.Code != http.StatusCreated {
		t.Fatalf("gallery create failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performRequest(r, http.MethodGet, "/gallery", nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("gallery list failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var listResp struct {
		AllGalleries []struct {
			ID     uint
			Images []struct {
				ID      uint
				Order   int
				FullURL string `json:"full_url"`
			}
		}
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode gallery list: %v", err)
	}
	if len(listResp.AllGalleries) == 0 {
		t.Fatal("expected at least one gallery")
	}
	g := listResp.AllGalleries[len(listResp.AllGalleries)-1]
	if len(g.Images) != 2 {
		t.Fatalf("expected 2 images got %d", len(g.Images))
	}
	for i, img := range g.Images {
		if img.Order != i {
			t.Fatalf("expected ascending order, image %d has order %d", i, img.Order)
		}
		if img.FullURL == "" {
			t.Fatalf("image %d missing full_url", i)
		}
	}

	// append two more images; they take the next order slots
	buf, ct = buildMultipart(t,
		[]formField{
			{"topicEn", "Opening"}, {"topicSi", "si"}, {"topicTa", "ta"},
			{"images_modified", "true"},
		},
		[]formUpload{
			{"new_image_0", "c.jpg", jpegPayload()},
			{"new_image_1", "d.jpg", jpegPayload()},
		},
	)
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/gallery/%d", g.ID), buf, token, ct)
	if resp.Code != 200 {
		t.Fatalf("gallery update failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/gallery/%d", g.ID), nil, "", "")
	var getResp struct {
		Gallery struct {
			Images []struct {
				ID    uint
				Order int
			}
		} `json:"gallery"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &getResp); err != nil {
		t.Fatalf("decode gallery get: %v", err)
	}
	if len(getResp.Gallery.Images) != 4 {
		t.Fatalf("expected 4 images after append got %d", len(getResp.Gallery.Images))
	}
	for i, img := range getResp.Gallery.Images {
		if img.Order != i {
			t.Fatalf("expected appended order %d got %d", i, img.Order)
		}
	}

	// reorder: reverse the sequence
	var orders []map[string]any
	for i, img := range getResp.Gallery.Images {
		orders = append(orders, map[string]any{"id": img.ID, "order": len(getResp.Gallery.Images) - 1 - i})
	}
	body, _ := json.Marshal(map[string]any{"images": orders})
	resp = performRequest(r, http.MethodPost, "/gallery-images/update-order", bytes.NewBuffer(body), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("reorder failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// delete one image, the rest stay
	first := getResp.Gallery.Images[0].ID
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/gallery-images/%d", first), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("image delete failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/gallery/%d", g.ID), nil, "", "")
	getResp.Gallery.Images = nil
	_ = json.Unmarshal(resp.Body.Bytes(), &getResp)
	if len(getResp.Gallery.Images) != 3 {
		t.Fatalf("expected 3 images after single delete got %d", len(getResp.Gallery.Images))
	}

	// delete the album
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/gallery/%d", g.ID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("gallery delete failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/gallery/%d", g.ID), nil, "", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after gallery delete got %d", resp.Code)
	}
}

func TestComplainFlow(t *testing.T) {
	r := setupTestServer(t)
	token := adminToken(t, r)

	// public submission, no token
	buf, ct := buildMultipart(t,
		[]formField{
			{"cname", "A. Citizen"}, {"tele", "0771234567"},
			{"complain", "Street light broken near the junction"},
		},
		[]formUpload{{"imageList", "photo.jpg", jpegPayload()}},
	)
	resp := performRequest(r, http.MethodPost, "/siteComplainAdd", buf, "", ct)
	if resp.Code != http.StatusCreated {
		t.Fatalf("complain submit failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	id := createdID(t, resp, "Complain")

	// tele must be exactly 10 digits when present
	buf, ct = buildMultipart(t,
		[]formField{{"tele", "123"}, {"complain", "short tele"}},
		nil,
	)
	resp = performRequest(r, http.MethodPost, "/siteComplainAdd", buf, "", ct)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad tele got %d body=%s", resp.Code, resp.Body.String())
	}

	// action update before any action exists answers 404
	body, _ := json.Marshal(map[string]any{"action": "resolved"})
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/complainActions/%d", id), bytes.NewBuffer(body), token, "application/json")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for action update without action got %d body=%s", resp.Code, resp.Body.String())
	}

	// record an action, then update it
	body, _ = json.Marshal(map[string]any{"id": id, "action": "crew dispatched"})
	resp = performRequest(r, http.MethodPost, "/complainActions", bytes.NewBuffer(body), token, "application/json")
	if resp.Code != http.StatusCreated {
		t.Fatalf("action add failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	body, _ = json.Marshal(map[string]any{"action": "resolved"})
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/complainActions/%d", id), bytes.NewBuffer(body), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("action update failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// staff listing carries the action
	resp = performRequest(r, http.MethodGet, "/complains", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("complain list failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// delete removes the complaint with its action rows
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/complains/%d", id), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("complain delete failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/complains/%d", id), nil, token, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeated complain delete got %d", resp.Code)
	}
}

func TestCounts(t *testing.T) {
	r := setupTestServer(t)
	token := adminToken(t, r)

	resp := performRequest(r, http.MethodGet, "/countDownload", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("countDownload failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var pair []int64
	if err := json.Unmarshal(resp.Body.Bytes(), &pair); err != nil || len(pair) != 2 {
		t.Fatalf("expected [acts, reports] pair, got %s", resp.Body.String())
	}
	for _, path := range []string{"/countGallery", "/countMember", "/countOfficer", "/complaincount"} {
		resp = performRequest(r, http.MethodGet, path, nil, token, "")
		if resp.Code != 200 {
			t.Fatalf("%s failed status=%d body=%s", path, resp.Code, resp.Body.String())
		}
	}

	// counts require authentication
	resp = performRequest(r, http.MethodGet, "/countDownload", nil, "", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated count got %d", resp.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
