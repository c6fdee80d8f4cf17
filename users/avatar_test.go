package users

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
var jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}

func TestSniffImageType(t *testing.T) {
	webp := append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBP")...)

	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", jpegMagic, "image/jpeg"},
		{"png", pngMagic, "image/png"},
		{"webp", webp, "image/webp"},
		{"garbage", []byte("not an image at all"), ""},
		{"short", []byte{0x89}, ""},
	}

	for _, tc := range cases {
		if got := sniffImageType(tc.data); got != tc.want {
			t.Fatalf("%s: sniffImageType = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func avatarRouter(h *Handler, tokens *TokenManager) *gin.Engine {
	r := gin.New()
	r.POST("/api/upload-avatar", AuthMiddleware(tokens), h.HandleUploadAvatar)
	return r
}

func multipartAvatar(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("creating part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func uploadAvatar(t *testing.T, r *gin.Engine, token, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, bodyType := multipartAvatar(t, filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/upload-avatar", body)
	req.Header.Set("Content-Type", bodyType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadAvatarRejectsForgedMagicBytes(t *testing.T) {
	h, database, tokens := newTestHandler(t, t.TempDir())
	seedUser(t, database, "user-1", "alice@example.com", "password123", "")
	token, _ := tokens.Issue("user-1", "")
	r := avatarRouter(h, tokens)

	// MIME type and extension both pass; the content is a JPEG.
	w := uploadAvatar(t, r, token, "avatar.png", "image/png", jpegMagic)
	if w.Code != 400 {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestUploadAvatarRejectsBadExtensionAndType(t *testing.T) {
	h, database, tokens := newTestHandler(t, t.TempDir())
	seedUser(t, database, "user-1", "alice@example.com", "password123", "")
	token, _ := tokens.Issue("user-1", "")
	r := avatarRouter(h, tokens)

	if w := uploadAvatar(t, r, token, "avatar.gif", "image/gif", pngMagic); w.Code != 400 {
		t.Fatalf("disallowed MIME type: status = %d, want 400", w.Code)
	}
	if w := uploadAvatar(t, r, token, "avatar.svg", "image/png", pngMagic); w.Code != 400 {
		t.Fatalf("disallowed extension: status = %d, want 400", w.Code)
	}
}

func TestUploadAvatarStoresFileAndReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	h, database, tokens := newTestHandler(t, dir)
	seedUser(t, database, "user-1", "alice@example.com", "password123", "")
	token, _ := tokens.Issue("user-1", "")
	r := avatarRouter(h, tokens)

	w := uploadAvatar(t, r, token, "first.png", "image/png", pngMagic)
	if w.Code != 200 {
		t.Fatalf("first upload: status = %d: %s", w.Code, w.Body.String())
	}

	var first struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	firstFile := filepath.Join(dir, filepath.Base(first.ImageURL))
	if _, err := os.Stat(firstFile); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	var stored string
	if err := database.QueryRow(`SELECT avatar FROM users WHERE id = 'user-1'`).Scan(&stored); err != nil {
		t.Fatalf("reading avatar reference: %v", err)
	}
	if stored != first.ImageURL {
		t.Fatalf("avatar reference = %q, want %q", stored, first.ImageURL)
	}

	time.Sleep(2 * time.Millisecond) // filenames are epoch-millis based

	w = uploadAvatar(t, r, token, "second.png", "image/png", pngMagic)
	if w.Code != 200 {
		t.Fatalf("second upload: status = %d: %s", w.Code, w.Body.String())
	}
	if _, err := os.Stat(firstFile); !os.IsNotExist(err) {
		t.Fatalf("previous avatar file should be removed")
	}
}

func TestUploadAvatarRequiresFile(t *testing.T) {
	h, database, tokens := newTestHandler(t, t.TempDir())
	seedUser(t, database, "user-1", "alice@example.com", "password123", "")
	token, _ := tokens.Issue("user-1", "")
	r := avatarRouter(h, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/upload-avatar", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
