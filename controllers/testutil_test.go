package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dvkotov/kidswap/config"
	"github.com/dvkotov/kidswap/models"
	"github.com/dvkotov/kidswap/routes"
	"github.com/dvkotov/kidswap/utils"
)

var testUploadDir string

func TestMain(m *testing.M) {
	testUploadDir, _ = os.MkdirTemp("", "kidswap-uploads-*")
	tmpLogs, _ := os.MkdirTemp("", "kidswap-logs-*")

	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("UPLOAD_DIR", testUploadDir)
	os.Setenv("GIN_PATH", filepath.Join(tmpLogs, "gin.log"))
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	// keep the cache a guaranteed pass-through even when a local redis runs
	os.Setenv("REDIS_PORT", "1")
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(testUploadDir)
	os.RemoveAll(tmpLogs)
	os.Exit(code)
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Announcement{}))
	return routes.SetupRouter(db), db
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(r http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doMultipart(r http.Handler, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// registerUser creates an account through the API and returns its token and id.
func registerUser(t *testing.T, r http.Handler, email string) (string, uint) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "secret1",
		"location": "Moscow",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeData(t, w, &data)
	require.NotEmpty(t, data.Token)
	return data.Token, data.User.ID
}

// makeJPEG renders a solid-color JPEG of the given dimensions.
func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type filePart struct {
	name        string
	contentType string
	data        []byte
}

// multipartBody assembles a multipart form with text fields and image parts
// under the form field "images".
func multipartBody(t *testing.T, fields map[string]string, files []filePart) (*bytes.Buffer, string) {
	t.Helper()
	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, f.name))
		hdr.Set("Content-Type", f.contentType)
		pw, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = pw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &b, mw.FormDataContentType()
}

func adFields() map[string]string {
	return map[string]string{
		"title":       "Winter shoes",
		"description": "Barely used winter shoes",
		"categories":  "shoes",
		"target_info": "3-4 years",
		"location":    "moscow",
	}
}

func jpegParts(t *testing.T, n int) []filePart {
	parts := make([]filePart, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, filePart{
			name:        fmt.Sprintf("photo%d.jpg", i),
			contentType: "image/jpeg",
			data:        makeJPEG(t, 1200, 900),
		})
	}
	return parts
}

// createAd creates an announcement with the given number of images and
// returns the created row.
func createAd(t *testing.T, r http.Handler, token string, images int) models.Announcement {
	t.Helper()
	body, ct := multipartBody(t, adFields(), jpegParts(t, images))
	w := doMultipart(r, http.MethodPost, "/api/announcements", token, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ad models.Announcement
	decodeData(t, w, &ad)
	return ad
}
