package handler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/middleware"
	"github.com/yassinebenk/bg-v2/service"
)

type stubProcessor struct {
	result *service.Result
	err    error
}

func (p *stubProcessor) Process(_ context.Context, _ string, _ image.Image) (*service.Result, error) {
	return p.result, p.err
}

func newTestRouter(cfg *config.Config, processor Processor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithRequestID())
	r.POST("/", NewComposeHandler(cfg, processor).Compose)
	return r
}

func pngUpload(t *testing.T, fieldName, fileName string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)

	img := imaging.New(20, 40, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	require.NoError(t, imaging.Encode(part, img, imaging.PNG))
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func okResult() *service.Result {
	return &service.Result{
		Image: imaging.New(40, 30, color.NRGBA{R: 5, G: 5, B: 5, A: 255}),
	}
}

func TestCompose_Success(t *testing.T) {
	cfg := config.New("nonexistent.yaml")
	router := newTestRouter(cfg, &stubProcessor{result: okResult()})

	body, contentType := pngUpload(t, "file", "art.png")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=final_artwork.png`, w.Header().Get("Content-Disposition"))

	decoded, err := imaging.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 30, decoded.Bounds().Dy())
}

func TestCompose_NoFileField(t *testing.T) {
	cfg := config.New("nonexistent.yaml")
	router := newTestRouter(cfg, &stubProcessor{result: okResult()})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("other", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", w.Body.String())
}

func TestCompose_OversizeUpload(t *testing.T) {
	cfg := config.New("nonexistent.yaml")
	cfg.Upload.MaxSize = 10
	router := newTestRouter(cfg, &stubProcessor{result: okResult()})

	body, contentType := pngUpload(t, "file", "art.png")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "size limit")
}

func TestCompose_DisallowedExtension(t *testing.T) {
	cfg := config.New("nonexistent.yaml")
	router := newTestRouter(cfg, &stubProcessor{result: okResult()})

	body, contentType := pngUpload(t, "file", "art.tiff")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported file type")
}

func TestCompose_UndecodableImage(t *testing.T) {
	cfg := config.New("nonexistent.yaml")
	router := newTestRouter(cfg, &stubProcessor{result: okResult()})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "art.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a png at all"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCompose_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "queue full", err: service.ErrQueueFull, wantStatus: http.StatusServiceUnavailable},
		{name: "process timeout", err: context.DeadlineExceeded, wantStatus: http.StatusServiceUnavailable},
		{name: "detection failure", err: &service.DetectionError{Image: "m.jpeg"}, wantStatus: http.StatusInternalServerError},
		{name: "catalog misconfigured", err: &service.ConfigurationError{Orientation: "vertical"}, wantStatus: http.StatusInternalServerError},
		{name: "margin too large", err: &service.MarginError{InnerWidth: -2, InnerHeight: 10}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New("nonexistent.yaml")
			router := newTestRouter(cfg, &stubProcessor{err: tt.err})

			body, contentType := pngUpload(t, "file", "art.png")
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", contentType)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		})
	}
}
