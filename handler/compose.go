package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/middleware"
	"github.com/yassinebenk/bg-v2/model"
	"github.com/yassinebenk/bg-v2/service"
	"github.com/yassinebenk/bg-v2/utils"
)

// Processor runs one composite job to completion.
type Processor interface {
	Process(ctx context.Context, jobID string, foreground image.Image) (*service.Result, error)
}

type ComposeHandler struct {
	cfg      *config.Config
	pipeline Processor
}

func NewComposeHandler(cfg *config.Config, pipeline Processor) *ComposeHandler {
	return &ComposeHandler{
		cfg:      cfg,
		pipeline: pipeline,
	}
}

// Compose accepts a multipart artwork upload and responds with the
// finished composite as a PNG attachment.
func (h *ComposeHandler) Compose(c *gin.Context) {
	file, inputErr := extractFile(c)
	if inputErr != nil {
		c.String(http.StatusBadRequest, inputErr.Message)
		return
	}

	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("file exceeds size limit (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !h.isAllowedType(ext) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("unsupported file type %q", ext),
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.Logger.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "failed to read upload",
			Error:   err.Error(),
		})
		return
	}
	defer src.Close()

	foreground, err := imaging.Decode(src)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{
			Success: false,
			Message: "uploaded file is not a decodable image",
			Error:   err.Error(),
		})
		return
	}

	jobID := middleware.RequestID(c)

	utils.Logger.Info("artwork uploaded",
		zap.String("job_id", jobID),
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size))

	result, err := h.pipeline.Process(c.Request.Context(), jobID, foreground)
	if err != nil {
		h.writeError(c, jobID, err)
		return
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, result.Image, imaging.PNG); err != nil {
		utils.Logger.Error("failed to encode composite",
			zap.String("job_id", jobID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "failed to encode composite",
			Error:   err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename=final_artwork.png`)
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// writeError maps pipeline failures onto HTTP statuses. Detection,
// catalog and margin problems are server-side asset/config trouble,
// not client errors.
func (h *ComposeHandler) writeError(c *gin.Context, jobID string, err error) {
	utils.Logger.Error("failed to process artwork",
		zap.String("job_id", jobID), zap.Error(err))

	status := http.StatusInternalServerError
	message := "failed to process artwork"

	var (
		detectionErr *service.DetectionError
		configErr    *service.ConfigurationError
		noMatchErr   *service.NoMatchError
		marginErr    *service.MarginError
	)

	switch {
	case errors.Is(err, service.ErrQueueFull), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
		message = "server busy, try again later"
	case errors.As(err, &detectionErr):
		message = "frame detection failed"
	case errors.As(err, &configErr):
		message = "mockup catalog misconfigured"
	case errors.As(err, &noMatchErr):
		message = "no suitable mockup"
	case errors.As(err, &marginErr):
		message = "margin exceeds frame size"
	}

	c.JSON(status, model.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

// extractFile pulls the multipart artwork out of the request. The two
// rejection messages are the plain-text 400 bodies clients rely on.
func extractFile(c *gin.Context) (*multipart.FileHeader, *service.InputError) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, &service.InputError{Message: "No file uploaded"}
	}
	if file.Filename == "" {
		return nil, &service.InputError{Message: "No file selected"}
	}
	return file, nil
}

func (h *ComposeHandler) isAllowedType(ext string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}
