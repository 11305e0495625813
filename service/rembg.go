package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/yassinebenk/bg-v2/config"
)

// Remover is the external background-removal collaborator. It accepts
// an artwork and returns it with an alpha channel marking the subject.
type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// PassthroughRemover returns the input unchanged. Used when no
// endpoint is configured and by the render CLI, whose input contract
// is an already-transparent PNG.
type PassthroughRemover struct{}

func NewPassthroughRemover() *PassthroughRemover {
	return &PassthroughRemover{}
}

func (r *PassthroughRemover) Remove(_ context.Context, img image.Image) (image.Image, error) {
	return img, nil
}

// HTTPRemover delegates background removal to a model-serving endpoint
// via a multipart PNG upload.
type HTTPRemover struct {
	endpoint     string
	maxDimension int
	client       *http.Client
}

func NewHTTPRemover(cfg *config.RembgConfig) *HTTPRemover {
	return &HTTPRemover{
		endpoint:     cfg.Endpoint,
		maxDimension: cfg.MaxDimension,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (r *HTTPRemover) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	img = r.capSize(img)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "artwork.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := imaging.Encode(part, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode foreground: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call rembg endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rembg endpoint returned %d: %s", resp.StatusCode, msg)
	}

	result, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode rembg response: %w", err)
	}

	return result, nil
}

// capSize downscales the image so its longest edge does not exceed the
// configured limit before shipping it to the inference endpoint.
func (r *HTTPRemover) capSize(img image.Image) image.Image {
	if r.maxDimension <= 0 {
		return img
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= r.maxDimension {
		return img
	}

	scale := float64(r.maxDimension) / float64(longest)
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)

	return resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
}
