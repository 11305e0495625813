package service

import (
	"errors"
	"fmt"

	"github.com/yassinebenk/bg-v2/model"
)

// ErrQueueFull is returned when a job waits longer than the configured
// queue timeout for a processing slot.
var ErrQueueFull = errors.New("processing queue is full")

// DetectionError means a mockup image has no bright region above the
// frame threshold. Mockup assets must be authored with a near-white
// blank interior; this error points at the offending file.
type DetectionError struct {
	Image string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("no frame contour found in image %s", e.Image)
}

// ConfigurationError means the catalog has no candidates for the
// requested orientation.
type ConfigurationError struct {
	Orientation model.Orientation
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no mockups available for orientation %q", e.Orientation)
}

// NoMatchError means a non-empty candidate list produced no usable
// match. Practically unreachable while selection is fail-fast, kept so
// the exhausted case stays distinguishable.
type NoMatchError struct {
	Orientation model.Orientation
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no suitable mockup found for orientation %q", e.Orientation)
}

// MarginError means the margin consumed the entire frame interior.
type MarginError struct {
	InnerWidth  int
	InnerHeight int
}

func (e *MarginError) Error() string {
	return fmt.Sprintf("margin too large compared to frame size (inner %dx%d)", e.InnerWidth, e.InnerHeight)
}

// InputError is a client-side problem with the uploaded file. The HTTP
// handler maps it to a 400 with the message as the plain-text body.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}
