package model

// Orientation of an artwork, derived from its physical dimensions.
type Orientation string

const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// Frame is the detected blank interior of a mockup, in pixel
// coordinates of that mockup image, origin top-left.
type Frame struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Ratio returns width/height of the frame interior.
func (f Frame) Ratio() float64 {
	return float64(f.Width) / float64(f.Height)
}

// MockupMatch pairs a chosen mockup with its detected frame.
type MockupMatch struct {
	Path  string `json:"mockup_path"`
	Frame Frame  `json:"frame"`
}

// Catalog maps an orientation to its ordered mockup candidates.
// Built once at startup and never mutated afterwards; earlier entries
// win ratio ties during selection.
type Catalog map[Orientation][]string

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
