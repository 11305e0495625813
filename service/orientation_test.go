package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yassinebenk/bg-v2/config"
	"github.com/yassinebenk/bg-v2/model"
)

func TestOrientationClassifier_Classify(t *testing.T) {
	t.Parallel()

	classifier := NewOrientationClassifier(&config.RenderConfig{PPI: 96})

	tests := []struct {
		name     string
		widthPx  int
		heightPx int
		want     model.Orientation
	}{
		{name: "square classifies vertical", widthPx: 100, heightPx: 100, want: model.OrientationVertical},
		{name: "wide classifies horizontal", widthPx: 200, heightPx: 100, want: model.OrientationHorizontal},
		{name: "tall classifies vertical", widthPx: 100, heightPx: 200, want: model.OrientationVertical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.widthPx, tt.heightPx))
		})
	}
}

func TestOrientationClassifier_Inches(t *testing.T) {
	t.Parallel()

	classifier := NewOrientationClassifier(&config.RenderConfig{PPI: 96})
	assert.InDelta(t, 1.0, classifier.Inches(96), 1e-9)
	assert.InDelta(t, 2.5, classifier.Inches(240), 1e-9)
}
