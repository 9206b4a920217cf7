package compliance

import (
	"context"
	"time"
)

// ImageAnalysis is the structured outcome of reading a delivery label photo
type ImageAnalysis struct {
	Success     bool           `json:"success"`
	Confidence  float64        `json:"confidence,omitempty"`
	Extracted   map[string]any `json:"extracted_data,omitempty"`
	Error       string         `json:"error,omitempty"`
	Duration    time.Duration  `json:"-"`
	ContentType string         `json:"-"`
}

// AsMap converts the analysis into the JSON document stored on a reception
func (a *ImageAnalysis) AsMap() map[string]any {
	out := map[string]any{"success": a.Success}
	if a.Success {
		out["confidence"] = a.Confidence
		out["extracted_data"] = a.Extracted
	} else {
		out["error"] = a.Error
	}
	return out
}

// ImageAnalyzer extracts reception fields from an image
type ImageAnalyzer interface {
	Analyze(ctx context.Context, image []byte) (*ImageAnalysis, error)
}

// ImageStorage persists reception images and returns their stored path
type ImageStorage interface {
	Save(ctx context.Context, key string, contentType string, data []byte) (string, error)
}
