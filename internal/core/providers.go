package core

import "context"

// AIProvider generates text from a prompt, optionally grounded on an image.
type AIProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateWithImage(ctx context.Context, prompt, imageB64, mimeType string) (string, error)
}

// VideoGenerator turns reference images plus a prompt into a rendered clip.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, req VideoRequest) (*VideoResult, error)
}

type VideoRequest struct {
	Prompt        string   `json:"prompt"`
	ImageURLs     []string `json:"image_urls"`
	Duration      string   `json:"duration"`
	Resolution    string   `json:"resolution"`
	AspectRatio   string   `json:"aspect_ratio"`
	GenerateAudio bool     `json:"generate_audio"`
}

type VideoResult struct {
	VideoURL  string `json:"video_url"`
	RequestID string `json:"request_id,omitempty"`
}
