// Package veo generates short video clips from reference images through the
// fal.run reference-to-video API.
package veo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/pkg/log"
)

const (
	defaultDuration    = "8s"
	defaultResolution  = "720p"
	defaultAspectRatio = "16:9"

	// Rendering is slow; the API blocks until the clip is ready.
	requestTimeout = 10 * time.Minute
)

type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	modelID string
}

func NewClient(baseURL, apiKey, modelID string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		modelID: modelID,
	}
}

type generatePayload struct {
	Prompt        string   `json:"prompt"`
	ImageURLs     []string `json:"image_urls"`
	Duration      string   `json:"duration"`
	Resolution    string   `json:"resolution"`
	AspectRatio   string   `json:"aspect_ratio"`
	GenerateAudio bool     `json:"generate_audio"`
	AutoFix       bool     `json:"auto_fix"`
}

// GenerateVideo renders a clip from the request's reference images. The call
// blocks until fal.run returns the finished video URL.
func (c *Client) GenerateVideo(ctx context.Context, req core.VideoRequest) (*core.VideoResult, error) {
	if len(req.ImageURLs) == 0 {
		return nil, fmt.Errorf("at least one reference image URL is required")
	}
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	payload := generatePayload{
		Prompt:        req.Prompt,
		ImageURLs:     req.ImageURLs,
		Duration:      req.Duration,
		Resolution:    req.Resolution,
		AspectRatio:   req.AspectRatio,
		GenerateAudio: req.GenerateAudio,
		AutoFix:       true,
	}
	if payload.Duration == "" {
		payload.Duration = defaultDuration
	}
	if payload.Resolution == "" {
		payload.Resolution = defaultResolution
	}
	if payload.AspectRatio == "" {
		payload.AspectRatio = defaultAspectRatio
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.modelID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Key "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", core.GridUserAgent)

	log.FromCtx(ctx).Info().
		Int("image_count", len(req.ImageURLs)).
		Str("resolution", payload.Resolution).
		Msg("requesting video generation")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("video generation request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		RequestID string `json:"request_id"`
		Video     struct {
			URL string `json:"url"`
		} `json:"video"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if result.Video.URL == "" {
		return nil, fmt.Errorf("no video url in response: %s", string(data))
	}

	return &core.VideoResult{
		VideoURL:  result.Video.URL,
		RequestID: result.RequestID,
	}, nil
}
