package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gridscope/gridscope/pkg/retry"
)

// Gemini calls the generateContent REST API directly. A separate vision
// model can be configured for frame analysis.
type Gemini struct {
	baseProvider
	visionModel string
	retrier     *retry.Retrier
}

func NewGemini(baseURL, apiKey, model, visionModel string) *Gemini {
	if visionModel == "" {
		visionModel = model
	}
	return &Gemini{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
		visionModel:  visionModel,
		retrier:      retry.NewDefaultRetrier(),
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	return g.generate(ctx, g.model, payload)
}

func (g *Gemini) GenerateWithImage(ctx context.Context, prompt, imageB64, mimeType string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{Text: prompt},
			{InlineData: &geminiInlineData{MimeType: mimeType, Data: imageB64}},
		}}},
	}
	return g.generate(ctx, g.visionModel, payload)
}

func (g *Gemini) generate(ctx context.Context, model string, payload geminiRequest) (string, error) {
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", model)
	headers := map[string]string{"x-goog-api-key": g.apiKey}

	var text string
	err := g.retrier.Do(ctx, func() error {
		resp, err := g.doRequest(ctx, http.MethodPost, path, payload, headers)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		text, err = parseGeminiResponse(resp)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func parseGeminiResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty candidates: %s", string(data))
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
