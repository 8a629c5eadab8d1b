package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gridscope/gridscope/pkg/retry"
)

// OpenAICompatible is the fallback provider for any chat-completions API.
type OpenAICompatible struct {
	baseProvider
	retrier *retry.Retrier
}

func NewOpenAICompatible(baseURL, apiKey, model string) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
		retrier:      retry.NewDefaultRetrier(),
	}
}

func (o *OpenAICompatible) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": o.model,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	return o.chat(ctx, payload)
}

func (o *OpenAICompatible) GenerateWithImage(ctx context.Context, prompt, imageB64, mimeType string) (string, error) {
	payload := map[string]any{
		"model": o.model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": fmt.Sprintf("data:%s;base64,%s", mimeType, imageB64),
						},
					},
				},
			},
		},
	}
	return o.chat(ctx, payload)
}

func (o *OpenAICompatible) chat(ctx context.Context, payload map[string]any) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + o.apiKey}

	var text string
	err := o.retrier.Do(ctx, func() error {
		resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, headers)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		text, err = parseOpenAIResponse(resp)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func parseOpenAIResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message.Content, nil
}
