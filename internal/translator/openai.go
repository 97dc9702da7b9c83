package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"noveltran/internal/assembler"
	"noveltran/internal/postprocess"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAITranslator speaks the OpenAI-compatible chat completions protocol,
// which also covers OpenRouter, DeepSeek, and most self-hosted gateways.
type OpenAITranslator struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAITranslator(apiKey, baseURL, model string) *OpenAITranslator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAITranslator{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 300 * time.Second},
	}
}

func (s *OpenAITranslator) Name() string {
	return "openai"
}

func (s *OpenAITranslator) Translate(ctx context.Context, chctx *assembler.ChapterContext, opts Options) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key required")
	}

	model := opts.Model
	if model == "" {
		model = s.model
	}

	chatReq := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": BuildSystemPrompt(opts)},
			{"role": "user", "content": BuildPrompt(chctx)},
		},
	}

	jsonData, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", s.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("API returned status %d: %v", resp.StatusCode, errResp)
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	text := postprocess.Clean(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from API")
	}
	return text, nil
}
