package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"noveltran/internal/postprocess"
)

// OllamaRefiner uses a local Ollama model as a literary editor.
type OllamaRefiner struct {
	model   string
	baseURL string
	client  *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func NewOllamaRefiner(model, baseURL string) *OllamaRefiner {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaRefiner{
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 300 * time.Second},
	}
}

// Refine sends the draft to the LLM with a literary-editor prompt. An empty
// model response means the draft stands.
func (r *OllamaRefiner) Refine(ctx context.Context, targetLang, sourceText, draftText string, terminology map[string]string) (string, error) {
	reqBody := ollamaRequest{
		Model:  r.model,
		Prompt: buildRefinementPrompt(targetLang, sourceText, draftText, terminology),
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal refinement request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", r.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create refinement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("refinement request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refiner returned status %d", resp.StatusCode)
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode refinement response: %w", err)
	}

	refined := postprocess.Clean(ollamaResp.Response)
	if refined == "" {
		return draftText, nil
	}
	return refined, nil
}

func buildRefinementPrompt(targetLang, sourceText, draftText string, terminology map[string]string) string {
	var terms strings.Builder
	if len(terminology) > 0 {
		keys := make([]string, 0, len(terminology))
		for k := range terminology {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		terms.WriteString("\nLOCKED TERMINOLOGY (keep these renderings exactly as written):\n")
		for _, k := range keys {
			terms.WriteString(fmt.Sprintf("- %s = %s\n", k, terminology[k]))
		}
	}

	return fmt.Sprintf(`You are an elite %s literary editor and prose stylist.

You will receive a DRAFT %s translation of a novel chapter. Rewrite it with
natural flow, idiomatic expression, and pleasant rhythm while preserving all
factual content and meaning.
%s
ORIGINAL:
%s

DRAFT TRANSLATION:
%s

If the draft is already good, return it unchanged. Output ONLY the refined
translation in %s, with no explanation.`,
		targetLang, targetLang,
		terms.String(),
		sourceText, draftText,
		targetLang,
	)
}
