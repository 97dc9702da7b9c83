package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaJudge asks a local Ollama model for a single ACCEPT/REJECT verdict.
type OllamaJudge struct {
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

func NewOllamaJudge(model, baseURL string) *OllamaJudge {
	return &OllamaJudge{
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Judge submits the pair to the model and maps its reply onto a Decision.
// Anything that is not clearly an accept counts as a reject.
func (j *OllamaJudge) Judge(ctx context.Context, sourceText, translatedText, targetLanguage string) (Decision, error) {
	prompt := buildJudgePrompt(sourceText, translatedText, targetLanguage)

	reqBody := ollamaRequest{
		Model:  j.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal judge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", j.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("judge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("judge returned status %d", resp.StatusCode)
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode judge response: %w", err)
	}

	return parseVerdict(ollamaResp.Response), nil
}

func buildJudgePrompt(sourceText, translatedText, targetLanguage string) string {
	var sb strings.Builder
	sb.WriteString("You are a strict translation quality gate for literary fiction.\n")
	sb.WriteString(fmt.Sprintf("Decide whether the %s translation below is an acceptable rendering of the source.\n", targetLanguage))
	sb.WriteString("Judge fidelity, completeness, and fluency. Do not explain.\n\n")
	sb.WriteString("SOURCE:\n")
	sb.WriteString(sourceText)
	sb.WriteString("\n\nTRANSLATION:\n")
	sb.WriteString(translatedText)
	sb.WriteString("\n\nReply with exactly one word: ACCEPT or REJECT.")
	return sb.String()
}

func parseVerdict(response string) Decision {
	verdict := strings.ToUpper(strings.TrimSpace(response))
	if strings.HasPrefix(verdict, "ACCEPT") {
		return Accept
	}
	return Reject
}
