package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"noveltran/internal"
	"noveltran/internal/assembler"
)

func testContext() *assembler.ChapterContext {
	return &assembler.ChapterContext{
		ProjectID: "p1",
		ChapterID: "ch2",
		Chapter: &internal.Chapter{
			ProjectID: "p1",
			ChapterID: "ch2",
			Title:     "第二章",
			Content:   "柳说道。柳点头。",
		},
		NormalizedContent: "Liu说道。Liu点头。",
		TerminologyMap:    map[string]string{"柳": "Liu"},
		TerminologyEntries: []internal.TerminologyEntry{
			{EntryID: "g1", SourceTerm: "柳", ApprovedTranslation: "Liu", Variants: []string{"柳姑娘"}},
		},
		PreviousSummaries: []assembler.ChapterSummary{
			{ChapterID: "ch1", Summary: "Liu arrives at the sect."},
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testContext())

	for _, want := range []string{
		"ch1: Liu arrives at the sect.",
		"柳 -> Liu (aliases: 柳姑娘)",
		"Liu说道。Liu点头。",
		"第二章",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_EmptyHistory(t *testing.T) {
	chctx := testContext()
	chctx.PreviousSummaries = nil
	chctx.TerminologyEntries = nil

	prompt := BuildPrompt(chctx)
	if !strings.Contains(prompt, "(none)") {
		t.Error("expected empty-section markers")
	}
}

func TestBuildSystemPrompt_Defaults(t *testing.T) {
	prompt := BuildSystemPrompt(Options{})
	if !strings.Contains(prompt, "English") || !strings.Contains(prompt, "fiction") {
		t.Errorf("expected defaults in prompt:\n%s", prompt)
	}

	prompt = BuildSystemPrompt(Options{NovelType: "xianxia", TargetLanguage: "Ukrainian"})
	if !strings.Contains(prompt, "xianxia") || !strings.Contains(prompt, "Ukrainian") {
		t.Errorf("expected overrides in prompt:\n%s", prompt)
	}
}

func TestOllamaTranslator(t *testing.T) {
	var gotModel, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]string{
			"response": "<think>translating</think>Liu spoke. Liu nodded.",
		})
	}))
	defer server.Close()

	tr := NewOllamaTranslator(server.URL, "qwen2.5:14b")
	got, err := tr.Translate(context.Background(), testContext(), Options{Model: "llama3.2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Liu spoke. Liu nodded." {
		t.Errorf("got %q", got)
	}
	if gotModel != "llama3.2" {
		t.Errorf("expected per-request model override, got %q", gotModel)
	}
	if !strings.Contains(gotPrompt, "Liu说道。Liu点头。") {
		t.Error("prompt missing chapter content")
	}
}

func TestOllamaTranslator_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	tr := NewOllamaTranslator(server.URL, "")
	if err := tr.IsAvailable(context.Background()); err != nil {
		t.Errorf("expected available backend, got %v", err)
	}
}

func TestOllamaTranslator_IsAvailable_Down(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	tr := NewOllamaTranslator(server.URL, "")
	if err := tr.IsAvailable(context.Background()); err == nil {
		t.Error("expected error from unavailable backend")
	}
}

func TestOllamaTranslator_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	tr := NewOllamaTranslator(server.URL, "")
	if _, err := tr.Translate(context.Background(), testContext(), Options{}); err == nil {
		t.Error("expected error on status 500")
	}
}

func TestOpenAITranslator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `"Liu spoke. Liu nodded."`}},
			},
		})
	}))
	defer server.Close()

	tr := NewOpenAITranslator("sk-test", server.URL, "")
	got, err := tr.Translate(context.Background(), testContext(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Liu spoke. Liu nodded." {
		t.Errorf("got %q", got)
	}
}

func TestOpenAITranslator_MissingKey(t *testing.T) {
	tr := NewOpenAITranslator("", "", "")
	if _, err := tr.Translate(context.Background(), testContext(), Options{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestOpenAITranslator_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	tr := NewOpenAITranslator("sk-test", server.URL, "")
	if _, err := tr.Translate(context.Background(), testContext(), Options{}); err == nil {
		t.Error("expected error on empty choices")
	}
}

func TestFallbackTranslator(t *testing.T) {
	tr := NewFallbackTranslator()
	if tr.Name() != "fallback" {
		t.Errorf("unexpected name %q", tr.Name())
	}
	got, err := tr.Translate(context.Background(), testContext(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Liu说道。Liu点头。" {
		t.Errorf("expected terminology-substituted content, got %q", got)
	}
}
