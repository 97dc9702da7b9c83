package refiner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRefinerInterface(t *testing.T) {
	var _ Refiner = (*OllamaRefiner)(nil)
}

func TestOllamaRefiner_Refine(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "llama3.2" {
			t.Errorf("expected model 'llama3.2', got %q", req.Model)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(ollamaResponse{Response: "Liu spoke softly, then nodded."})
	}))
	defer server.Close()

	r := NewOllamaRefiner("llama3.2", server.URL)
	result, err := r.Refine(context.Background(), "English",
		"柳说道。柳点头。", "Liu spoke. Liu nodded.", map[string]string{"柳": "Liu"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Liu spoke softly, then nodded." {
		t.Errorf("got %q", result)
	}
	if !strings.Contains(gotPrompt, "柳 = Liu") {
		t.Error("prompt missing locked terminology")
	}
	if !strings.Contains(gotPrompt, "Liu spoke. Liu nodded.") {
		t.Error("prompt missing draft text")
	}
}

func TestOllamaRefiner_EmptyResponseKeepsDraft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Response: ""})
	}))
	defer server.Close()

	r := NewOllamaRefiner("llama3.2", server.URL)
	result, err := r.Refine(context.Background(), "English", "柳说道。", "Liu spoke.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Liu spoke." {
		t.Errorf("expected draft back when response empty, got %q", result)
	}
}

func TestOllamaRefiner_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := NewOllamaRefiner("llama3.2", server.URL)
	if _, err := r.Refine(context.Background(), "English", "柳", "Liu", nil); err == nil {
		t.Error("expected error on status 503")
	}
}
