package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"noveltran/internal"
	"noveltran/internal/storage"
)

// seedProject creates a sqlite database with one project, one chapter, and
// one terminology entry, and returns its path.
func seedProject(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "noveltran.db")

	st, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.CreateProject(ctx, &internal.Project{
		ID: "p1", Name: "test novel", SourceLanguage: "zh", TargetLanguage: "en",
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := st.CreateChapter(ctx, &internal.Chapter{
		ProjectID: "p1", ChapterID: "ch1", Index: 1, Title: "第一章", Content: "柳说道。柳点头。",
	}); err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	if err := st.UpsertTerm(ctx, &internal.TerminologyEntry{
		EntryID: "g1", ProjectID: "p1", SourceTerm: "柳", ApprovedTranslation: "Liu", Kind: internal.KindCharacter,
	}); err != nil {
		t.Fatalf("upsert term: %v", err)
	}
	return dbPath
}

func runCLI(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestChapterSetSummary(t *testing.T) {
	dbPath := seedProject(t)

	err := runCLI("--db", dbPath, "chapter", "set-summary", "-p", "p1", "-c", "ch1",
		"Liu arrives at the sect.")
	if err != nil {
		t.Fatalf("set-summary: %v", err)
	}

	st, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer st.Close()

	ch, err := st.GetChapter(context.Background(), "p1", "ch1")
	if err != nil {
		t.Fatalf("get chapter: %v", err)
	}
	if ch.Summary != "Liu arrives at the sect." {
		t.Errorf("summary not stored, got %q", ch.Summary)
	}
}

func TestChapterSetSummary_MissingChapter(t *testing.T) {
	dbPath := seedProject(t)

	err := runCLI("--db", dbPath, "chapter", "set-summary", "-p", "p1", "-c", "ghost", "x")
	if !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTranslate_JudgeRejectFailsCheck(t *testing.T) {
	dbPath := seedProject(t)
	outPath := filepath.Join(t.TempDir(), "report.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "REJECT"})
	}))
	defer server.Close()

	err := runCLI("--db", dbPath, "translate", "-p", "p1", "-c", "ch1",
		"--service", "fallback", "--judge", "--judge-url", server.URL, "--output", outPath)
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("expected errCheckFailed on judge reject, got %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report translateReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.OverallOK || report.JudgeDecision == nil || *report.JudgeDecision != "reject" {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestTranslate_PassingCheck(t *testing.T) {
	dbPath := seedProject(t)
	outPath := filepath.Join(t.TempDir(), "report.json")

	err := runCLI("--db", dbPath, "translate", "-p", "p1", "-c", "ch1",
		"--service", "fallback", "--judge=false", "--output", outPath)
	if err != nil {
		t.Fatalf("expected clean run, got %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report translateReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !report.OverallOK || !report.TerminologyOK || report.JudgeDecision != nil {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestTranslate_OllamaPreflight(t *testing.T) {
	dbPath := seedProject(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	err := runCLI("--db", dbPath, "translate", "-p", "p1", "-c", "ch1",
		"--service", "ollama", "--ollama-url", server.URL, "--judge=false")
	if err == nil {
		t.Fatal("expected pre-flight error for unreachable backend")
	}
	if errors.Is(err, errCheckFailed) {
		t.Error("backend failure must not be reported as a failed check")
	}
}

func TestTranslationsShow(t *testing.T) {
	dbPath := seedProject(t)

	st, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.SaveTranslation(context.Background(), &internal.Translation{
		ProjectID: "p1", ChapterID: "ch1", Stage: internal.StageTranslated,
		Content: "Liu spoke. Liu nodded.", Validation: map[string]string{"terminology_ok": "true"},
	}); err != nil {
		t.Fatalf("save translation: %v", err)
	}
	st.Close()

	if err := runCLI("--db", dbPath, "translations", "show", "-p", "p1", "-c", "ch1"); err != nil {
		t.Fatalf("list stages: %v", err)
	}
	if err := runCLI("--db", dbPath, "translations", "show", "-p", "p1", "-c", "ch1",
		"--stage", "translated"); err != nil {
		t.Fatalf("show stage: %v", err)
	}

	err = runCLI("--db", dbPath, "translations", "show", "-p", "p1", "-c", "ch1",
		"--stage", "optimized")
	if !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("expected ErrNotFound for absent stage, got %v", err)
	}
}
