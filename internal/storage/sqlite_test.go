package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"noveltran/internal"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Projects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project := &internal.Project{
		Name:           "末世异神",
		Author:         "某作者",
		Genre:          "xianxia",
		SourceLanguage: "zh",
		TargetLanguage: "en",
		Metadata:       map[string]string{"volumes": "3"},
	}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("create: %v", err)
	}
	if project.ID == "" {
		t.Fatal("expected generated project id")
	}

	got, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "末世异神" || got.TargetLanguage != "en" {
		t.Errorf("unexpected project %+v", got)
	}
	if got.Metadata["volumes"] != "3" {
		t.Errorf("metadata lost: %+v", got.Metadata)
	}

	projects, err := store.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 {
		t.Errorf("expected 1 project, got %d", len(projects))
	}
}

func TestSQLiteStore_GetProject_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetProject(context.Background(), "missing")
	if !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Chapters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Insert out of narrative order; listing must sort by index.
	for _, ch := range []internal.Chapter{
		{ProjectID: "p1", ChapterID: "ch3", Index: 3, Title: "下山", Content: "c3"},
		{ProjectID: "p1", ChapterID: "ch1", Index: 1, Title: "初入宗门", Content: "c1",
			Characters: []string{"柳"}, TerminologyKeys: []string{"g1"}},
		{ProjectID: "p1", ChapterID: "ch2", Index: 2, Title: "拜师", Content: "c2"},
		{ProjectID: "p2", ChapterID: "other", Index: 1, Content: "x"},
	} {
		ch := ch
		if err := store.CreateChapter(ctx, &ch); err != nil {
			t.Fatalf("create chapter %s: %v", ch.ChapterID, err)
		}
	}

	chapters, err := store.ListChapters(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}
	for i, want := range []string{"ch1", "ch2", "ch3"} {
		if chapters[i].ChapterID != want {
			t.Errorf("position %d: got %s, want %s", i, chapters[i].ChapterID, want)
		}
	}
	if chapters[0].TerminologyKeys[0] != "g1" {
		t.Errorf("terminology keys lost: %+v", chapters[0])
	}

	got, err := store.GetChapter(ctx, "p1", "ch2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "拜师" {
		t.Errorf("unexpected chapter %+v", got)
	}

	if _, err := store.GetChapter(ctx, "p1", "nope"); !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_UpdateChapterSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ch := &internal.Chapter{ProjectID: "p1", ChapterID: "ch1", Index: 1, Content: "text"}
	if err := store.CreateChapter(ctx, ch); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.UpdateChapterSummary(ctx, "p1", "ch1", "Liu arrives."); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := store.GetChapter(ctx, "p1", "ch1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Summary != "Liu arrives." {
		t.Errorf("summary not updated: %q", got.Summary)
	}

	err = store.UpdateChapterSummary(ctx, "p1", "missing", "x")
	if !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Terminology(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := &internal.TerminologyEntry{
		ProjectID:           "p1",
		SourceTerm:          "玄天宗",
		ApprovedTranslation: "Mystic Heaven Sect",
		Variants:            []string{"玄天"},
		Kind:                internal.KindTerm,
	}
	if err := store.UpsertTerm(ctx, entry); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if entry.EntryID == "" {
		t.Fatal("expected generated entry id")
	}

	// Same id, revised translation.
	entry.ApprovedTranslation = "Profound Sky Sect"
	if err := store.UpsertTerm(ctx, entry); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	entries, err := store.ListTerminology(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after upsert, got %d", len(entries))
	}
	if entries[0].ApprovedTranslation != "Profound Sky Sect" {
		t.Errorf("upsert did not replace: %+v", entries[0])
	}
	if len(entries[0].Variants) != 1 || entries[0].Variants[0] != "玄天" {
		t.Errorf("variants lost: %+v", entries[0].Variants)
	}
	if entries[0].Kind != internal.KindTerm {
		t.Errorf("kind lost: %q", entries[0].Kind)
	}

	if err := store.DeleteTerm(ctx, "p1", entry.EntryID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteTerm(ctx, "p1", entry.EntryID); !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSQLiteStore_Translations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tr := &internal.Translation{
		ProjectID: "p1",
		ChapterID: "ch1",
		Stage:     internal.StageTranslated,
		Content:   "Liu spoke.",
		Validation: map[string]string{
			"terminology_ok": "true",
		},
	}
	if err := store.SaveTranslation(ctx, tr); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetTranslation(ctx, "p1", "ch1", internal.StageTranslated)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != "Liu spoke." || got.Validation["terminology_ok"] != "true" {
		t.Errorf("unexpected translation %+v", got)
	}

	// Saving the same stage again replaces the content.
	tr2 := &internal.Translation{
		ProjectID: "p1",
		ChapterID: "ch1",
		Stage:     internal.StageTranslated,
		Content:   "Liu spoke softly.",
	}
	if err := store.SaveTranslation(ctx, tr2); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err = store.GetTranslation(ctx, "p1", "ch1", internal.StageTranslated)
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if got.Content != "Liu spoke softly." {
		t.Errorf("expected replaced content, got %q", got.Content)
	}

	// A second stage is a separate row.
	tr3 := &internal.Translation{
		ProjectID: "p1",
		ChapterID: "ch1",
		Stage:     internal.StageOptimized,
		Content:   "Liu spoke, voice low.",
	}
	if err := store.SaveTranslation(ctx, tr3); err != nil {
		t.Fatalf("optimized save: %v", err)
	}
	all, err := store.ListTranslations(ctx, "p1", "ch1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 stages, got %d", len(all))
	}

	_, err = store.GetTranslation(ctx, "p1", "ch1", internal.StageHumanReviewed)
	if !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_TermNormalization(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Decomposed "é" (e + combining acute) must collide with the
	// precomposed form on the unique constraint after NFC.
	a := &internal.TerminologyEntry{ProjectID: "p1", SourceTerm: "Caf\u00e9", ApprovedTranslation: "Cafe"}
	b := &internal.TerminologyEntry{ProjectID: "p1", SourceTerm: "Cafe\u0301", ApprovedTranslation: "Coffeehouse"}

	if err := store.UpsertTerm(ctx, a); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := store.UpsertTerm(ctx, b); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	entries, err := store.ListTerminology(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected canonical forms to collapse to 1 entry, got %d", len(entries))
	}
}
