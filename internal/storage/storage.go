// Package storage persists projects, chapters, terminology, and translation
// results. Two backends are provided: an embedded SQLite database and a
// Directus headless CMS reached over its REST API.
package storage

import (
	"context"

	"noveltran/internal"
)

// Store is the persistence surface the pipeline depends on. Lookups that find
// nothing return an error wrapping internal.ErrNotFound. ListChapters returns
// chapters in narrative order.
type Store interface {
	CreateProject(ctx context.Context, project *internal.Project) error
	GetProject(ctx context.Context, projectID string) (*internal.Project, error)
	ListProjects(ctx context.Context) ([]internal.Project, error)

	CreateChapter(ctx context.Context, chapter *internal.Chapter) error
	GetChapter(ctx context.Context, projectID, chapterID string) (*internal.Chapter, error)
	ListChapters(ctx context.Context, projectID string) ([]internal.Chapter, error)
	UpdateChapterSummary(ctx context.Context, projectID, chapterID, summary string) error

	UpsertTerm(ctx context.Context, entry *internal.TerminologyEntry) error
	ListTerminology(ctx context.Context, projectID string) ([]internal.TerminologyEntry, error)
	DeleteTerm(ctx context.Context, projectID, entryID string) error

	SaveTranslation(ctx context.Context, tr *internal.Translation) error
	GetTranslation(ctx context.Context, projectID, chapterID string, stage internal.TranslationStage) (*internal.Translation, error)
	ListTranslations(ctx context.Context, projectID, chapterID string) ([]internal.Translation, error)

	Close() error
}
