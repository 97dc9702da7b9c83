// Package assembler builds the per-chapter translation context: the chapter
// with terminology pre-substituted, the flattened terminology map, and a
// bounded window of prior-chapter summaries. A ChapterContext is constructed
// fresh for each translation request and never mutated afterwards.
package assembler

import (
	"context"
	"fmt"

	"noveltran/internal"
	"noveltran/internal/glossary"
)

// Storage is the read-only slice of the storage collaborator the assembler
// needs. ListChapters must return chapters in narrative order; the history
// window depends on it.
type Storage interface {
	GetChapter(ctx context.Context, projectID, chapterID string) (*internal.Chapter, error)
	ListChapters(ctx context.Context, projectID string) ([]internal.Chapter, error)
	ListTerminology(ctx context.Context, projectID string) ([]internal.TerminologyEntry, error)
}

// ChapterSummary pairs a prior chapter with its stored summary.
type ChapterSummary struct {
	ChapterID string `json:"chapter_id"`
	Summary   string `json:"summary"`
}

// ChapterContext is the exact payload a translation call consumes.
type ChapterContext struct {
	ProjectID string
	ChapterID string
	Chapter   *internal.Chapter

	// Chapter content after terminology substitution.
	NormalizedContent string

	// Flattened source string → approved translation, and the entry subset
	// it was built from.
	TerminologyMap     map[string]string
	TerminologyEntries []internal.TerminologyEntry

	// Oldest first, at most the history limit given to Assemble.
	PreviousSummaries []ChapterSummary
}

// Assemble loads the chapter, resolves its applicable terminology, and
// produces the translation context. It reads storage only; nothing is
// written. The chapter's TerminologyKeys restrict the entry set (empty
// means all project entries apply).
func Assemble(ctx context.Context, st Storage, projectID, chapterID string, historyLimit int) (*ChapterContext, error) {
	chapter, err := st.GetChapter(ctx, projectID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("assemble %s/%s: %w", projectID, chapterID, err)
	}

	allEntries, err := st.ListTerminology(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("assemble %s/%s: list terminology: %w", projectID, chapterID, err)
	}
	entries := glossary.Select(allEntries, chapter.TerminologyKeys)

	termMap, err := glossary.BuildMap(entries)
	if err != nil {
		return nil, fmt.Errorf("assemble %s/%s: %w", projectID, chapterID, err)
	}

	chapters, err := st.ListChapters(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("assemble %s/%s: list chapters: %w", projectID, chapterID, err)
	}
	summaries, err := CollectPreviousSummaries(chapters, chapterID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("assemble %s/%s: %w", projectID, chapterID, err)
	}

	return &ChapterContext{
		ProjectID:          projectID,
		ChapterID:          chapterID,
		Chapter:            chapter,
		NormalizedContent:  glossary.Replace(chapter.Content, entries),
		TerminologyMap:     termMap,
		TerminologyEntries: entries,
		PreviousSummaries:  summaries,
	}, nil
}

// CollectPreviousSummaries returns the summaries of up to historyLimit
// chapters immediately preceding target, oldest first. The target's position
// is found by ChapterID identity within the ordered chapter list, never by
// numeric index. A target absent from its own project's list means the
// chapter store disagrees with itself.
func CollectPreviousSummaries(chapters []internal.Chapter, targetChapterID string, historyLimit int) ([]ChapterSummary, error) {
	position := -1
	for i, chapter := range chapters {
		if chapter.ChapterID == targetChapterID {
			position = i
			break
		}
	}
	if position < 0 {
		return nil, fmt.Errorf("chapter %q missing from its project's chapter list: %w",
			targetChapterID, internal.ErrDataIntegrity)
	}

	if historyLimit < 0 {
		historyLimit = 0
	}
	start := position - historyLimit
	if start < 0 {
		start = 0
	}

	var summaries []ChapterSummary
	for _, chapter := range chapters[start:position] {
		summaries = append(summaries, ChapterSummary{
			ChapterID: chapter.ChapterID,
			Summary:   chapter.Summary,
		})
	}
	return summaries, nil
}
