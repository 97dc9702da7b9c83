package translator

import (
	"fmt"
	"strings"

	"noveltran/internal/assembler"
)

// BuildSystemPrompt returns the standing instructions for LLM-backed
// translation of a chapter.
func BuildSystemPrompt(opts Options) string {
	novelType := opts.NovelType
	if novelType == "" {
		novelType = "fiction"
	}
	target := opts.TargetLanguage
	if target == "" {
		target = "English"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"You are an expert literary translator producing smooth, idiomatic %s translations of %s novels for native adult readers.\n", target, novelType))
	sb.WriteString("- Preserve the tone, pacing, and genre conventions of the original; the result should read as if written in the target language.\n")
	sb.WriteString("- Use natural, colloquial dialogue and the past tense throughout.\n")
	sb.WriteString("- Names and terms already rendered in the target language in the text are approved translations: keep them exactly as written, never rephrase them.\n")
	sb.WriteString("- Keep names, places, titles, and technical terms consistent with the terminology table.\n")
	sb.WriteString("- Output only the translated text. No notes, no explanations; begin with the first translated word and preserve paragraph structure.")
	return sb.String()
}

// BuildPrompt renders the user payload: rolling summary history, the
// terminology table, and the normalized chapter body.
func BuildPrompt(chctx *assembler.ChapterContext) string {
	var sb strings.Builder

	sb.WriteString("## Chapter\n")
	sb.WriteString(fmt.Sprintf("Project %s, chapter %s", chctx.ProjectID, chctx.ChapterID))
	if chctx.Chapter != nil && chctx.Chapter.Title != "" {
		sb.WriteString(fmt.Sprintf(": %s", chctx.Chapter.Title))
	}
	sb.WriteString("\n\n## Previous chapters\n")
	if len(chctx.PreviousSummaries) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, prev := range chctx.PreviousSummaries {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", prev.ChapterID, prev.Summary))
	}

	sb.WriteString("\n## Terminology (binding)\n")
	if len(chctx.TerminologyEntries) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, entry := range chctx.TerminologyEntries {
		aliases := "none"
		if len(entry.Variants) > 0 {
			aliases = strings.Join(entry.Variants, ", ")
		}
		sb.WriteString(fmt.Sprintf("- %s -> %s (aliases: %s)\n",
			entry.SourceTerm, entry.ApprovedTranslation, aliases))
	}

	sb.WriteString("\n## Text to translate (terminology pre-substituted)\n")
	sb.WriteString(chctx.NormalizedContent)
	return sb.String()
}
