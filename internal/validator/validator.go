// Package validator checks a produced translation for terminology
// consistency against the original source text, and optionally folds in the
// verdict of an external judge. A failing check is a normal, fully-described
// Report, never an error.
package validator

import (
	"context"
	"strings"

	"noveltran/internal"
	"noveltran/internal/judge"
)

// Issue records one terminology entry whose approved translation appears
// fewer times in the output than the term (canonical plus variants) appears
// in the source.
type Issue struct {
	EntryID             string   `json:"entry_id"`
	SourceTerm          string   `json:"source_term"`
	ApprovedTranslation string   `json:"approved_translation"`
	RequiredCount       int      `json:"required_count"`
	TranslatedCount     int      `json:"translated_count"`
	Variants            []string `json:"variants"`
}

// Report is the combined consistency verdict for one chapter. JudgeDecision
// is empty when no judge was consulted.
type Report struct {
	TerminologyOK bool           `json:"terminology_ok"`
	Issues        []Issue        `json:"terminology_issues"`
	JudgeDecision judge.Decision `json:"judge_decision,omitempty"`
}

// OverallOK is derived purely from the two stored fields: the term counts
// must pass, and the judge (when consulted) must accept.
func (r Report) OverallOK() bool {
	if !r.TerminologyOK {
		return false
	}
	return r.JudgeDecision == "" || r.JudgeDecision == judge.Accept
}

// CheckTermCounts compares per-entry occurrence counts between the source
// and the translated text. The required count sums the canonical term and
// every variant in the source; the translated count is how often the
// approved translation appears in the output. More occurrences than required
// is tolerated (paraphrase may elaborate); fewer is an issue: a term that
// appeared in the source must not silently vanish.
func CheckTermCounts(sourceText, translatedText string, entries []internal.TerminologyEntry) Report {
	var issues []Issue
	for _, entry := range entries {
		required := countAny(sourceText, entry.SourceTerm, entry.Variants)
		translated := 0
		if entry.ApprovedTranslation != "" {
			translated = strings.Count(translatedText, entry.ApprovedTranslation)
		}
		if required > translated {
			issues = append(issues, Issue{
				EntryID:             entry.EntryID,
				SourceTerm:          entry.SourceTerm,
				ApprovedTranslation: entry.ApprovedTranslation,
				RequiredCount:       required,
				TranslatedCount:     translated,
				Variants:            append([]string(nil), entry.Variants...),
			})
		}
	}
	return Report{
		TerminologyOK: len(issues) == 0,
		Issues:        issues,
	}
}

// Evaluate always runs the term-count check and, when a judge is supplied,
// asks it for a holistic verdict recorded verbatim on the report. The
// validator never raises on a failing check; the only error paths are the
// judge's own failures, which are the caller's concern.
func Evaluate(ctx context.Context, sourceText, translatedText, targetLanguage string, entries []internal.TerminologyEntry, j judge.Judge) (Report, error) {
	report := CheckTermCounts(sourceText, translatedText, entries)
	if j == nil {
		return report, nil
	}

	decision, err := j.Judge(ctx, sourceText, translatedText, targetLanguage)
	if err != nil {
		return report, err
	}
	report.JudgeDecision = decision
	return report, nil
}

func countAny(text, term string, variants []string) int {
	total := 0
	if term != "" {
		total += strings.Count(text, term)
	}
	for _, variant := range variants {
		if variant == "" {
			continue
		}
		total += strings.Count(text, variant)
	}
	return total
}
