// Package glossary builds the flattened terminology lookup for a project and
// substitutes approved translations into source text. Substitution is
// literal, case-sensitive, and longest-source-first so that a term embedded
// in a longer term (a nickname inside a title) is never fragmented by an
// earlier, shorter replacement.
package glossary

import (
	"fmt"
	"sort"
	"strings"

	"noveltran/internal"
)

// Select returns the entries whose EntryID or canonical SourceTerm appears
// in required. An empty required list selects everything.
func Select(entries []internal.TerminologyEntry, required []string) []internal.TerminologyEntry {
	if len(required) == 0 {
		return entries
	}
	wanted := make(map[string]struct{}, len(required))
	for _, key := range required {
		wanted[key] = struct{}{}
	}
	var selected []internal.TerminologyEntry
	for _, entry := range entries {
		if _, ok := wanted[entry.EntryID]; ok {
			selected = append(selected, entry)
			continue
		}
		if _, ok := wanted[entry.SourceTerm]; ok {
			selected = append(selected, entry)
		}
	}
	return selected
}

// BuildMap flattens entries into a source string → approved translation map.
// Canonical terms and every variant each get their own key; blank or
// whitespace-only sources are skipped. Two entries mapping the same source
// string to different translations is a data-quality problem the caller must
// resolve upstream; BuildMap refuses to pick a winner.
func BuildMap(entries []internal.TerminologyEntry) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, entry := range entries {
		for _, term := range sourceTerms(entry) {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			if existing, ok := mapping[term]; ok && existing != entry.ApprovedTranslation {
				return nil, fmt.Errorf(
					"glossary: %q maps to both %q and %q: %w",
					term, existing, entry.ApprovedTranslation, internal.ErrDataIntegrity)
			}
			mapping[term] = entry.ApprovedTranslation
		}
	}
	return mapping, nil
}

// Replace substitutes every occurrence of every source string (canonical and
// variant) in text with its approved translation. Empty text or an empty
// entry set returns text unchanged.
func Replace(text string, entries []internal.TerminologyEntry) string {
	if text == "" || len(entries) == 0 {
		return text
	}
	var reps []replacement
	for _, entry := range entries {
		for _, term := range sourceTerms(entry) {
			if term == "" {
				continue
			}
			reps = append(reps, replacement{source: term, target: entry.ApprovedTranslation})
		}
	}
	return apply(text, reps)
}

// ApplyMap substitutes every key of m found in text with its value, using
// the same longest-source-first ordering as Replace. It is the reuse point
// for the deterministic fallback translator, which substitutes the
// terminology map into chapter content without a generative backend.
func ApplyMap(text string, m map[string]string) string {
	if text == "" || len(m) == 0 {
		return text
	}
	reps := make([]replacement, 0, len(m))
	for source, target := range m {
		if source == "" {
			continue
		}
		reps = append(reps, replacement{source: source, target: target})
	}
	return apply(text, reps)
}

type replacement struct {
	source string
	target string
}

func apply(text string, reps []replacement) string {
	// Longer sources first, measured in runes to match how terms are
	// authored. Stable so equal-length sources keep their input order.
	sort.SliceStable(reps, func(i, j int) bool {
		return len([]rune(reps[i].source)) > len([]rune(reps[j].source))
	})
	for _, rep := range reps {
		text = strings.ReplaceAll(text, rep.source, rep.target)
	}
	return text
}

func sourceTerms(entry internal.TerminologyEntry) []string {
	terms := make([]string, 0, 1+len(entry.Variants))
	terms = append(terms, entry.SourceTerm)
	terms = append(terms, entry.Variants...)
	return terms
}
