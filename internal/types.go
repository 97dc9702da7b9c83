package internal

import "time"

// TranslationStage marks how far along the pipeline a stored translation is.
type TranslationStage string

const (
	StageTranslated    TranslationStage = "translated"
	StageOptimized     TranslationStage = "optimized"
	StageHumanReviewed TranslationStage = "human_reviewed"
)

// TermKind distinguishes character names from world-building terminology.
// Both validate identically today; the kind is stored so a future
// pronoun-leniency policy for characters has the data it needs.
type TermKind string

const (
	KindCharacter TermKind = "char"
	KindTerm      TermKind = "term"
)

// Project is one novel being translated.
type Project struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Author         string            `json:"author"`
	Genre          string            `json:"genre"`
	Description    string            `json:"description"`
	SourceLanguage string            `json:"source_language"`
	TargetLanguage string            `json:"target_language"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Chapter is one unit of source text. Index is the narrative position and
// determines chapter ordering in storage; ChapterID is the project-scoped
// identity the rest of the pipeline addresses chapters by.
type Chapter struct {
	ProjectID string `json:"project_id"`
	ChapterID string `json:"chapter_id"`
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Summary   string `json:"summary"`

	// Entry ids (or canonical terms) relevant to this chapter. Empty means
	// every project entry applies.
	Characters      []string `json:"characters,omitempty"`
	TerminologyKeys []string `json:"terminology_keys,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// TerminologyEntry is one glossary item: a canonical source term, its
// approved translation, and any source-language variants (aliases,
// abbreviations) that must resolve to the same translation.
type TerminologyEntry struct {
	EntryID             string            `json:"entry_id"`
	ProjectID           string            `json:"project_id"`
	SourceTerm          string            `json:"source_term"`
	ApprovedTranslation string            `json:"approved_translation"`
	Variants            []string          `json:"variants,omitempty"`
	Kind                TermKind          `json:"kind"`
	PartOfSpeech        string            `json:"part_of_speech,omitempty"`
	Notes               string            `json:"notes,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

// Translation is a persisted translation of one chapter at one stage.
type Translation struct {
	ID         string            `json:"id"`
	ProjectID  string            `json:"project_id"`
	ChapterID  string            `json:"chapter_id"`
	Stage      TranslationStage  `json:"stage"`
	Content    string            `json:"content"`
	Validation map[string]string `json:"validation,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
