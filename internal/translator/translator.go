package translator

import (
	"context"

	"noveltran/internal/assembler"
)

// Options carries the per-request knobs that are not part of the chapter
// context itself.
type Options struct {
	// Model overrides the backend's configured model when non-empty.
	Model string

	// NovelType is a genre hint shaping the system prompt ("werewolf",
	// "xianxia", ...). Empty defaults to plain fiction.
	NovelType string

	SourceLanguage string
	TargetLanguage string
}

// Translator renders an assembled chapter context into target-language text.
// Implementations must translate the normalized content (terminology already
// substituted) and honor the terminology table verbatim.
type Translator interface {
	Name() string
	Translate(ctx context.Context, chctx *assembler.ChapterContext, opts Options) (string, error)
}
