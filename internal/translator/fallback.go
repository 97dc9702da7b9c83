package translator

import (
	"context"

	"noveltran/internal/assembler"
	"noveltran/internal/glossary"
)

// FallbackTranslator applies the terminology map to the raw chapter content
// and returns the result. It is not a translation: it exists so the pipeline
// can be exercised end to end (assembly, validation, persistence) without
// any backend configured, and callers must label its output accordingly.
type FallbackTranslator struct{}

func NewFallbackTranslator() *FallbackTranslator {
	return &FallbackTranslator{}
}

func (s *FallbackTranslator) Name() string {
	return "fallback"
}

func (s *FallbackTranslator) Translate(_ context.Context, chctx *assembler.ChapterContext, _ Options) (string, error) {
	return glossary.ApplyMap(chctx.Chapter.Content, chctx.TerminologyMap), nil
}
