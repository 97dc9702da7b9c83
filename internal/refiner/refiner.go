// Package refiner implements the optional second pass of the translation
// pipeline: a draft chapter translation is rewritten for literary quality
// while the approved terminology stays locked.
package refiner

import "context"

// Refiner polishes a draft translation. The terminology map lists the
// approved renderings the refined text must keep verbatim.
type Refiner interface {
	Refine(ctx context.Context, targetLang, sourceText, draftText string, terminology map[string]string) (string, error)
}
