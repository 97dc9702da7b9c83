// Package judge defines the holistic acceptability classifier consulted
// after the term-count check. Its verdict is an opaque binary token; the
// validator records it verbatim and never second-guesses it.
package judge

import "context"

// Decision is one of the two verdict tokens.
type Decision string

const (
	Accept Decision = "accept"
	Reject Decision = "reject"
)

// Judge classifies a (source, translation) pair as acceptable or not.
type Judge interface {
	Judge(ctx context.Context, sourceText, translatedText, targetLanguage string) (Decision, error)
}
