// Package detector wraps lingua-go for language identification and
// target-language verification of translated chapters.
package detector

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minVerifyLength is the minimum rune count required to attempt language
// detection. Shorter texts produce unreliable results and pass unverified.
const minVerifyLength = 20

// Detector identifies the language of a text. Building the underlying
// lingua detector is expensive; reuse the instance.
type Detector struct {
	detector lingua.LanguageDetector
}

// New creates a detector. With no languages given it considers all languages
// lingua supports; a subset narrows the search and improves accuracy.
func New(langs ...lingua.Language) *Detector {
	unconfigured := lingua.NewLanguageDetectorBuilder()
	var builder lingua.LanguageDetectorBuilder
	if len(langs) == 0 {
		builder = unconfigured.FromAllLanguages()
	} else {
		builder = unconfigured.FromLanguages(langs...)
	}
	return &Detector{detector: builder.Build()}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}

// Verify returns true when text appears to be written in targetLang
// (ISO 639-1). Short texts and texts whose language cannot be determined
// pass without error. On mismatch the error names both codes.
func (d *Detector) Verify(text, targetLang string) (bool, error) {
	if targetLang == "" {
		return true, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return false, fmt.Errorf("text is empty")
	}
	if len([]rune(text)) < minVerifyLength {
		return true, nil
	}

	detected, ok := d.DetectISO(text)
	if !ok {
		return true, nil
	}
	if !strings.EqualFold(detected, targetLang) {
		return false, fmt.Errorf("expected %s but detected %s", targetLang, detected)
	}
	return true, nil
}
