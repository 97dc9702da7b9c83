package translator

import (
	"context"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"noveltran/internal/assembler"
)

// GoogleTranslator uses the Cloud Translation API. It translates the
// normalized content directly; approved terminology is preserved because
// the substitution pass already rendered it in the target language.
type GoogleTranslator struct {
	credentialsFile string
}

func NewGoogleTranslator(credentialsFile string) *GoogleTranslator {
	return &GoogleTranslator{credentialsFile: credentialsFile}
}

func (s *GoogleTranslator) Name() string {
	return "google"
}

func (s *GoogleTranslator) Translate(ctx context.Context, chctx *assembler.ChapterContext, opts Options) (string, error) {
	target := opts.TargetLanguage
	if target == "" {
		target = "en"
	}
	targetTag, err := language.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid target language: %v", err)
	}

	clientOpts := []option.ClientOption{}
	if s.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(s.credentialsFile))
	}

	client, err := translate.NewClient(ctx, clientOpts...)
	if err != nil {
		return "", fmt.Errorf("failed to create client: %v", err)
	}
	defer client.Close()

	var translateOpts *translate.Options
	if opts.SourceLanguage != "" && opts.SourceLanguage != "auto" {
		sourceTag, err := language.Parse(opts.SourceLanguage)
		if err != nil {
			return "", fmt.Errorf("invalid source language: %v", err)
		}
		translateOpts = &translate.Options{Source: sourceTag}
	}

	translations, err := client.Translate(ctx, []string{chctx.NormalizedContent}, targetTag, translateOpts)
	if err != nil {
		return "", fmt.Errorf("translation failed: %v", err)
	}
	if len(translations) == 0 {
		return "", fmt.Errorf("no translation returned")
	}
	return translations[0].Text, nil
}
