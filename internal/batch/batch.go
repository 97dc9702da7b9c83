// Package batch runs the assemble-translate-validate pipeline over many
// chapters concurrently with a bounded worker pool. One chapter failing
// never stops the others.
package batch

import (
	"context"
	"sync"
	"time"

	"noveltran/internal/assembler"
	"noveltran/internal/judge"
	"noveltran/internal/translator"
	"noveltran/internal/validator"
)

type Config struct {
	// Workers caps concurrent chapter translations. Zero or negative means 1.
	Workers int

	// HistoryLimit is the prior-summary window passed to the assembler.
	HistoryLimit int

	// Timeout bounds each chapter's end-to-end processing. Zero disables it.
	Timeout time.Duration

	Options translator.Options
}

// ChapterResult is the outcome for one chapter. Err is set when the pipeline
// itself failed; a validation failure is recorded in Report, not here.
type ChapterResult struct {
	ChapterID      string
	TranslatedText string
	Report         validator.Report
	Err            error
}

type Runner struct {
	tr     translator.Translator
	j      judge.Judge
	config Config
}

// New creates a runner. The judge may be nil, in which case the chapters are
// validated on terminology counts alone.
func New(tr translator.Translator, j judge.Judge, config Config) *Runner {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Runner{tr: tr, j: j, config: config}
}

// Run processes the given chapters of one project and returns results in
// input order.
func (r *Runner) Run(ctx context.Context, st assembler.Storage, projectID string, chapterIDs []string) []ChapterResult {
	results := make([]ChapterResult, len(chapterIDs))

	sem := make(chan struct{}, r.config.Workers)
	var wg sync.WaitGroup
	for i, chapterID := range chapterIDs {
		wg.Add(1)
		go func(index int, chapterID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[index] = r.processChapter(ctx, st, projectID, chapterID)
		}(i, chapterID)
	}
	wg.Wait()

	return results
}

func (r *Runner) processChapter(ctx context.Context, st assembler.Storage, projectID, chapterID string) ChapterResult {
	result := ChapterResult{ChapterID: chapterID}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	chctx, err := assembler.Assemble(ctx, st, projectID, chapterID, r.config.HistoryLimit)
	if err != nil {
		result.Err = err
		return result
	}

	translated, err := r.tr.Translate(ctx, chctx, r.config.Options)
	if err != nil {
		result.Err = err
		return result
	}
	result.TranslatedText = translated

	report, err := validator.Evaluate(ctx, chctx.Chapter.Content, translated,
		r.config.Options.TargetLanguage, chctx.TerminologyEntries, r.j)
	if err != nil {
		result.Err = err
		return result
	}
	result.Report = report
	return result
}

// Summary tallies a finished run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Flagged   int
}

// Summarize counts pipeline failures and validation flags across results.
func Summarize(results []ChapterResult) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		switch {
		case res.Err != nil:
			s.Failed++
		case !res.Report.OverallOK():
			s.Succeeded++
			s.Flagged++
		default:
			s.Succeeded++
		}
	}
	return s
}
