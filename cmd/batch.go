/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"noveltran/internal"
	"noveltran/internal/batch"
	"noveltran/internal/judge"
	"noveltran/internal/translator"
	"noveltran/internal/validator"
)

var (
	batchProject  string
	batchChapters []string
	batchWorkers  int
	batchHistory  int
	batchTimeout  time.Duration
	batchSave     bool

	batchTrFlags   translatorFlags
	batchNovelType string
	batchSource    string
	batchTarget    string

	batchUseJudge   bool
	batchJudgeModel string
	batchJudgeURL   string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Translate and validate many chapters concurrently",
	Long: `Run the translate pipeline over several chapters of one project with a
bounded worker pool. Chapters are independent: one failing chapter never
stops the others.

With no --chapters list, every chapter of the project is processed in
narrative order. A JSON array of per-chapter reports is printed to stdout;
progress goes to stderr. Exit status is 0 only when every chapter succeeded
and passed validation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()

		chapterIDs := batchChapters
		if len(chapterIDs) == 0 {
			chapters, err := st.ListChapters(ctx, batchProject)
			if err != nil {
				return err
			}
			for _, ch := range chapters {
				chapterIDs = append(chapterIDs, ch.ChapterID)
			}
		}
		if len(chapterIDs) == 0 {
			return fmt.Errorf("project %s has no chapters", batchProject)
		}

		tr, err := buildTranslator(batchTrFlags)
		if err != nil {
			return err
		}
		if ot, ok := tr.(*translator.OllamaTranslator); ok {
			if err := ot.IsAvailable(ctx); err != nil {
				return fmt.Errorf("translation backend: %w", err)
			}
		}

		var j judge.Judge
		if batchUseJudge {
			j = judge.NewOllamaJudge(batchJudgeModel, batchJudgeURL)
		}

		runner := batch.New(tr, j, batch.Config{
			Workers:      batchWorkers,
			HistoryLimit: batchHistory,
			Timeout:      batchTimeout,
			Options: translator.Options{
				Model:          batchTrFlags.model,
				NovelType:      batchNovelType,
				SourceLanguage: batchSource,
				TargetLanguage: batchTarget,
			},
		})

		fmt.Fprintf(os.Stderr, "Processing %d chapters with %d workers...\n", len(chapterIDs), batchWorkers)
		results := runner.Run(ctx, st, batchProject, chapterIDs)

		reports := make([]translateReport, 0, len(results))
		for _, res := range results {
			if res.Err != nil {
				fmt.Fprintf(os.Stderr, "chapter %s: %v\n", res.ChapterID, res.Err)
				continue
			}

			if batchSave {
				if err := saveTranslation(ctx, st, batchProject, res.ChapterID, res.TranslatedText, internal.StageTranslated, res.Report); err != nil {
					fmt.Fprintf(os.Stderr, "chapter %s: %v\n", res.ChapterID, err)
				}
			}

			report := translateReport{
				ProjectID:         batchProject,
				ChapterID:         res.ChapterID,
				TranslatedText:    res.TranslatedText,
				TerminologyOK:     res.Report.TerminologyOK,
				TerminologyIssues: res.Report.Issues,
				OverallOK:         res.Report.OverallOK(),
			}
			if report.TerminologyIssues == nil {
				report.TerminologyIssues = []validator.Issue{}
			}
			if res.Report.JudgeDecision != "" {
				decision := string(res.Report.JudgeDecision)
				report.JudgeDecision = &decision
			}
			reports = append(reports, report)
		}

		payload, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))

		s := batch.Summarize(results)
		fmt.Fprintf(os.Stderr, "Done: %d total, %d succeeded (%d flagged), %d failed\n",
			s.Total, s.Succeeded, s.Flagged, s.Failed)

		if s.Failed > 0 || s.Flagged > 0 {
			return errCheckFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchProject, "project", "p", "", "Project id (required)")
	batchCmd.Flags().StringSliceVar(&batchChapters, "chapters", nil, "Chapter ids (comma-separated, default: all)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 2, "Concurrent chapter translations")
	batchCmd.Flags().IntVar(&batchHistory, "history", 3, "Prior chapter summaries to include")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "Per-chapter timeout")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "Persist each translation to storage")

	batchCmd.Flags().StringVar(&batchTrFlags.service, "service", "ollama", "Translation backend: ollama, openai, google, or fallback")
	batchCmd.Flags().StringVarP(&batchTrFlags.model, "model", "m", "", "Model name override")
	batchCmd.Flags().StringVar(&batchTrFlags.ollamaURL, "ollama-url", "http://localhost:11434", "Ollama base URL")
	batchCmd.Flags().StringVar(&batchTrFlags.apiKey, "api-key", "", "API key for the openai backend")
	batchCmd.Flags().StringVar(&batchTrFlags.apiURL, "api-url", "", "Base URL for the openai backend")
	batchCmd.Flags().StringVar(&batchTrFlags.credentials, "credentials", "", "Path to Google Cloud credentials")

	batchCmd.Flags().StringVar(&batchNovelType, "novel-type", "", "Genre hint for the translation prompt")
	batchCmd.Flags().StringVarP(&batchSource, "source", "s", "zh", "Source language code")
	batchCmd.Flags().StringVarP(&batchTarget, "target", "t", "en", "Target language code")

	batchCmd.Flags().BoolVar(&batchUseJudge, "judge", false, "Consult the LLM judge for each chapter")
	batchCmd.Flags().StringVar(&batchJudgeModel, "judge-model", "llama3.2", "Judge model name")
	batchCmd.Flags().StringVar(&batchJudgeURL, "judge-url", "http://localhost:11434", "Judge Ollama URL")

	batchCmd.MarkFlagRequired("project")
}
