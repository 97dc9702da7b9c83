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
	"strconv"

	"github.com/spf13/cobra"

	"noveltran/internal"
	"noveltran/internal/assembler"
	"noveltran/internal/detector"
	"noveltran/internal/judge"
	"noveltran/internal/refiner"
	"noveltran/internal/storage"
	"noveltran/internal/translator"
	"noveltran/internal/validator"
)

var (
	translateProject string
	translateChapter string
	historyLimit     int

	trFlags    translatorFlags
	novelType  string
	sourceLang string
	targetLang string

	useJudge   bool
	judgeModel string
	judgeURL   string

	useRefine    bool
	refinerModel string
	refinerURL   string

	verifyLanguage bool
	saveResult     bool
	outputFile     string
)

// translateReport is the JSON document the command emits for one chapter.
type translateReport struct {
	ProjectID         string            `json:"project_id"`
	ChapterID         string            `json:"chapter_id"`
	TranslatedText    string            `json:"translated_text"`
	TerminologyOK     bool              `json:"terminology_ok"`
	TerminologyIssues []validator.Issue `json:"terminology_issues"`
	JudgeDecision     *string           `json:"judge_decision"`
	OverallOK         bool              `json:"overall_ok"`
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate one chapter and validate terminology consistency",
	Long: `Assemble the chapter's translation context (terminology substituted,
prior summaries attached), run the configured translation backend, and
validate the result: every approved term must appear in the translation at
least as often as its source form (canonical or variant) appears in the
original.

A JSON report is printed to stdout. The exit status is 0 when the report's
overall_ok is true and 1 otherwise; a failing check is a result, not an
error.

Backends:
  - ollama     Self-hosted Ollama LLM
  - openai     OpenAI-compatible chat API (also OpenRouter, DeepSeek, ...)
  - google     Google Cloud Translation
  - fallback   No translation: terminology substitution only, for dry runs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()

		chctx, err := assembler.Assemble(ctx, st, translateProject, translateChapter, historyLimit)
		if err != nil {
			return err
		}

		tr, err := buildTranslator(trFlags)
		if err != nil {
			return err
		}
		if tr.Name() == "fallback" {
			fmt.Fprintln(os.Stderr, "Warning: fallback backend substitutes terminology only; the output is NOT a translation")
		}
		if ot, ok := tr.(*translator.OllamaTranslator); ok {
			if err := ot.IsAvailable(ctx); err != nil {
				return fmt.Errorf("translation backend: %w", err)
			}
		}

		opts := translator.Options{
			Model:          trFlags.model,
			NovelType:      novelType,
			SourceLanguage: sourceLang,
			TargetLanguage: targetLang,
		}
		translated, err := tr.Translate(ctx, chctx, opts)
		if err != nil {
			return fmt.Errorf("translate %s/%s: %w", translateProject, translateChapter, err)
		}

		stage := internal.StageTranslated
		if useRefine {
			fmt.Fprintln(os.Stderr, "Running refinement pass...")
			ref := refiner.NewOllamaRefiner(refinerModel, refinerURL)
			refined, err := ref.Refine(ctx, targetLang, chctx.Chapter.Content, translated, chctx.TerminologyMap)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Refiner failed: %v, keeping draft\n", err)
			} else {
				translated = refined
				stage = internal.StageOptimized
			}
		}

		if verifyLanguage {
			det := detector.New()
			if ok, verr := det.Verify(translated, targetLang); !ok {
				fmt.Fprintf(os.Stderr, "Language verification failed: %v\n", verr)
			}
		}

		var j judge.Judge
		if useJudge {
			j = judge.NewOllamaJudge(judgeModel, judgeURL)
		}
		report, err := validator.Evaluate(ctx, chctx.Chapter.Content, translated, targetLang, chctx.TerminologyEntries, j)
		if err != nil {
			return fmt.Errorf("validate %s/%s: %w", translateProject, translateChapter, err)
		}

		if saveResult {
			if err := saveTranslation(ctx, st, translateProject, translateChapter, translated, stage, report); err != nil {
				return err
			}
		}

		out := translateReport{
			ProjectID:         translateProject,
			ChapterID:         translateChapter,
			TranslatedText:    translated,
			TerminologyOK:     report.TerminologyOK,
			TerminologyIssues: report.Issues,
			OverallOK:         report.OverallOK(),
		}
		if out.TerminologyIssues == nil {
			out.TerminologyIssues = []validator.Issue{}
		}
		if report.JudgeDecision != "" {
			decision := string(report.JudgeDecision)
			out.JudgeDecision = &decision
		}

		payload, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		if outputFile != "" {
			if err := os.WriteFile(outputFile, payload, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
		} else {
			fmt.Println(string(payload))
		}

		if !out.OverallOK {
			return errCheckFailed
		}
		return nil
	},
}

// saveTranslation persists one stage of a chapter's translation together
// with a summary of its validation outcome. Refined output is stored under
// the optimized stage, leaving any earlier draft intact.
func saveTranslation(ctx context.Context, st storage.Store, projectID, chapterID, translated string, stage internal.TranslationStage, report validator.Report) error {
	tr := &internal.Translation{
		ProjectID: projectID,
		ChapterID: chapterID,
		Stage:     stage,
		Content:   translated,
		Validation: map[string]string{
			"terminology_ok": strconv.FormatBool(report.TerminologyOK),
			"overall_ok":     strconv.FormatBool(report.OverallOK()),
			"issue_count":    strconv.Itoa(len(report.Issues)),
		},
	}
	if report.JudgeDecision != "" {
		tr.Validation["judge_decision"] = string(report.JudgeDecision)
	}
	if err := st.SaveTranslation(ctx, tr); err != nil {
		return fmt.Errorf("save translation %s/%s: %w", projectID, chapterID, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&translateProject, "project", "p", "", "Project id (required)")
	translateCmd.Flags().StringVarP(&translateChapter, "chapter", "c", "", "Chapter id (required)")
	translateCmd.Flags().IntVar(&historyLimit, "history", 3, "Prior chapter summaries to include")

	translateCmd.Flags().StringVar(&trFlags.service, "service", "ollama", "Translation backend: ollama, openai, google, or fallback")
	translateCmd.Flags().StringVarP(&trFlags.model, "model", "m", "", "Model name override")
	translateCmd.Flags().StringVar(&trFlags.ollamaURL, "ollama-url", "http://localhost:11434", "Ollama base URL")
	translateCmd.Flags().StringVar(&trFlags.apiKey, "api-key", "", "API key for the openai backend")
	translateCmd.Flags().StringVar(&trFlags.apiURL, "api-url", "", "Base URL for the openai backend")
	translateCmd.Flags().StringVar(&trFlags.credentials, "credentials", "", "Path to Google Cloud credentials")

	translateCmd.Flags().StringVar(&novelType, "novel-type", "", "Genre hint for the translation prompt (e.g. xianxia)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "zh", "Source language code")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "en", "Target language code")

	translateCmd.Flags().BoolVar(&useJudge, "judge", false, "Consult the LLM judge for holistic accept/reject")
	translateCmd.Flags().StringVar(&judgeModel, "judge-model", "llama3.2", "Judge model name")
	translateCmd.Flags().StringVar(&judgeURL, "judge-url", "http://localhost:11434", "Judge Ollama URL")

	translateCmd.Flags().BoolVar(&useRefine, "refine", false, "Run a literary refinement pass over the draft")
	translateCmd.Flags().StringVar(&refinerModel, "refiner-model", "llama3.2", "Refiner model name")
	translateCmd.Flags().StringVar(&refinerURL, "refiner-url", "http://localhost:11434", "Refiner Ollama URL")

	translateCmd.Flags().BoolVar(&verifyLanguage, "verify-language", false, "Warn when the output is not in the target language")
	translateCmd.Flags().BoolVar(&saveResult, "save", false, "Persist the translation to storage")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the JSON report to a file instead of stdout")

	translateCmd.MarkFlagRequired("project")
	translateCmd.MarkFlagRequired("chapter")
}
