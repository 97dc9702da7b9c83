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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"noveltran/internal"
)

var (
	translationsProject string
	translationsChapter string
	translationsStage   string
)

var translationsCmd = &cobra.Command{
	Use:   "translations",
	Short: "Inspect persisted translations",
}

var translationsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show saved translations for a chapter",
	Long: `Without --stage, list every saved stage of the chapter's translation with
its validation summary. With --stage, print that stage's content to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()

		if translationsStage != "" {
			tr, err := st.GetTranslation(ctx, translationsProject, translationsChapter,
				internal.TranslationStage(translationsStage))
			if err != nil {
				return err
			}
			fmt.Println(tr.Content)
			return nil
		}

		translations, err := st.ListTranslations(ctx, translationsProject, translationsChapter)
		if err != nil {
			return err
		}
		if len(translations) == 0 {
			fmt.Println("No saved translations.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STAGE\tUPDATED\tCHARS\tTERMINOLOGY OK")
		for _, tr := range translations {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				tr.Stage, tr.UpdatedAt.Format("2006-01-02 15:04"),
				len([]rune(tr.Content)), tr.Validation["terminology_ok"])
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(translationsCmd)

	translationsCmd.PersistentFlags().StringVarP(&translationsProject, "project", "p", "", "Project id (required)")
	translationsCmd.PersistentFlags().StringVarP(&translationsChapter, "chapter", "c", "", "Chapter id (required)")
	translationsCmd.MarkPersistentFlagRequired("project")
	translationsCmd.MarkPersistentFlagRequired("chapter")

	translationsShowCmd.Flags().StringVar(&translationsStage, "stage", "", "Stage to print (translated, optimized, human_reviewed)")

	translationsCmd.AddCommand(translationsShowCmd)
}
