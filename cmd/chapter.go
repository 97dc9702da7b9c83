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

	"github.com/spf13/cobra"
)

var (
	chapterProject string
	chapterID      string
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Manage project chapters",
}

var chapterSetSummaryCmd = &cobra.Command{
	Use:   "set-summary <summary>",
	Short: "Set the rolling summary for a chapter",
	Long: `Store the summary that later chapters receive as prior-chapter context.

Summaries are produced outside the tool (by a reader or a separate
summarization step) and attached here; without them the history window of a
translation request carries no narrative context.

Example:
  noveltran chapter set-summary -p <project-id> -c ch1 "Liu arrives at the sect."`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.UpdateChapterSummary(context.Background(), chapterProject, chapterID, args[0]); err != nil {
			return fmt.Errorf("failed to set summary: %w", err)
		}
		fmt.Printf("Summary set for chapter %s\n", chapterID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chapterCmd)

	chapterCmd.PersistentFlags().StringVarP(&chapterProject, "project", "p", "", "Project id (required)")
	chapterCmd.PersistentFlags().StringVarP(&chapterID, "chapter", "c", "", "Chapter id (required)")
	chapterCmd.MarkPersistentFlagRequired("project")
	chapterCmd.MarkPersistentFlagRequired("chapter")

	chapterCmd.AddCommand(chapterSetSummaryCmd)
}
