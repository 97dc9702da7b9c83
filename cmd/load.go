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
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"noveltran/internal"
	"noveltran/internal/chapterize"
)

var (
	loadProject string
	loadFile    string
	loadDryRun  bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import a novel document as project chapters",
	Long: `Read a novel text file, split it at chapter headings (第X章, Chapter N,
"N. " and similar), and store each chapter under the project with its
narrative index. Files that are not valid UTF-8 are retried as GBK.

With --dry-run the detected chapters are listed without writing anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readNovelFile(loadFile)
		if err != nil {
			return err
		}

		sections := chapterize.Split(content)
		fmt.Fprintf(os.Stderr, "Detected %d chapters\n", len(sections))

		if loadDryRun {
			for _, sec := range sections {
				fmt.Printf("%6d  %s\n", sec.Number, sec.Title)
			}
			return nil
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		if _, err := st.GetProject(ctx, loadProject); err != nil {
			return fmt.Errorf("load into %s: %w", loadProject, err)
		}

		for _, sec := range sections {
			chapter := &internal.Chapter{
				ProjectID: loadProject,
				Index:     sec.Number,
				Title:     sec.Title,
				Content:   sec.Content,
			}
			if err := st.CreateChapter(ctx, chapter); err != nil {
				return fmt.Errorf("create chapter %d: %w", sec.Number, err)
			}
		}
		fmt.Printf("Imported %d chapters into project %s\n", len(sections), loadProject)
		return nil
	},
}

// readNovelFile loads the document as UTF-8, falling back to GBK when the
// bytes do not form valid UTF-8.
func readNovelFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("document is neither UTF-8 nor GBK: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Decoded document as GBK")
	return string(decoded), nil
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVarP(&loadProject, "project", "p", "", "Project id (required)")
	loadCmd.Flags().StringVarP(&loadFile, "file", "f", "", "Novel text file (required)")
	loadCmd.Flags().BoolVar(&loadDryRun, "dry-run", false, "List detected chapters without storing them")

	loadCmd.MarkFlagRequired("project")
	loadCmd.MarkFlagRequired("file")
}
