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

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage translation projects",
}

var (
	projectName   string
	projectAuthor string
	projectGenre  string
	projectDesc   string
	projectSource string
	projectTarget string
)

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project",
	Long: `Create a project for one novel.

Example:
  noveltran project create --name "末世异神" --genre xianxia --source zh --target en`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		project := &internal.Project{
			Name:           projectName,
			Author:         projectAuthor,
			Genre:          projectGenre,
			Description:    projectDesc,
			SourceLanguage: projectSource,
			TargetLanguage: projectTarget,
		}
		if err := st.CreateProject(context.Background(), project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		fmt.Printf("Created project %s (%s)\n", project.ID, project.Name)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		projects, err := st.ListProjects(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tGENRE\tSOURCE\tTARGET")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				p.ID, p.Name, p.Genre, p.SourceLanguage, p.TargetLanguage)
		}
		return w.Flush()
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project and its chapters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		project, err := st.GetProject(ctx, args[0])
		if err != nil {
			return err
		}
		chapters, err := st.ListChapters(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Project: %s (%s)\n", project.Name, project.ID)
		if project.Author != "" {
			fmt.Printf("Author:  %s\n", project.Author)
		}
		fmt.Printf("Languages: %s -> %s\n", project.SourceLanguage, project.TargetLanguage)
		fmt.Printf("Chapters: %d\n\n", len(chapters))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tCHAPTER ID\tTITLE\tSUMMARY")
		for _, ch := range chapters {
			summary := ch.Summary
			if len([]rune(summary)) > 40 {
				summary = string([]rune(summary)[:40]) + "..."
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ch.Index, ch.ChapterID, ch.Title, summary)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "Project name (required)")
	projectCreateCmd.Flags().StringVar(&projectAuthor, "author", "", "Novel author")
	projectCreateCmd.Flags().StringVar(&projectGenre, "genre", "", "Genre hint used in translation prompts")
	projectCreateCmd.Flags().StringVar(&projectDesc, "description", "", "Short description of the novel")
	projectCreateCmd.Flags().StringVarP(&projectSource, "source", "s", "zh", "Source language code")
	projectCreateCmd.Flags().StringVarP(&projectTarget, "target", "t", "en", "Target language code")
	projectCreateCmd.MarkFlagRequired("name")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
}
