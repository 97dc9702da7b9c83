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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"noveltran/internal"
)

var termsProject string

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Manage project terminology",
	Long: `Add, list, and remove terminology entries.

Terminology entries pin character names and world-building terms to one
approved translation. During translation the approved form is substituted
into the source text up front, and validation checks the translated chapter
still carries every pinned term.`,
}

var (
	termAddVariants []string
	termAddKind     string
	termAddNotes    string
)

var termsAddCmd = &cobra.Command{
	Use:   "add <source-term> <approved-translation>",
	Short: "Add or update a terminology entry",
	Long: `Add a terminology entry mapping a source term (and optional variants)
to its approved translation.

Example:
  noveltran terms add "柳" "Liu" --variants "柳姑娘" --kind char -p <project-id>`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := internal.TermKind(termAddKind)
		if kind != internal.KindCharacter && kind != internal.KindTerm {
			return fmt.Errorf("invalid kind %q (use char or term)", termAddKind)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entry := &internal.TerminologyEntry{
			ProjectID:           termsProject,
			SourceTerm:          args[0],
			ApprovedTranslation: args[1],
			Variants:            termAddVariants,
			Kind:                kind,
			Notes:               termAddNotes,
		}
		if err := st.UpsertTerm(context.Background(), entry); err != nil {
			return fmt.Errorf("failed to add terminology entry: %w", err)
		}
		fmt.Printf("Added: %q -> %q (%s)\n", args[0], args[1], entry.EntryID)
		return nil
	},
}

var termsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List terminology entries for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.ListTerminology(context.Background(), termsProject)
		if err != nil {
			return fmt.Errorf("failed to list terminology: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No terminology entries.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tSOURCE TERM\tVARIANTS\tTRANSLATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.EntryID, e.Kind, e.SourceTerm, strings.Join(e.Variants, ", "), e.ApprovedTranslation)
		}
		return w.Flush()
	},
}

var termsRemoveCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Remove a terminology entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteTerm(context.Background(), termsProject, args[0]); err != nil {
			return fmt.Errorf("failed to remove terminology entry: %w", err)
		}
		fmt.Printf("Removed terminology entry %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(termsCmd)

	termsCmd.PersistentFlags().StringVarP(&termsProject, "project", "p", "", "Project id (required)")
	termsCmd.MarkPersistentFlagRequired("project")

	termsAddCmd.Flags().StringSliceVar(&termAddVariants, "variants", nil, "Source-language variants (comma-separated)")
	termsAddCmd.Flags().StringVar(&termAddKind, "kind", "term", "Entry kind: char or term")
	termsAddCmd.Flags().StringVar(&termAddNotes, "notes", "", "Free-form notes")

	termsCmd.AddCommand(termsAddCmd)
	termsCmd.AddCommand(termsListCmd)
	termsCmd.AddCommand(termsRemoveCmd)
}
