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

	"github.com/rkoshiba/janmon/internal/store"
)

var (
	problemsDBPath      string
	problemsInstruction string
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Manage the curated problem store",
	Long:  `List, inspect, export, and clear curated problems in the SQLite store.`,
}

var problemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List curated problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(problemsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		problems, err := listProblems(db)
		if err != nil {
			return err
		}

		if len(problems) == 0 {
			fmt.Println("No curated problems in the store.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CREATED\tHAN\tFU\tSCORE\tYAKU\tCOMPLIANT\tQUESTION")
		for _, p := range problems {
			snippet := p.Question
			if runes := []rune(snippet); len(runes) > 40 {
				snippet = string(runes[:37]) + "..."
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%v\t%s\n",
				p.CreatedAt.Format("2006-01-02 15:04"),
				p.Han, p.Fu, p.Score, strings.Join(p.Yaku, ","),
				p.Compliant, snippet)
		}
		return w.Flush()
	},
}

var problemsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show problem store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(problemsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total runs:         %d\n", stats.TotalRuns)
		fmt.Printf("Total instructions: %d\n", stats.TotalInstructions)
		fmt.Printf("Total candidates:   %d\n", stats.TotalCandidates)
		fmt.Printf("Curated problems:   %d\n", stats.SelectedProblems)
		fmt.Printf("Compliant problems: %d\n", stats.CompliantProblems)
		return nil
	},
}

var problemsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export curated problems as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(problemsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		problems, err := listProblems(db)
		if err != nil {
			return err
		}

		if err := writeJSON(args[0], problems); err != nil {
			return err
		}
		fmt.Printf("Exported %d problems to %s\n", len(problems), args[0])
		return nil
	},
}

var problemsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all runs and candidates from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(problemsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
		fmt.Printf("Cleared %d candidates from the problem store.\n", n)
		return nil
	},
}

func listProblems(db *store.Store) ([]store.Problem, error) {
	ctx := context.Background()
	if problemsInstruction != "" {
		problems, err := db.ProblemsByInstruction(ctx, problemsInstruction)
		if err != nil {
			return nil, fmt.Errorf("failed to list problems: %w", err)
		}
		return problems, nil
	}
	problems, err := db.ListProblems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

func init() {
	rootCmd.AddCommand(problemsCmd)

	problemsCmd.PersistentFlags().StringVar(&problemsDBPath, "db", "./data/janmon.db", "Database path")
	problemsCmd.PersistentFlags().StringVar(&problemsInstruction, "instruction", "", "Filter by instruction text")

	problemsCmd.AddCommand(problemsListCmd)
	problemsCmd.AddCommand(problemsStatsCmd)
	problemsCmd.AddCommand(problemsExportCmd)
	problemsCmd.AddCommand(problemsClearCmd)
}
