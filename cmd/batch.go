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
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rkoshiba/janmon/internal"
	"github.com/rkoshiba/janmon/internal/batch"
	"github.com/rkoshiba/janmon/internal/config"
	"github.com/rkoshiba/janmon/internal/selector"
	"github.com/rkoshiba/janmon/internal/store"
)

var (
	batchInputFile   string
	batchOutputFile  string
	batchCandidates  int
	batchNum         int
	batchDBPath      string
	batchNoStore     bool
	batchNoLangCheck bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run repeated sampling over a CSV of instructions",
	Long: `Process many instructions from a CSV file.

The CSV must have an "instruction" column; every row becomes one
instruction processed with its own candidate pool. Use --num to sample
a random subset of the instructions instead of all of them.

Example:
  janmon batch -i instructions.csv -n 10
  janmon batch -i instructions.csv --num 5 -o report.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if batchCandidates > 0 {
			cfg.Candidates = batchCandidates
		}

		instructions, err := readInstructionsCSV(batchInputFile)
		if err != nil {
			return err
		}
		if len(instructions) == 0 {
			return fmt.Errorf("no instructions found in %s", batchInputFile)
		}

		if batchNum > 0 && batchNum < len(instructions) {
			rand.Shuffle(len(instructions), func(i, j int) {
				instructions[i], instructions[j] = instructions[j], instructions[i]
			})
			instructions = instructions[:batchNum]
		}

		ctx := context.Background()

		s, err := buildSampler(ctx, cfg, batchNoLangCheck)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Println("CSVバッチ処理開始")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("指示数: %d\n", len(instructions))
		fmt.Printf("候補数/指示: %d\n", cfg.Candidates)
		fmt.Printf("モデル: %s\n", cfg.Generator.Model)
		fmt.Printf("%s\n\n", strings.Repeat("=", 60))

		coordinator := batch.New(s, selector.New(nil), cfg.Candidates, cfg.Parallelism, logger)
		results, report := coordinator.Run(ctx, instructions)

		for _, res := range results {
			fmt.Printf("\n指示 %d: %s\n", res.Index, res.Instruction)
			for _, c := range res.Candidates {
				printCandidate(c)
			}
			printInstructionSummary(res)
		}

		printReport(report)

		if !batchNoStore {
			db, err := store.New(batchDBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			run := internal.Run{
				ID:         uuid.New().String(),
				Mode:       "batch",
				Model:      cfg.Generator.Model,
				Candidates: cfg.Candidates,
				Timestamp:  time.Now(),
			}
			if err := db.SaveRun(ctx, run); err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			for _, res := range results {
				if err := db.SaveInstructionResult(ctx, run.ID, res); err != nil {
					return fmt.Errorf("failed to save instruction %d: %w", res.Index, err)
				}
			}
			fmt.Printf("\n実行ID: %s\n", run.ID)
		}

		if batchOutputFile != "" {
			export := struct {
				Report  *batch.Report             `json:"report"`
				Results []batch.InstructionResult `json:"results"`
			}{report, results}
			if err := writeJSON(batchOutputFile, export); err != nil {
				return err
			}
			fmt.Printf("結果を保存しました: %s\n", batchOutputFile)
		}

		return nil
	},
}

// readInstructionsCSV loads the instruction column from a CSV file.
func readInstructionsCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	col := -1
	for i, name := range records[0] {
		if strings.TrimSpace(name) == "instruction" {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf(`CSV file has no "instruction" column`)
	}

	var instructions []string
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		if text := strings.TrimSpace(row[col]); text != "" {
			instructions = append(instructions, text)
		}
	}
	return instructions, nil
}

// printReport renders the batch-wide statistics block.
func printReport(r *batch.Report) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Println("バッチ全体の結果:")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("総指示数: %d\n", r.TotalInstructions)
	fmt.Printf("成功した指示数: %d\n", r.SuccessfulInstructions)
	fmt.Printf("総候補数: %d\n", r.TotalCandidates)
	fmt.Printf("検証済み候補数: %d\n", r.VerifiedCandidates)

	successRate, ok := r.SuccessRate()
	fmt.Printf("指示成功率: %s\n", batch.FormatRate(successRate, ok))
	extractionRate, ok := r.ExtractionRate()
	fmt.Printf("抽出成功率: %s\n", batch.FormatRate(extractionRate, ok))
	calculationRate, ok := r.CalculationRate()
	fmt.Printf("計算成功率: %s\n", batch.FormatRate(calculationRate, ok))
	complianceRate, ok := r.ComplianceRate()
	fmt.Printf("指示適合率: %s\n", batch.FormatRate(complianceRate, ok))
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchInputFile, "input", "i", "", "Input CSV file with an instruction column (required)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "output", "o", "", "Write the full report as JSON to this file")
	batchCmd.Flags().IntVarP(&batchCandidates, "candidates", "n", 0, "Number of candidates per instruction (default from config)")
	batchCmd.Flags().IntVar(&batchNum, "num", 0, "Randomly sample this many instructions from the CSV (0 = all)")
	batchCmd.Flags().StringVar(&batchDBPath, "db", "./data/janmon.db", "Database path for the problem store")
	batchCmd.Flags().BoolVar(&batchNoStore, "no-store", false, "Do not persist results to the problem store")
	batchCmd.Flags().BoolVar(&batchNoLangCheck, "no-langcheck", false, "Disable the Japanese language gate on generated questions")

	batchCmd.MarkFlagRequired("input")
}
