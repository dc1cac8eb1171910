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
	"path/filepath"
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
	sampleInstruction string
	sampleCandidates  int
	sampleOutputFile  string
	sampleDBPath      string
	sampleNoStore     bool
	sampleNoLangCheck bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate and verify candidates for one instruction",
	Long: `Run repeated sampling for a single instruction.

The instruction is sent to the generator n times in parallel; every
candidate question is verified (hand extraction, validation, score
calculation) and judged for instruction compliance. One problem is
selected at random among the compliant candidates.

An empty instruction generates free variations and skips the
compliance judging stage.

Example:
  janmon sample -i "タンヤオと三色同順で5200点の問題を作成してください" -n 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if sampleCandidates > 0 {
			cfg.Candidates = sampleCandidates
		}

		ctx := context.Background()

		s, err := buildSampler(ctx, cfg, sampleNoLangCheck)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Println("Repeated Sampling開始")
		fmt.Println(strings.Repeat("=", 60))
		if sampleInstruction != "" {
			fmt.Printf("指示: %s\n", sampleInstruction)
		} else {
			fmt.Println("指示: (デフォルト)")
		}
		fmt.Printf("候補数: %d\n", cfg.Candidates)
		fmt.Printf("モデル: %s\n", cfg.Generator.Model)
		fmt.Printf("%s\n\n", strings.Repeat("=", 60))

		candidates := s.Sample(ctx, sampleInstruction, cfg.Candidates)
		outcome := selector.New(nil).Select(candidates)

		for _, c := range candidates {
			printCandidate(c)
		}

		res := batch.InstructionResult{
			Index:       1,
			Instruction: sampleInstruction,
			Candidates:  candidates,
			Outcome:     outcome,
		}
		printInstructionSummary(res)

		if !sampleNoStore {
			db, err := store.New(sampleDBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			run := internal.Run{
				ID:         uuid.New().String(),
				Mode:       "sample",
				Model:      cfg.Generator.Model,
				Candidates: cfg.Candidates,
				Timestamp:  time.Now(),
			}
			if err := db.SaveRun(ctx, run); err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			if err := db.SaveInstructionResult(ctx, run.ID, res); err != nil {
				return fmt.Errorf("failed to save results: %w", err)
			}
			fmt.Printf("\n実行ID: %s\n", run.ID)
		}

		if sampleOutputFile != "" {
			if err := writeJSON(sampleOutputFile, res); err != nil {
				return err
			}
			fmt.Printf("結果を保存しました: %s\n", sampleOutputFile)
		}

		if outcome.Selected == nil {
			return fmt.Errorf("no verified candidate produced")
		}
		return nil
	},
}

// writeJSON marshals v and writes it to path, creating parent directories.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVarP(&sampleInstruction, "instruction", "i", "", "Instruction for problem generation (empty for free variations)")
	sampleCmd.Flags().IntVarP(&sampleCandidates, "candidates", "n", 0, "Number of candidates to generate (default from config)")
	sampleCmd.Flags().StringVarP(&sampleOutputFile, "output", "o", "", "Write the full result as JSON to this file")
	sampleCmd.Flags().StringVar(&sampleDBPath, "db", "./data/janmon.db", "Database path for the problem store")
	sampleCmd.Flags().BoolVar(&sampleNoStore, "no-store", false, "Do not persist results to the problem store")
	sampleCmd.Flags().BoolVar(&sampleNoLangCheck, "no-langcheck", false, "Disable the Japanese language gate on generated questions")
}
