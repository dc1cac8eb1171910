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
	"strings"

	"github.com/rkoshiba/janmon/internal/batch"
	"github.com/rkoshiba/janmon/internal/config"
	"github.com/rkoshiba/janmon/internal/extractor"
	"github.com/rkoshiba/janmon/internal/generator"
	"github.com/rkoshiba/janmon/internal/judge"
	"github.com/rkoshiba/janmon/internal/langcheck"
	"github.com/rkoshiba/janmon/internal/pipeline"
	"github.com/rkoshiba/janmon/internal/sampler"
	"github.com/rkoshiba/janmon/internal/scoring"
)

// buildGenerator constructs the question generator from configuration.
func buildGenerator(cfg *config.Config) (generator.Generator, error) {
	switch cfg.Generator.Provider {
	case "openai":
		return generator.NewOpenAIGenerator(cfg.Generator.APIKey, cfg.Generator.Model, cfg.Generator.BaseURL), nil
	case "gemini":
		return generator.NewGeminiGenerator(cfg.Generator.APIKey, cfg.Generator.Model), nil
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Generator.Provider)
	}
}

// buildSampler wires the generator, verification pipeline and language
// gate into a ready sampler.
func buildSampler(ctx context.Context, cfg *config.Config, noLangCheck bool) (*sampler.Sampler, error) {
	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	ex := extractor.NewLLMExtractor(cfg.Extractor.APIKey, cfg.Extractor.Model, cfg.Extractor.BaseURL, 0)
	engine := scoring.NewRemoteEngine(cfg.Scoring.BaseURL, 0)
	j := judge.NewLLMJudge(cfg.Judge.APIKey, cfg.Judge.Model, cfg.Judge.BaseURL, 0)

	if err := engine.IsAvailable(ctx); err != nil {
		return nil, fmt.Errorf("score calculator not available: %w", err)
	}

	pipe := pipeline.New(ex, engine, j, logger)

	var lang sampler.LanguageChecker
	if cfg.LangCheck && !noLangCheck {
		lang = langcheck.New()
	}

	return sampler.New(gen, pipe, lang, cfg.Workers, logger), nil
}

// printCandidate renders one candidate's verification outcome the way the
// batch summary expects to read it.
func printCandidate(c sampler.CandidateResult) {
	sr := c.Result
	if sr == nil {
		return
	}

	switch sr.Status {
	case pipeline.StatusGenerationFailed:
		fmt.Printf("候補 %d: ✗ 生成失敗 (%s)\n", c.Index, sr.Reason)
	case pipeline.StatusExtractionFailed:
		fmt.Printf("候補 %d: ✗ 抽出失敗 (%s)\n", c.Index, sr.Reason)
	case pipeline.StatusCalculationFailed:
		fmt.Printf("候補 %d: ✓ 抽出成功, ✗ 計算失敗 (%s)\n", c.Index, sr.Reason)
	case pipeline.StatusVerified:
		fmt.Printf("候補 %d: ✓ 抽出成功, ✓ 計算成功 (点数: %d, 役: %s)\n",
			c.Index, sr.Score.Score, strings.Join(sr.Score.Yaku, ", "))
		if sr.ComplianceJudged {
			fmt.Printf("  指示適合性: %s\n", sr.ComplianceVerdict)
			if sr.ComplianceReason != "" {
				fmt.Printf("  理由: %s\n", sr.ComplianceReason)
			}
		}
	}
}

// printInstructionSummary prints the per-instruction statistics block.
func printInstructionSummary(res batch.InstructionResult) {
	verified, compliant := res.Outcome.Verified, res.Outcome.Compliant

	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Printf("指示 %d の結果:\n", res.Index)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("総候補数: %d\n", len(res.Candidates))
	fmt.Printf("検証済み候補数: %d\n", verified)
	fmt.Printf("指示適合候補数: %d\n", compliant)

	if res.Outcome.Selected != nil {
		fmt.Printf("選択された候補: %d (成功: %v)\n", res.Outcome.Selected.Index, res.Outcome.Success)
	} else {
		fmt.Println("選択された候補: なし")
	}
}
