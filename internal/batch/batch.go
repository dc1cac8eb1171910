// Package batch runs repeated sampling over many instructions concurrently
// and aggregates the results into a curation report.
package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rkoshiba/janmon/internal/sampler"
	"github.com/rkoshiba/janmon/internal/selector"
)

// DefaultParallelism bounds instruction fan-out when no limit is
// configured.
const DefaultParallelism = 4

// InstructionResult is the complete outcome for one instruction: all of
// its candidates plus the selection made among them. Index is 1-based.
type InstructionResult struct {
	Index       int                       `json:"instruction_number"`
	Instruction string                    `json:"instruction"`
	Candidates  []sampler.CandidateResult `json:"candidates"`
	Outcome     selector.Outcome          `json:"outcome"`
}

// Coordinator fans instructions out over a bounded worker pool. Each
// instruction runs to completion independently; a panic inside one becomes
// an empty result for that instruction only.
type Coordinator struct {
	sampler     *sampler.Sampler
	selector    *selector.Selector
	candidates  int
	parallelism int
	log         *zap.Logger
}

// New creates a coordinator producing candidatesPerInstruction candidates
// for each instruction. parallelism <= 0 falls back to DefaultParallelism.
func New(s *sampler.Sampler, sel *selector.Selector, candidatesPerInstruction, parallelism int, log *zap.Logger) *Coordinator {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		sampler:     s,
		selector:    sel,
		candidates:  candidatesPerInstruction,
		parallelism: parallelism,
		log:         log,
	}
}

// Run processes every instruction and returns per-instruction results in
// input order along with the aggregate report.
func (c *Coordinator) Run(ctx context.Context, instructions []string) ([]InstructionResult, *Report) {
	results := make([]InstructionResult, len(instructions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)

	for i, instruction := range instructions {
		i, instruction := i, instruction
		g.Go(func() error {
			results[i] = c.runInstruction(ctx, i+1, instruction)
			return nil
		})
	}

	// Workers never return errors; failures are recorded per instruction.
	_ = g.Wait()

	return results, Aggregate(results)
}

func (c *Coordinator) runInstruction(ctx context.Context, index int, instruction string) (res InstructionResult) {
	res = InstructionResult{Index: index, Instruction: instruction}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("instruction processing panicked",
				zap.Int("instruction", index),
				zap.Any("panic", r))
			res.Candidates = nil
			res.Outcome = selector.Outcome{}
		}
	}()

	c.log.Info("processing instruction",
		zap.Int("instruction", index),
		zap.String("text", instruction))

	res.Candidates = c.sampler.Sample(ctx, instruction, c.candidates)
	res.Outcome = c.selector.Select(res.Candidates)

	if res.Outcome.Selected != nil {
		c.log.Info("instruction complete",
			zap.Int("instruction", index),
			zap.Bool("success", res.Outcome.Success),
			zap.Int("selected_candidate", res.Outcome.Selected.Index))
	} else {
		c.log.Warn("no candidate selected", zap.Int("instruction", index))
	}

	return res
}

// FormatRate renders a ratio as a percentage, or "N/A" when the
// denominator is zero.
func FormatRate(rate float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", rate*100)
}
