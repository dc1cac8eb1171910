// Package sampler generates and verifies a batch of candidate questions
// for one instruction, fanning out over a bounded number of workers.
// A candidate that panics or fails at any stage becomes a failure result;
// one bad candidate never takes down the batch.
package sampler

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/rkoshiba/janmon/internal/generator"
	"github.com/rkoshiba/janmon/internal/pipeline"
)

// DefaultWorkers bounds candidate fan-out when no limit is configured.
const DefaultWorkers = 10

// LanguageChecker validates that a generated question text is usable
// before it enters verification.
type LanguageChecker interface {
	LooksJapanese(text string) bool
}

// CandidateResult pairs a candidate index with its question text and the
// stage result it ended with. Index is 1-based.
type CandidateResult struct {
	Index    int                   `json:"candidate_number"`
	Question string                `json:"question,omitempty"`
	Result   *pipeline.StageResult `json:"result"`
}

// Sampler runs repeated sampling for single instructions.
type Sampler struct {
	gen     generator.Generator
	pipe    *pipeline.Pipeline
	lang    LanguageChecker
	workers int64
	log     *zap.Logger
}

// New creates a sampler. lang may be nil to skip the language gate;
// workers <= 0 falls back to DefaultWorkers.
func New(gen generator.Generator, pipe *pipeline.Pipeline, lang LanguageChecker, workers int, log *zap.Logger) *Sampler {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{gen: gen, pipe: pipe, lang: lang, workers: int64(workers), log: log}
}

// Sample generates and verifies count candidates for the instruction. The
// returned slice always has exactly count entries, ordered by candidate
// index. An empty instruction generates free variations and skips
// compliance judging.
func (s *Sampler) Sample(ctx context.Context, instruction string, count int) []CandidateResult {
	if count <= 0 {
		return nil
	}

	s.log.Info("sampling candidates",
		zap.String("instruction", instruction),
		zap.Int("count", count))

	sem := semaphore.NewWeighted(s.workers)
	results := make(chan CandidateResult, count)

	var wg sync.WaitGroup
	for i := 1; i <= count; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			results <- s.runCandidate(ctx, sem, instruction, index)
		}(i)
	}

	wg.Wait()
	close(results)

	out := make([]CandidateResult, 0, count)
	for r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

func (s *Sampler) runCandidate(ctx context.Context, sem *semaphore.Weighted, instruction string, index int) (res CandidateResult) {
	res = CandidateResult{Index: index}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("candidate panicked",
				zap.Int("candidate", index),
				zap.Any("panic", r))
			res.Result = pipeline.GenerationFailed(fmt.Sprintf("candidate panicked: %v", r))
		}
	}()

	if err := sem.Acquire(ctx, 1); err != nil {
		res.Result = pipeline.GenerationFailed(err.Error())
		return res
	}
	defer sem.Release(1)

	genInstruction := instruction
	if genInstruction == "" {
		genInstruction = generator.VariationInstruction(index)
	}

	question, err := s.gen.Generate(ctx, genInstruction)
	if err != nil {
		s.log.Debug("generation failed", zap.Int("candidate", index), zap.Error(err))
		res.Result = pipeline.GenerationFailed(err.Error())
		return res
	}
	if question == "" {
		res.Result = pipeline.GenerationFailed("empty question text")
		return res
	}
	res.Question = question

	if s.lang != nil && !s.lang.LooksJapanese(question) {
		s.log.Debug("language gate rejected candidate", zap.Int("candidate", index))
		res.Result = pipeline.GenerationFailed("question text is not Japanese")
		return res
	}

	res.Result = s.pipe.Run(ctx, instruction, question)
	return res
}
