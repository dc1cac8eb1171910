// Package pipeline runs a single candidate question through extraction,
// hand validation, score calculation and compliance judging. Every stage
// failure is recorded as data on the result rather than returned as an
// error; the pipeline itself never fails.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rkoshiba/janmon/internal/extractor"
	"github.com/rkoshiba/janmon/internal/hand"
	"github.com/rkoshiba/janmon/internal/judge"
	"github.com/rkoshiba/janmon/internal/scoring"
)

// Pipeline verifies candidate question texts.
type Pipeline struct {
	extractor extractor.Extractor
	engine    scoring.Engine
	judge     judge.Judge
	log       *zap.Logger
}

// New creates a verification pipeline. The judge may be nil, in which case
// compliance judging is skipped.
func New(ex extractor.Extractor, engine scoring.Engine, j judge.Judge, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{extractor: ex, engine: engine, judge: j, log: log}
}

// Run verifies one candidate question text against the instruction it was
// generated from. An empty instruction skips compliance judging.
func (p *Pipeline) Run(ctx context.Context, instruction, questionText string) *StageResult {
	h, err := p.extractor.Extract(ctx, questionText)
	if err != nil {
		p.log.Debug("extraction failed", zap.Error(err))
		return ExtractionFailed(err.Error())
	}
	if h == nil {
		p.log.Debug("extraction found no hand")
		return ExtractionFailed("no hand found in question text")
	}

	hand.FixTrailingWinTile(h)

	if err := hand.Validate(h); err != nil {
		p.log.Debug("hand validation failed", zap.Error(err))
		return CalculationFailed(h, err.Error())
	}

	score, err := p.engine.Score(ctx, h)
	if err != nil {
		p.log.Debug("score calculation failed", zap.Error(err))
		return CalculationFailed(h, err.Error())
	}

	res := Verified(h, score)

	if p.judge != nil && instruction != "" {
		raw, err := p.judge.Judge(ctx, instruction, score)
		if err != nil {
			p.log.Warn("compliance judging failed", zap.Error(err))
			res.Reason = fmt.Sprintf("compliance judging failed: %v", err)
		} else {
			res.setVerdict(raw)
		}
	}

	return res
}
