package batch

import "github.com/rkoshiba/janmon/internal/pipeline"

// Report aggregates candidate and instruction counts across a batch run.
type Report struct {
	TotalInstructions      int `json:"total_instructions"`
	SuccessfulInstructions int `json:"successful_instructions"`

	TotalCandidates     int `json:"total_candidates"`
	GenerationFailures  int `json:"generation_failures"`
	ExtractionSuccesses int `json:"extraction_successes"`
	VerifiedCandidates  int `json:"verified_candidates"`
	JudgedCandidates    int `json:"judged_candidates"`
	CompliantCandidates int `json:"compliant_candidates"`
}

// Aggregate computes the report for a set of instruction results.
func Aggregate(results []InstructionResult) *Report {
	r := &Report{TotalInstructions: len(results)}

	for _, inst := range results {
		if inst.Outcome.Success {
			r.SuccessfulInstructions++
		}
		for _, cand := range inst.Candidates {
			r.TotalCandidates++
			sr := cand.Result
			if sr == nil {
				continue
			}
			if sr.Status == pipeline.StatusGenerationFailed {
				r.GenerationFailures++
			}
			if sr.ReachedCalculation() {
				r.ExtractionSuccesses++
			}
			if sr.Verified() {
				r.VerifiedCandidates++
			}
			if sr.ComplianceJudged {
				r.JudgedCandidates++
				if sr.Compliant() {
					r.CompliantCandidates++
				}
			}
		}
	}

	return r
}

// SuccessRate is the share of instructions whose selected candidate was
// judged compliant. ok is false when no instructions ran.
func (r *Report) SuccessRate() (float64, bool) {
	if r.TotalInstructions == 0 {
		return 0, false
	}
	return float64(r.SuccessfulInstructions) / float64(r.TotalInstructions), true
}

// ExtractionRate is the share of all candidates whose question text
// yielded a parseable hand.
func (r *Report) ExtractionRate() (float64, bool) {
	if r.TotalCandidates == 0 {
		return 0, false
	}
	return float64(r.ExtractionSuccesses) / float64(r.TotalCandidates), true
}

// CalculationRate is the share of extracted hands that validated and
// scored, measured against extraction successes.
func (r *Report) CalculationRate() (float64, bool) {
	if r.ExtractionSuccesses == 0 {
		return 0, false
	}
	return float64(r.VerifiedCandidates) / float64(r.ExtractionSuccesses), true
}

// ComplianceRate is the share of judged candidates found compliant,
// measured against candidates the judge actually replied for.
func (r *Report) ComplianceRate() (float64, bool) {
	if r.JudgedCandidates == 0 {
		return 0, false
	}
	return float64(r.CompliantCandidates) / float64(r.JudgedCandidates), true
}
