package pipeline

import (
	"github.com/rkoshiba/janmon/internal/hand"
	"github.com/rkoshiba/janmon/internal/judge"
	"github.com/rkoshiba/janmon/internal/scoring"
)

// Stage statuses. A candidate carries exactly one, naming the furthest
// stage it reached.
const (
	StatusGenerationFailed  = "generation_failed"
	StatusExtractionFailed  = "extraction_failed"
	StatusCalculationFailed = "calculation_failed"
	StatusVerified          = "verified"
)

// StageResult records how far a single candidate got through the
// verification stages and what was learned along the way.
type StageResult struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`

	Hand  *hand.Hand      `json:"hand,omitempty"`
	Score *scoring.Result `json:"score,omitempty"`

	// ComplianceJudged is true only when the judge produced a reply.
	// A verified candidate whose judge call failed stays verified with
	// this flag false.
	ComplianceJudged bool   `json:"compliance_judged"`
	ComplianceRaw    string `json:"compliance_raw,omitempty"`

	ComplianceVerdict string `json:"compliance_verdict,omitempty"`
	ComplianceParsed  bool   `json:"compliance_parsed,omitempty"`
	ComplianceReason  string `json:"compliance_reason,omitempty"`
}

// GenerationFailed marks a candidate whose question text never arrived.
func GenerationFailed(reason string) *StageResult {
	return &StageResult{Status: StatusGenerationFailed, Reason: reason}
}

// ExtractionFailed marks a candidate whose question text yielded no hand.
func ExtractionFailed(reason string) *StageResult {
	return &StageResult{Status: StatusExtractionFailed, Reason: reason}
}

// CalculationFailed marks a candidate whose hand failed validation or
// scoring.
func CalculationFailed(h *hand.Hand, reason string) *StageResult {
	return &StageResult{Status: StatusCalculationFailed, Hand: h, Reason: reason}
}

// Verified marks a candidate that passed validation and scoring.
func Verified(h *hand.Hand, score *scoring.Result) *StageResult {
	return &StageResult{Status: StatusVerified, Hand: h, Score: score}
}

// Verified reports whether the candidate passed validation and scoring.
func (r *StageResult) Verified() bool {
	return r.Status == StatusVerified
}

// Compliant reports whether the candidate is verified and the judge parsed
// an affirmative verdict for it.
func (r *StageResult) Compliant() bool {
	return r.Verified() && r.ComplianceJudged && r.ComplianceParsed && r.ComplianceVerdict == "Yes"
}

// ReachedCalculation reports whether extraction succeeded, i.e. the
// candidate made it to the scoring stage regardless of the outcome there.
func (r *StageResult) ReachedCalculation() bool {
	return r.Status == StatusCalculationFailed || r.Status == StatusVerified
}

func (r *StageResult) setVerdict(raw string) {
	v := judge.ParseVerdict(raw)
	r.ComplianceJudged = true
	r.ComplianceRaw = raw
	r.ComplianceVerdict = v.Value
	r.ComplianceParsed = v.Parsed
	r.ComplianceReason = v.Reason
}
