// Package selector picks the final problem for an instruction from its
// verified candidates.
package selector

import (
	"math/rand"

	"github.com/rkoshiba/janmon/internal/sampler"
)

// Outcome describes the selection made for one instruction's candidates.
type Outcome struct {
	// Success is true only when the selected candidate was judged
	// compliant with the instruction.
	Success  bool                     `json:"success"`
	Selected *sampler.CandidateResult `json:"selected,omitempty"`

	Compliant int `json:"compliant_candidates"`
	Verified  int `json:"verified_candidates"`
}

// Selector chooses among candidates. A nil rng uses the shared global
// source; tests inject a seeded one.
type Selector struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

func (s *Selector) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

// Select picks uniformly among compliant verified candidates. When none are
// compliant it falls back to a uniform pick among all verified candidates
// with Success false, and when nothing verified it selects nothing.
func (s *Selector) Select(candidates []sampler.CandidateResult) Outcome {
	var verified, compliant []int
	for i, c := range candidates {
		if c.Result == nil || !c.Result.Verified() {
			continue
		}
		verified = append(verified, i)
		if c.Result.Compliant() {
			compliant = append(compliant, i)
		}
	}

	out := Outcome{Compliant: len(compliant), Verified: len(verified)}

	switch {
	case len(compliant) > 0:
		out.Success = true
		out.Selected = &candidates[compliant[s.intn(len(compliant))]]
	case len(verified) > 0:
		out.Selected = &candidates[verified[s.intn(len(verified))]]
	}

	return out
}
