package internal

import "time"

// Run identifies one curation run: a sample or batch invocation with its
// generator model and candidate budget.
type Run struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Model      string    `json:"model"`
	Candidates int       `json:"candidates"`
	Timestamp  time.Time `json:"timestamp"`
}
