package engine

import (
	"time"

	"github.com/google/uuid"
)

// Report is the per-pass diagnostic record. Per-task recoveries never abort
// a pass; they surface here instead.
type Report struct {
	PassID   string        `json:"pass_id"`
	Strategy string        `json:"strategy"`
	Fallback bool          `json:"fallback"`
	Tasks    int           `json:"tasks"`
	Products int           `json:"products"`
	Records  int           `json:"records"`
	Elapsed  time.Duration `json:"elapsed"`
	Warnings []string      `json:"warnings,omitempty"`
}

func newReport() *Report {
	return &Report{PassID: uuid.NewString()}
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
