package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// RunStatus is the lifecycle state of a workflow run as reported by the
// execution engine.
type RunStatus string

const (
	RunStatusCompleted  RunStatus = "Completed"
	RunStatusFailed     RunStatus = "Failed"
	RunStatusInProgress RunStatus = "In Progress"
)

// Valid reports whether s is a recognized run status.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusInProgress:
		return true
	default:
		return false
	}
}

// CompanyRef identifies one evaluated company in a run result.
type CompanyRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RunData is the progress payload of a workflow run.
type RunData struct {
	TotalCompanies        int          `json:"total_companies"`
	ProcessedCompanies    int          `json:"processed_companies"`
	SuccessfulCompanies   []CompanyRef `json:"successful_companies"`
	UnsuccessfulCompanies []CompanyRef `json:"unsuccessful_companies"`
	IsSandbox             FlexBool     `json:"is_sandbox"`
}

// WorkflowRun is a historical or in-progress execution record. It is produced
// by the external execution engine; the console stores and serves it but
// never mutates it.
type WorkflowRun struct {
	ID                      int64      `json:"id"`
	WorkflowID              int64      `json:"workflow_id"`
	TargetCompaniesCategory string     `json:"target_companies_category"`
	Status                  RunStatus  `json:"status"`
	Data                    RunData    `json:"data"`
	StartedAt               time.Time  `json:"started_at"`
	CompletedAt             *time.Time `json:"completed_at"`
}

var (
	// ErrInvalidRunStatus is returned for statuses outside the known set.
	ErrInvalidRunStatus = errors.New("invalid run status")

	// ErrRunCountsInconsistent is returned when run counters violate the
	// processed/total accounting invariants.
	ErrRunCountsInconsistent = errors.New("inconsistent run company counts")
)

// Validate enforces the run accounting invariants:
// processed <= total and |successful| + |unsuccessful| <= processed.
func (r *WorkflowRun) Validate() error {
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRunStatus, r.Status)
	}

	data := r.Data
	if data.TotalCompanies < 0 || data.ProcessedCompanies < 0 {
		return fmt.Errorf("%w: negative counters", ErrRunCountsInconsistent)
	}

	if data.ProcessedCompanies > data.TotalCompanies {
		return fmt.Errorf("%w: processed %d exceeds total %d",
			ErrRunCountsInconsistent, data.ProcessedCompanies, data.TotalCompanies)
	}

	outcomes := len(data.SuccessfulCompanies) + len(data.UnsuccessfulCompanies)
	if outcomes > data.ProcessedCompanies {
		return fmt.Errorf("%w: %d outcomes exceed %d processed",
			ErrRunCountsInconsistent, outcomes, data.ProcessedCompanies)
	}

	return nil
}

// Progress returns the completion percentage, rounded to the nearest integer.
// A run over zero companies reports 0 rather than dividing by zero.
func (r *WorkflowRun) Progress() int {
	if r.Data.TotalCompanies == 0 {
		return 0
	}

	ratio := float64(r.Data.ProcessedCompanies) / float64(r.Data.TotalCompanies)

	return int(math.Round(ratio * 100))
}
