package draft

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/scoutflow/scoutflow/pkg/models"
)

// ErrSubmissionInFlight is returned when a draft is submitted while a
// previous submission of the same draft has not resolved yet.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// SubmitFunc delivers a prepared payload to the persistence collaborator,
// typically a client CreateWorkflow or UpdateWorkflow call.
type SubmitFunc func(ctx context.Context, form FormData) (*models.Workflow, error)

// Submitter runs the validate, prepare, submit sequence for one open draft
// and refuses a second submission while one is outstanding. Validation and
// transport failures release the guard so the caller can fix the draft or
// retry; the draft value itself is never modified, so no data entry is lost.
type Submitter struct {
	inFlight atomic.Bool
}

// Submit validates form, prepares it for the wire and hands it to fn.
func (s *Submitter) Submit(ctx context.Context, form FormData, fn SubmitFunc) (*models.Workflow, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	if err := Validate(form); err != nil {
		return nil, err
	}

	return fn(ctx, PrepareForSubmission(form))
}

// InFlight reports whether a submission is currently outstanding, for edit
// surfaces that disable their submit control.
func (s *Submitter) InFlight() bool {
	return s.inFlight.Load()
}
