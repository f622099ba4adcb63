package draft

import "fmt"

// FailureReason identifies the first submission rule a draft violates.
type FailureReason string

const (
	ReasonMissingTitle        FailureReason = "missing_title"
	ReasonMissingCategory     FailureReason = "missing_category"
	ReasonNoStages            FailureReason = "no_stages"
	ReasonStageMissingName    FailureReason = "stage_missing_name"
	ReasonStageMissingQueries FailureReason = "stage_missing_queries"
	ReasonEmptyQuery          FailureReason = "empty_query"
	ReasonThresholdOutOfRange FailureReason = "threshold_out_of_range"
)

// ValidationError reports the first violated submission rule. Stage and Query
// are positional indexes into the draft; they are -1 when the reason is not
// tied to a stage or query.
type ValidationError struct {
	Reason FailureReason
	Stage  int
	Query  int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingTitle:
		return "workflow title is required"
	case ReasonMissingCategory:
		return "target company category is required"
	case ReasonNoStages:
		return "workflow needs at least one stage"
	case ReasonStageMissingName:
		return fmt.Sprintf("stage %d needs a name", e.Stage)
	case ReasonStageMissingQueries:
		return fmt.Sprintf("stage %d needs at least one question", e.Stage)
	case ReasonEmptyQuery:
		return fmt.Sprintf("question %d of stage %d is empty", e.Query, e.Stage)
	case ReasonThresholdOutOfRange:
		return fmt.Sprintf("stage %d threshold must be between 0 and 1", e.Stage)
	default:
		return "draft is not submittable"
	}
}

func newValidationError(reason FailureReason, stage, query int) *ValidationError {
	return &ValidationError{Reason: reason, Stage: stage, Query: query}
}

// Validate gates submission. Rules run in a fixed order and stop at the first
// failure, so the edit surface always reports exactly one problem: title,
// category, stage-list presence, then per stage in order its name, its query
// list, each query, and finally the threshold range. A nil result means the
// draft is submittable. The threshold range check re-verifies the clamp
// enforced at the input boundary.
func Validate(form FormData) error {
	if form.Title == "" {
		return newValidationError(ReasonMissingTitle, -1, -1)
	}

	if form.TargetCompaniesCategory == "" {
		return newValidationError(ReasonMissingCategory, -1, -1)
	}

	if len(form.Data.Stages) == 0 {
		return newValidationError(ReasonNoStages, -1, -1)
	}

	for stageIndex, stage := range form.Data.Stages {
		if stage.Name == "" {
			return newValidationError(ReasonStageMissingName, stageIndex, -1)
		}

		if len(stage.Queries) == 0 {
			return newValidationError(ReasonStageMissingQueries, stageIndex, -1)
		}

		for queryIndex, query := range stage.Queries {
			if query == "" {
				return newValidationError(ReasonEmptyQuery, stageIndex, queryIndex)
			}
		}

		if stage.Threshold < 0 || stage.Threshold > 1 {
			return newValidationError(ReasonThresholdOutOfRange, stageIndex, -1)
		}
	}

	return nil
}
