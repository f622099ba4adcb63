package draft

import (
	"errors"
	"testing"

	"github.com/scoutflow/scoutflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittableForm() FormData {
	return FormData{
		Title:                   "Lead Scoring",
		TargetCompaniesCategory: "SaaS Startups",
		IsScheduled:             true,
		ScheduleFrequency:       models.FrequencyDaily,
		Data: StageData{Stages: []StageDraft{
			{Name: "Qualify", Queries: []string{"Is it funded?"}, Threshold: 0.7},
		}},
	}
}

func reason(t *testing.T, err error) *ValidationError {
	t.Helper()

	var vErr *ValidationError

	require.True(t, errors.As(err, &vErr), "expected a ValidationError, got %v", err)

	return vErr
}

func TestValidate_Submittable(t *testing.T) {
	assert.NoError(t, Validate(submittableForm()))
}

func TestValidate_MissingTitle(t *testing.T) {
	form := submittableForm()
	form.Title = ""

	assert.Equal(t, ReasonMissingTitle, reason(t, Validate(form)).Reason)
}

func TestValidate_OrderIsDeterministic(t *testing.T) {
	// Title and category are both missing; title is always reported first.
	form := submittableForm()
	form.Title = ""
	form.TargetCompaniesCategory = ""

	for range 10 {
		assert.Equal(t, ReasonMissingTitle, reason(t, Validate(form)).Reason)
	}
}

func TestValidate_MissingCategory(t *testing.T) {
	form := submittableForm()
	form.TargetCompaniesCategory = ""

	assert.Equal(t, ReasonMissingCategory, reason(t, Validate(form)).Reason)
}

func TestValidate_NoStages(t *testing.T) {
	form := submittableForm()
	form.Data.Stages = nil

	assert.Equal(t, ReasonNoStages, reason(t, Validate(form)).Reason)
}

func TestValidate_FreshStageFailsOnNameBeforeQuery(t *testing.T) {
	// A stage straight out of AddStage has an empty name AND an empty query;
	// the name rule fires first, confirming the fixed check order.
	form := submittableForm()
	form.Data.Stages = AddStage(form.Data.Stages)

	vErr := reason(t, Validate(form))
	assert.Equal(t, ReasonStageMissingName, vErr.Reason)
	assert.Equal(t, 1, vErr.Stage)
}

func TestValidate_StageMissingQueries(t *testing.T) {
	form := submittableForm()
	form.Data.Stages[0].Queries = nil

	vErr := reason(t, Validate(form))
	assert.Equal(t, ReasonStageMissingQueries, vErr.Reason)
	assert.Equal(t, 0, vErr.Stage)
}

func TestValidate_EmptyQueryCarriesBothIndexes(t *testing.T) {
	form := submittableForm()
	form.Data.Stages[0].Queries = []string{"Is it funded?", ""}

	vErr := reason(t, Validate(form))
	assert.Equal(t, ReasonEmptyQuery, vErr.Reason)
	assert.Equal(t, 0, vErr.Stage)
	assert.Equal(t, 1, vErr.Query)
}

// The threshold range is clamped where input is acquired; the reference
// behavior did not re-check it at submission time. The defensive re-check
// below is a deliberate hardening addition, not a compatibility behavior.
func TestValidate_ThresholdOutOfRange(t *testing.T) {
	form := submittableForm()
	form.Data.Stages[0].Threshold = 1.5

	vErr := reason(t, Validate(form))
	assert.Equal(t, ReasonThresholdOutOfRange, vErr.Reason)
	assert.Equal(t, 0, vErr.Stage)
}

func TestValidate_ThresholdBoundsInclusive(t *testing.T) {
	form := submittableForm()

	form.Data.Stages[0].Threshold = 0
	assert.NoError(t, Validate(form))

	form.Data.Stages[0].Threshold = 1
	assert.NoError(t, Validate(form))
}

func TestValidationError_Messages(t *testing.T) {
	form := submittableForm()
	form.Data.Stages[0].Queries = []string{""}

	err := Validate(form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question 0 of stage 0")
}
