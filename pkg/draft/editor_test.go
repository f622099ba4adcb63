package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStages() []StageDraft {
	first := int64(1)

	return []StageDraft{
		{ID: &first, Name: "Qualify", Queries: []string{"Is it funded?", "Is it B2B?"}, Threshold: 0.7},
		{Name: "Score", Queries: []string{"Does it hire?"}, Threshold: 0.4},
	}
}

func TestAddStage_AppendsBlankStage(t *testing.T) {
	stages := AddStage(nil)

	require.Len(t, stages, 1)
	assert.Nil(t, stages[0].ID)
	assert.Empty(t, stages[0].Name)
	assert.Equal(t, []string{""}, stages[0].Queries)
	assert.InDelta(t, 0.5, stages[0].Threshold, 0)
}

func TestAddStage_DoesNotMutateInput(t *testing.T) {
	input := sampleStages()

	out := AddStage(input)

	require.Len(t, input, 2)
	require.Len(t, out, 3)

	out[0].Name = "mutated"
	out[0].Queries[0] = "mutated"
	assert.Equal(t, "Qualify", input[0].Name)
	assert.Equal(t, "Is it funded?", input[0].Queries[0])
}

func TestRemoveStage(t *testing.T) {
	input := sampleStages()

	out, err := RemoveStage(input, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Score", out[0].Name)
	// remaining stage keeps its (absent) ID, no renumbering
	assert.Nil(t, out[0].ID)

	require.Len(t, input, 2)
}

func TestRemoveStage_OutOfRange(t *testing.T) {
	_, err := RemoveStage(sampleStages(), 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = RemoveStage(sampleStages(), -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSetStageName_OnlyTouchesTargetField(t *testing.T) {
	input := sampleStages()

	out, err := SetStageName(input, 1, "Deep Dive")
	require.NoError(t, err)
	assert.Equal(t, "Deep Dive", out[1].Name)
	assert.Equal(t, input[1].Queries, out[1].Queries)
	assert.InDelta(t, input[1].Threshold, out[1].Threshold, 0)
	assert.Equal(t, input[0], out[0])
	assert.Equal(t, "Score", input[1].Name)
}

func TestSetStageThreshold(t *testing.T) {
	out, err := SetStageThreshold(sampleStages(), 0, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, out[0].Threshold, 0)

	_, err = SetStageThreshold(sampleStages(), 5, 0.9)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestAddQuery(t *testing.T) {
	input := sampleStages()

	out, err := AddQuery(input, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Does it hire?", ""}, out[1].Queries)
	assert.Equal(t, []string{"Does it hire?"}, input[1].Queries)
}

func TestRemoveQuery(t *testing.T) {
	out, err := RemoveQuery(sampleStages(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Is it B2B?"}, out[0].Queries)
}

func TestRemoveQuery_LastQueryLeavesEmptyList(t *testing.T) {
	// Allowed at the editor level; validation rejects the empty list later.
	out, err := RemoveQuery(sampleStages(), 1, 0)
	require.NoError(t, err)
	assert.Empty(t, out[1].Queries)
}

func TestRemoveQuery_OutOfRange(t *testing.T) {
	_, err := RemoveQuery(sampleStages(), 1, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = RemoveQuery(sampleStages(), 9, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSetQuery(t *testing.T) {
	input := sampleStages()

	out, err := SetQuery(input, 0, 1, "Is it profitable?")
	require.NoError(t, err)
	assert.Equal(t, "Is it profitable?", out[0].Queries[1])
	assert.Equal(t, "Is it B2B?", input[0].Queries[1])
}

func TestEditorOperations_SequenceNeverAliases(t *testing.T) {
	original := sampleStages()
	snapshot := cloneStages(original)

	step1 := AddStage(original)
	step2, err := SetStageName(step1, 2, "Closing")
	require.NoError(t, err)
	step3, err := AddQuery(step2, 2)
	require.NoError(t, err)
	_, err = SetQuery(step3, 2, 0, "Ready to buy?")
	require.NoError(t, err)

	assert.Equal(t, snapshot, original)
}
