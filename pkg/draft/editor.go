package draft

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an editor operation addresses a stage
// or query position that does not exist. It indicates broken UI state, not a
// recoverable user error.
var ErrIndexOutOfRange = errors.New("index out of range")

const (
	newStageThreshold = 0.5
)

// AddStage appends a blank stage: empty name, a single empty query slot so
// the query list always has one editable row, threshold 0.5, no ID.
func AddStage(stages []StageDraft) []StageDraft {
	out := cloneStages(stages)

	return append(out, StageDraft{
		Name:      "",
		Queries:   []string{""},
		Threshold: newStageThreshold,
	})
}

// RemoveStage removes the stage at index. Remaining stages keep their IDs.
func RemoveStage(stages []StageDraft, index int) ([]StageDraft, error) {
	if err := checkStageIndex(stages, index); err != nil {
		return nil, err
	}

	out := cloneStages(stages)

	return append(out[:index], out[index+1:]...), nil
}

// SetStageName replaces the name of the stage at index.
func SetStageName(stages []StageDraft, index int, name string) ([]StageDraft, error) {
	if err := checkStageIndex(stages, index); err != nil {
		return nil, err
	}

	out := cloneStages(stages)
	out[index].Name = name

	return out, nil
}

// SetStageThreshold replaces the threshold of the stage at index. Range
// clamping happens at the input boundary; the editor stores what it is given.
func SetStageThreshold(stages []StageDraft, index int, threshold float64) ([]StageDraft, error) {
	if err := checkStageIndex(stages, index); err != nil {
		return nil, err
	}

	out := cloneStages(stages)
	out[index].Threshold = threshold

	return out, nil
}

// AddQuery appends an empty query slot to the stage at stageIndex.
func AddQuery(stages []StageDraft, stageIndex int) ([]StageDraft, error) {
	if err := checkStageIndex(stages, stageIndex); err != nil {
		return nil, err
	}

	out := cloneStages(stages)
	out[stageIndex].Queries = append(out[stageIndex].Queries, "")

	return out, nil
}

// RemoveQuery removes one query from a stage. Removing the last remaining
// query is allowed here; the empty list fails validation at submission time
// instead.
func RemoveQuery(stages []StageDraft, stageIndex, queryIndex int) ([]StageDraft, error) {
	if err := checkQueryIndex(stages, stageIndex, queryIndex); err != nil {
		return nil, err
	}

	out := cloneStages(stages)
	queries := out[stageIndex].Queries
	out[stageIndex].Queries = append(queries[:queryIndex], queries[queryIndex+1:]...)

	return out, nil
}

// SetQuery replaces one query string positionally.
func SetQuery(stages []StageDraft, stageIndex, queryIndex int, value string) ([]StageDraft, error) {
	if err := checkQueryIndex(stages, stageIndex, queryIndex); err != nil {
		return nil, err
	}

	out := cloneStages(stages)
	out[stageIndex].Queries[queryIndex] = value

	return out, nil
}

func checkStageIndex(stages []StageDraft, index int) error {
	if index < 0 || index >= len(stages) {
		return fmt.Errorf("stage %d of %d: %w", index, len(stages), ErrIndexOutOfRange)
	}

	return nil
}

func checkQueryIndex(stages []StageDraft, stageIndex, queryIndex int) error {
	if err := checkStageIndex(stages, stageIndex); err != nil {
		return err
	}

	queries := stages[stageIndex].Queries
	if queryIndex < 0 || queryIndex >= len(queries) {
		return fmt.Errorf("query %d of %d in stage %d: %w",
			queryIndex, len(queries), stageIndex, ErrIndexOutOfRange)
	}

	return nil
}
