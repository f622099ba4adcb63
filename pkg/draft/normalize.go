package draft

// PrepareForSubmission turns an edited draft into the wire-ready payload.
// Stages created in the editor (nil ID) receive fresh IDs from a monotonic
// counter seeded above the largest ID already present, so new IDs can never
// collide with persisted ones. Existing stages keep their exact ID. The
// result is a new value and the transformation is idempotent: a prepared
// draft passes through unchanged.
//
// Boolean coercion needs no work here: the draft carries native booleans, and
// the loose wire representations are normalized by models.FlexBool on decode.
func PrepareForSubmission(form FormData) FormData {
	out := form
	out.Data.Stages = AssignStageIDs(form.Data.Stages)

	return out
}

// AssignStageIDs returns a copy of stages where every nil ID has been
// replaced by the next value of a counter starting above the maximum ID in
// the input.
func AssignStageIDs(stages []StageDraft) []StageDraft {
	out := cloneStages(stages)

	next := maxStageID(out) + 1
	for i := range out {
		if out[i].ID == nil {
			id := next
			out[i].ID = &id
			next++
		}
	}

	return out
}

func maxStageID(stages []StageDraft) int64 {
	var max int64

	for _, stage := range stages {
		if stage.ID != nil && *stage.ID > max {
			max = *stage.ID
		}
	}

	return max
}
