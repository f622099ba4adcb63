package models

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleFrequency is a workflow execution interval encoded as seconds.
// Only the four canonical values below are valid on the wire; the field is
// meaningful only while a workflow is scheduled but always holds a valid
// value.
type ScheduleFrequency int64

const (
	FrequencyHourly  ScheduleFrequency = 3600
	FrequencyDaily   ScheduleFrequency = 86400
	FrequencyWeekly  ScheduleFrequency = 604800
	FrequencyMonthly ScheduleFrequency = 2592000
)

const (
	// UnknownFrequencyLabel is the display fallback for unmapped values.
	UnknownFrequencyLabel = "Unknown"

	// DefaultFrequencyLabel is the edit-form fallback for unmapped values.
	DefaultFrequencyLabel = "Daily"
)

var frequencyLabels = map[ScheduleFrequency]string{
	FrequencyHourly:  "Hourly",
	FrequencyDaily:   "Daily",
	FrequencyWeekly:  "Weekly",
	FrequencyMonthly: "Monthly",
}

var labelFrequencies = map[string]ScheduleFrequency{
	"Hourly":  FrequencyHourly,
	"Daily":   FrequencyDaily,
	"Weekly":  FrequencyWeekly,
	"Monthly": FrequencyMonthly,
}

// ScheduleLabels returns the selectable labels in display order.
func ScheduleLabels() []string {
	return []string{"Hourly", "Daily", "Weekly", "Monthly"}
}

// Valid reports whether f is one of the four canonical frequencies.
func (f ScheduleFrequency) Valid() bool {
	_, ok := frequencyLabels[f]

	return ok
}

// Label returns the human-readable label for display surfaces. Unmapped
// values yield "Unknown" rather than failing the caller.
func (f ScheduleFrequency) Label() string {
	if label, ok := frequencyLabels[f]; ok {
		return label
	}

	return UnknownFrequencyLabel
}

// EditLabel returns the label to preselect in an edit form. Unlike Label,
// unmapped values fall back to "Daily" so the form always starts on a
// submittable choice. The two fallbacks are intentionally different.
func (f ScheduleFrequency) EditLabel() string {
	if label, ok := frequencyLabels[f]; ok {
		return label
	}

	return DefaultFrequencyLabel
}

// FrequencyFromLabel maps a schedule label back to its seconds encoding.
func FrequencyFromLabel(label string) (ScheduleFrequency, error) {
	frequency, ok := labelFrequencies[label]
	if !ok {
		return 0, fmt.Errorf("unknown schedule label: %q", label)
	}

	return frequency, nil
}

// Interval returns the frequency as a duration.
func (f ScheduleFrequency) Interval() time.Duration {
	return time.Duration(f) * time.Second
}

// Next returns the next execution instant after from, assuming a fixed-delay
// schedule. Used for run previews only; actual scheduling happens in the
// execution engine.
func (f ScheduleFrequency) Next(from time.Time) time.Time {
	return cron.Every(f.Interval()).Next(from)
}
