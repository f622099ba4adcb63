// Package events defines the lifecycle notifications published when workflow
// definitions change or run reports arrive.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/scoutflow/scoutflow/pkg/models"
)

type EventType string

// Topic carries every console event.
const Topic = "scoutflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowCreatedEvent EventType = "workflow.created"
	WorkflowUpdatedEvent EventType = "workflow.updated"
	WorkflowDeletedEvent EventType = "workflow.deleted"
	RunRecordedEvent     EventType = "run.recorded"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID int64          `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type WorkflowCreated struct {
	BaseEvent

	Title                   string `json:"title"`
	TargetCompaniesCategory string `json:"target_companies_category"`
	StageCount              int    `json:"stage_count"`
}

func (w WorkflowCreated) GetType() EventType {
	return WorkflowCreatedEvent
}

type WorkflowUpdated struct {
	BaseEvent

	Title      string `json:"title"`
	StageCount int    `json:"stage_count"`
}

func (w WorkflowUpdated) GetType() EventType {
	return WorkflowUpdatedEvent
}

type WorkflowDeleted struct {
	BaseEvent
}

func (w WorkflowDeleted) GetType() EventType {
	return WorkflowDeletedEvent
}

type RunRecorded struct {
	BaseEvent

	RunID    int64            `json:"run_id"`
	Status   models.RunStatus `json:"status"`
	Progress int              `json:"progress"`
}

func (r RunRecorded) GetType() EventType {
	return RunRecordedEvent
}

func NewBaseEvent(eventType EventType, workflowID int64) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}
