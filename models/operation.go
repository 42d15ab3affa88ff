package models

import (
	"fmt"
	"strings"
	"time"
)

// Operation states the service reports.
const (
	OperationStatePending    = "PENDING"
	OperationStateRunning    = "RUNNING"
	OperationStateCancelling = "CANCELLING"
	OperationStateSucceeded  = "SUCCEEDED"
	OperationStateCancelled  = "CANCELLED"
	OperationStateFailed     = "FAILED"
)

// Operation is one long-running task of the computation service, as the
// operations endpoint reports it.
type Operation struct {
	Name     string            `json:"name"`
	Done     bool              `json:"done"`
	Metadata OperationMetadata `json:"metadata"`
}

// OperationMetadata carries the task details nested under an operation.
type OperationMetadata struct {
	State                 string    `json:"state"`
	Description           string    `json:"description"`
	Type                  string    `json:"type"`
	Attempt               int       `json:"attempt"`
	Progress              float64   `json:"progress"`
	StartTime             time.Time `json:"startTime"`
	EndTime               time.Time `json:"endTime"`
	BatchEecuUsageSeconds float64   `json:"batchEecuUsageSeconds"`
}

// ListOperationsResponse wraps the operations endpoint's payload.
type ListOperationsResponse struct {
	Operations []Operation `json:"operations"`
}

// ID returns the short operation id, the part after "/operations/".
func (o Operation) ID() string {
	if i := strings.LastIndex(o.Name, "/"); i >= 0 {
		return o.Name[i+1:]
	}
	return o.Name
}

// Runtime formats the task's elapsed time as hh:mm:ss. Tasks still
// running count up to now.
func (o Operation) Runtime() string {
	if o.Metadata.StartTime.IsZero() {
		return "00:00:00"
	}
	end := o.Metadata.EndTime
	if end.IsZero() {
		end = time.Now().UTC()
	}
	d := end.Sub(o.Metadata.StartTime)
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Summary flattens an operation into the fields a task list shows.
func (o Operation) Summary() OperationSummary {
	return OperationSummary{
		ID:          o.ID(),
		Description: o.Metadata.Description,
		Type:        o.Metadata.Type,
		State:       o.Metadata.State,
		Attempt:     o.Metadata.Attempt,
		Runtime:     o.Runtime(),
		EecuSeconds: o.Metadata.BatchEecuUsageSeconds,
	}
}

// OperationSummary is the flattened task row handed to list views.
type OperationSummary struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	State       string  `json:"state"`
	Attempt     int     `json:"attempt"`
	Runtime     string  `json:"runtime"`
	EecuSeconds float64 `json:"eecuSeconds"`
}
