package models

import "time"

type EventKind string

const (
	EventStatusChange     EventKind = "STATUS_CHANGE"
	EventAssignmentChange EventKind = "ASSIGNMENT_CHANGE"
	EventDueDateCheck     EventKind = "DUE_DATE_CHECK"
)

// TaskEvent describes one task state transition. It is produced when a task
// mutation completes, handed to the automation controller and never stored.
type TaskEvent struct {
	ProjectID string
	TaskID    string
	Kind      EventKind
	Before    *Task
	After     *Task
	Timestamp time.Time
}
