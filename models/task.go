package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Default board columns; a project may extend them.
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// TaskLabels is the fixed label vocabulary.
var TaskLabels = []string{
	"design", "development", "marketing", "research",
	"testing", "planning", "ui/ux", "backend", "frontend",
}

// Assignee identifies the project member a task is assigned to.
type Assignee struct {
	UserID string `json:"userId" bson:"userId"`
	Email  string `json:"email" bson:"email"`
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID   string             `json:"projectId" bson:"projectId"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Status      string             `json:"status" bson:"status"`
	Priority    TaskPriority       `json:"priority" bson:"priority"`
	Assignee    *Assignee          `json:"assignee,omitempty" bson:"assignee,omitempty"`
	Labels      []string           `json:"labels" bson:"labels"`
	DueDate     *time.Time         `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CreatedBy   Member             `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks the fields that do not depend on the owning project.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	switch t.Priority {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return fmt.Errorf("invalid priority: %s", t.Priority)
	}
	for _, label := range t.Labels {
		if !ValidLabel(label) {
			return fmt.Errorf("invalid label: %s", label)
		}
	}
	return nil
}

func ValidLabel(label string) bool {
	for _, l := range TaskLabels {
		if l == label {
			return true
		}
	}
	return false
}
