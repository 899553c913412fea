package engine

import (
	"context"
	"errors"

	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

// ErrTaskNotFound is returned by TaskStore implementations when the task
// vanished between event creation and command application.
var ErrTaskNotFound = errors.New("task not found")

// ErrProjectNotFound is the ProjectStore equivalent.
var ErrProjectNotFound = errors.New("project not found")

// TaskStore is the mutation surface the controller applies commands through.
// UpdateTaskStatus must not feed its own mutation back into the controller;
// the controller synthesizes follow-up events itself so the cycle guard
// stays in effect.
type TaskStore interface {
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID, newStatus string) (before, after *models.Task, err error)
}

type ProjectStore interface {
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
}

type RuleStore interface {
	ListActiveRules(ctx context.Context, projectID string) ([]models.AutomationRule, error)
}

type BadgeStore interface {
	AwardBadge(ctx context.Context, userID, badgeName, projectID string) error
}

type NotificationSink interface {
	Notify(ctx context.Context, recipientEmail, text string) error
}
