package engine

import (
	"context"
	"sync"

	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

// Hand-rolled in-memory stores for controller tests.

type MockTaskStore struct {
	mu    sync.Mutex
	Tasks map[string]*models.Task
	// StatusWrites records every UpdateTaskStatus call as "taskID->status".
	StatusWrites []string
	UpdateErr    error
}

func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{Tasks: make(map[string]*models.Task)}
}

func copyTask(task *models.Task) *models.Task {
	clone := *task
	return &clone
}

func (m *MockTaskStore) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[taskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return copyTask(task), nil
}

func (m *MockTaskStore) UpdateTaskStatus(ctx context.Context, taskID, newStatus string) (*models.Task, *models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, nil, m.UpdateErr
	}
	task, ok := m.Tasks[taskID]
	if !ok {
		return nil, nil, ErrTaskNotFound
	}
	before := copyTask(task)
	task.Status = newStatus
	m.StatusWrites = append(m.StatusWrites, taskID+"->"+newStatus)
	return before, copyTask(task), nil
}

type MockProjectStore struct {
	Projects map[string]*models.Project
}

func NewMockProjectStore() *MockProjectStore {
	return &MockProjectStore{Projects: make(map[string]*models.Project)}
}

func (m *MockProjectStore) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project, ok := m.Projects[projectID]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

type MockRuleStore struct {
	Rules     []models.AutomationRule
	ListCalls int
}

func (m *MockRuleStore) ListActiveRules(ctx context.Context, projectID string) ([]models.AutomationRule, error) {
	m.ListCalls++
	var active []models.AutomationRule
	for _, rule := range m.Rules {
		if rule.ProjectID == projectID && rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

type badgeAward struct {
	UserID    string
	BadgeName string
	ProjectID string
}

type MockBadgeStore struct {
	Awards []badgeAward
	Err    error
}

func (m *MockBadgeStore) AwardBadge(ctx context.Context, userID, badgeName, projectID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Awards = append(m.Awards, badgeAward{UserID: userID, BadgeName: badgeName, ProjectID: projectID})
	return nil
}

type sentNotification struct {
	Recipient string
	Text      string
}

type MockNotificationSink struct {
	Sent []sentNotification
	Err  error
}

func (m *MockNotificationSink) Notify(ctx context.Context, recipientEmail, text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, sentNotification{Recipient: recipientEmail, Text: text})
	return nil
}
