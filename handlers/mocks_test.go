package handlers

import (
	"context"

	"github.com/Pranjal6955/TaskBoard-Pro/engine"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
	"github.com/Pranjal6955/TaskBoard-Pro/services"
)

type mockTaskStore struct {
	Tasks       map[string]*models.Task
	DeleteCalls int
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{Tasks: map[string]*models.Task{}}
}

func (m *mockTaskStore) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	m.Tasks[task.ID.Hex()] = task
	return task, nil
}

func (m *mockTaskStore) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	task, ok := m.Tasks[taskID]
	if !ok {
		return nil, engine.ErrTaskNotFound
	}
	return task, nil
}

func (m *mockTaskStore) ListTasksByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	var tasks []*models.Task
	for _, task := range m.Tasks {
		if task.ProjectID == projectID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (m *mockTaskStore) UpdateTask(ctx context.Context, taskID string, update services.TaskUpdate) (*models.Task, error) {
	return m.GetTaskByID(ctx, taskID)
}

func (m *mockTaskStore) ChangeTaskStatus(ctx context.Context, taskID, newStatus string) (*models.Task, error) {
	task, err := m.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Status = newStatus
	return task, nil
}

// DeleteTask mirrors the store contract: deleting an absent task is not an
// error.
func (m *mockTaskStore) DeleteTask(ctx context.Context, taskID string) error {
	m.DeleteCalls++
	delete(m.Tasks, taskID)
	return nil
}

type mockProjectStore struct {
	Projects map[string]*models.Project
}

func newMockProjectStore() *mockProjectStore {
	return &mockProjectStore{Projects: map[string]*models.Project{}}
}

func (m *mockProjectStore) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	project, ok := m.Projects[projectID]
	if !ok {
		return nil, engine.ErrProjectNotFound
	}
	return project, nil
}
