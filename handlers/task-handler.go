package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Pranjal6955/TaskBoard-Pro/engine"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
	"github.com/Pranjal6955/TaskBoard-Pro/services"
)

// taskStore is the slice of TaskService the handler needs.
type taskStore interface {
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	GetTaskByID(ctx context.Context, taskID string) (*models.Task, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]*models.Task, error)
	UpdateTask(ctx context.Context, taskID string, update services.TaskUpdate) (*models.Task, error)
	ChangeTaskStatus(ctx context.Context, taskID, newStatus string) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

type TaskHandler struct {
	tasks    taskStore
	projects projectStore
}

func NewTaskHandler(tasks taskStore, projects projectStore) *TaskHandler {
	return &TaskHandler{tasks: tasks, projects: projects}
}

// taskForMember loads the task and verifies the caller belongs to its
// project. Writes the error response itself and returns nil on failure.
func (h *TaskHandler) taskForMember(w http.ResponseWriter, r *http.Request, taskID, userID string) *models.Task {
	task, err := h.tasks.GetTaskByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, engine.ErrTaskNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return nil
	}
	if requireMembership(r.Context(), w, h.projects, task.ProjectID, userID) == nil {
		return nil
	}
	return task
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if task.ProjectID == "" {
		http.Error(w, "projectId is required", http.StatusBadRequest)
		return
	}
	if requireMembership(r.Context(), w, h.projects, task.ProjectID, identity.UID) == nil {
		return
	}

	task.CreatedBy = memberFromIdentity(identity)
	created, err := h.tasks.CreateTask(r.Context(), &task)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *TaskHandler) GetTasksByProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	projectID := mux.Vars(r)["projectId"]

	if requireMembership(r.Context(), w, h.projects, projectID, identity.UID) == nil {
		return
	}

	tasks, err := h.tasks.ListTasksByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	task := h.taskForMember(w, r, mux.Vars(r)["id"], identity.UID)
	if task == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}

type updateTaskRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Status        *string              `json:"status"`
	Priority      *models.TaskPriority `json:"priority"`
	Labels        *[]string            `json:"labels"`
	DueDate       *string              `json:"dueDate"`
	ClearDueDate  bool                 `json:"clearDueDate"`
	Assignee      *models.Assignee     `json:"assignee"`
	ClearAssignee bool                 `json:"clearAssignee"`
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]
	if h.taskForMember(w, r, taskID, identity.UID) == nil {
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	update := services.TaskUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		Labels:        req.Labels,
		ClearDueDate:  req.ClearDueDate,
		Assignee:      req.Assignee,
		ClearAssignee: req.ClearAssignee,
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			http.Error(w, "Invalid dueDate format", http.StatusBadRequest)
			return
		}
		update.DueDate = &dueDate
	}

	task, err := h.tasks.UpdateTask(r.Context(), taskID, update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]
	if h.taskForMember(w, r, taskID, identity.UID) == nil {
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, "Status is required", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.ChangeTaskStatus(r.Context(), taskID, req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task)
}

// DeleteTask removes a task; repeating the call for the same id succeeds.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]

	task, err := h.tasks.GetTaskByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, engine.ErrTaskNotFound) {
			// Already gone: deletion is idempotent.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requireMembership(r.Context(), w, h.projects, task.ProjectID, identity.UID) == nil {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), taskID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
