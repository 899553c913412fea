package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Pranjal6955/TaskBoard-Pro/engine"
	"github.com/Pranjal6955/TaskBoard-Pro/logging"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *models.TaskPriority
	Labels        *[]string
	DueDate       *time.Time
	ClearDueDate  bool
	Assignee      *models.Assignee
	ClearAssignee bool
}

type TaskService struct {
	tasksCollection    *mongo.Collection
	projectsCollection *mongo.Collection
	callbacks          []func(context.Context, models.TaskEvent)
}

func NewTaskService(db *mongo.Database) *TaskService {
	return &TaskService{
		tasksCollection:    db.Collection("tasks"),
		projectsCollection: db.Collection("projects"),
	}
}

// OnTaskMutated registers a callback invoked synchronously after every
// member-initiated task mutation that changes status or assignee. The
// automation controller's own writes go through UpdateTaskStatus and do not
// re-enter the hook.
func (s *TaskService) OnTaskMutated(callback func(context.Context, models.TaskEvent)) {
	s.callbacks = append(s.callbacks, callback)
}

func (s *TaskService) emit(ctx context.Context, event models.TaskEvent) {
	for _, callback := range s.callbacks {
		callback(ctx, event)
	}
}

func (s *TaskService) projectFor(ctx context.Context, projectID string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID format: %v", err)
	}
	var project models.Project
	if err := s.projectsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("failed to load project: %v", err)
	}
	return &project, nil
}

func (s *TaskService) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	project, err := s.projectFor(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	if task.Status == "" {
		task.Status = models.StatusToDo
	}
	if !project.HasStatus(task.Status) {
		return nil, fmt.Errorf("status %q is not a column of project %s", task.Status, task.ProjectID)
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	now := time.Now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now

	result, err := s.tasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, fmt.Errorf("invalid task ID format: %v", err)
	}
	var task models.Task
	if err := s.tasksCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, engine.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// GetTask implements engine.TaskStore.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	return s.GetTaskByID(ctx, taskID)
}

func (s *TaskService) ListTasksByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	cursor, err := s.tasksCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	tasks := []*models.Task{}
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		tasks = append(tasks, &task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return tasks, nil
}

// ListOverdueTasks returns tasks whose due date lies before now.
func (s *TaskService) ListOverdueTasks(ctx context.Context, now time.Time) ([]*models.Task, error) {
	cursor, err := s.tasksCollection.Find(ctx, bson.M{"dueDate": bson.M{"$lt": now}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve overdue tasks: %v", err)
	}
	defer cursor.Close(ctx)

	tasks := []*models.Task{}
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		tasks = append(tasks, &task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update and emits STATUS_CHANGE and
// ASSIGNMENT_CHANGE events for the fields that actually changed.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, error) {
	before, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, fmt.Errorf("task title is required")
		}
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Priority != nil {
		switch *update.Priority {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		default:
			return nil, fmt.Errorf("invalid priority: %s", *update.Priority)
		}
		set["priority"] = *update.Priority
	}
	if update.Labels != nil {
		for _, label := range *update.Labels {
			if !models.ValidLabel(label) {
				return nil, fmt.Errorf("invalid label: %s", label)
			}
		}
		set["labels"] = *update.Labels
	}
	if update.DueDate != nil {
		set["dueDate"] = *update.DueDate
	} else if update.ClearDueDate {
		unset["dueDate"] = ""
	}
	if update.Status != nil {
		project, err := s.projectFor(ctx, before.ProjectID)
		if err != nil {
			return nil, err
		}
		if !project.HasStatus(*update.Status) {
			return nil, fmt.Errorf("status %q is not a column of project %s", *update.Status, before.ProjectID)
		}
		set["status"] = *update.Status
	}
	if update.Assignee != nil {
		set["assignee"] = *update.Assignee
	} else if update.ClearAssignee {
		unset["assignee"] = ""
	}

	change := bson.M{"$set": set}
	if len(unset) > 0 {
		change["$unset"] = unset
	}

	objectID, _ := primitive.ObjectIDFromHex(taskID)
	if _, err := s.tasksCollection.UpdateOne(ctx, bson.M{"_id": objectID}, change); err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}

	after, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}

	if before.Status != after.Status {
		s.emit(ctx, models.TaskEvent{
			ProjectID: after.ProjectID,
			TaskID:    taskID,
			Kind:      models.EventStatusChange,
			Before:    before,
			After:     after,
			Timestamp: time.Now(),
		})
	}
	if assigneeChanged(before.Assignee, after.Assignee) {
		s.emit(ctx, models.TaskEvent{
			ProjectID: after.ProjectID,
			TaskID:    taskID,
			Kind:      models.EventAssignmentChange,
			Before:    before,
			After:     after,
			Timestamp: time.Now(),
		})
	}

	return after, nil
}

func assigneeChanged(before, after *models.Assignee) bool {
	switch {
	case before == nil && after == nil:
		return false
	case before == nil || after == nil:
		return true
	default:
		return before.UserID != after.UserID
	}
}

// ChangeTaskStatus moves a task to another column and emits the
// STATUS_CHANGE event. This is the member-facing path.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, taskID, status string) (*models.Task, error) {
	status2 := status
	return s.UpdateTask(ctx, taskID, TaskUpdate{Status: &status2})
}

// UpdateTaskStatus implements engine.TaskStore: it writes the status without
// re-entering the mutation hook and returns both snapshots so the controller
// can synthesize the follow-up event inside its own processing chain.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID, newStatus string) (*models.Task, *models.Task, error) {
	before, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.projectFor(ctx, before.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if !project.HasStatus(newStatus) {
		return nil, nil, fmt.Errorf("status %q is not a column of project %s", newStatus, before.ProjectID)
	}

	objectID, _ := primitive.ObjectIDFromHex(taskID)
	update := bson.M{"$set": bson.M{"status": newStatus, "updatedAt": time.Now()}}
	if _, err := s.tasksCollection.UpdateOne(ctx, bson.M{"_id": objectID}, update); err != nil {
		return nil, nil, fmt.Errorf("failed to update task status: %v", err)
	}

	after, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}
	return before, after, nil
}

// DeleteTask removes a task. Deleting an already-deleted task succeeds.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return fmt.Errorf("invalid task ID format: %v", err)
	}
	result, err := s.tasksCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.DeletedCount == 0 {
		logging.Logger.Infof("Event ID: TASK_DELETE_NOOP, Description: Task %s already deleted", taskID)
	}
	return nil
}

// DeleteTasksByProject removes every task of a project. Used by the project
// deletion cascade.
func (s *TaskService) DeleteTasksByProject(ctx context.Context, projectID string) error {
	_, err := s.tasksCollection.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return fmt.Errorf("failed to delete project tasks: %v", err)
	}
	return nil
}
