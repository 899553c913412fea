package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Pranjal6955/TaskBoard-Pro/auth"
	"github.com/Pranjal6955/TaskBoard-Pro/middleware"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

func memberIdentity() *auth.Identity {
	return &auth.Identity{UID: "u1", Email: "u1@x.com", Name: "User One"}
}

func memberProject() *models.Project {
	return &models.Project{
		Name:     "Board",
		Owner:    models.Member{UserID: "u1", Email: "u1@x.com"},
		Statuses: models.DefaultStatuses(),
	}
}

func taskRequest(method, path string, vars map[string]string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	r = r.WithContext(middleware.ContextWithIdentity(r.Context(), memberIdentity()))
	return mux.SetURLVars(r, vars)
}

func TestTaskHandler_DeleteTaskIsIdempotent(t *testing.T) {
	tasks := newMockTaskStore()
	projects := newMockProjectStore()
	projects.Projects["p1"] = memberProject()
	handler := NewTaskHandler(tasks, projects)

	taskID := primitive.NewObjectID()
	tasks.Tasks[taskID.Hex()] = &models.Task{ID: taskID, ProjectID: "p1", Title: "T", Status: models.StatusToDo}

	vars := map[string]string{"id": taskID.Hex()}

	first := httptest.NewRecorder()
	handler.DeleteTask(first, taskRequest(http.MethodDelete, "/api/tasks/"+taskID.Hex(), vars))
	if first.Code != http.StatusNoContent {
		t.Fatalf("first delete: expected 204, got %d", first.Code)
	}
	if _, ok := tasks.Tasks[taskID.Hex()]; ok {
		t.Fatal("task still present after delete")
	}

	second := httptest.NewRecorder()
	handler.DeleteTask(second, taskRequest(http.MethodDelete, "/api/tasks/"+taskID.Hex(), vars))
	if second.Code != http.StatusNoContent {
		t.Fatalf("second delete: expected 204, got %d", second.Code)
	}
	if tasks.DeleteCalls != 1 {
		t.Errorf("expected the store delete once, got %d calls", tasks.DeleteCalls)
	}
}

func TestTaskHandler_DeleteTaskRequiresMembership(t *testing.T) {
	tasks := newMockTaskStore()
	projects := newMockProjectStore()
	projects.Projects["p1"] = &models.Project{
		Name:     "Board",
		Owner:    models.Member{UserID: "someone-else", Email: "other@x.com"},
		Statuses: models.DefaultStatuses(),
	}
	handler := NewTaskHandler(tasks, projects)

	taskID := primitive.NewObjectID()
	tasks.Tasks[taskID.Hex()] = &models.Task{ID: taskID, ProjectID: "p1", Title: "T", Status: models.StatusToDo}

	w := httptest.NewRecorder()
	handler.DeleteTask(w, taskRequest(http.MethodDelete, "/api/tasks/"+taskID.Hex(), map[string]string{"id": taskID.Hex()}))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if _, ok := tasks.Tasks[taskID.Hex()]; !ok {
		t.Error("task must survive a forbidden delete")
	}
}

func TestTaskHandler_GetTaskSetsJSONContentType(t *testing.T) {
	tasks := newMockTaskStore()
	projects := newMockProjectStore()
	projects.Projects["p1"] = memberProject()
	handler := NewTaskHandler(tasks, projects)

	taskID := primitive.NewObjectID()
	tasks.Tasks[taskID.Hex()] = &models.Task{ID: taskID, ProjectID: "p1", Title: "T", Status: models.StatusToDo}

	w := httptest.NewRecorder()
	handler.GetTask(w, taskRequest(http.MethodGet, "/api/tasks/"+taskID.Hex(), map[string]string{"id": taskID.Hex()}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("expected application/json content type, got %q", got)
	}
}
