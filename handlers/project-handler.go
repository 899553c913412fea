package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Pranjal6955/TaskBoard-Pro/logging"
	"github.com/Pranjal6955/TaskBoard-Pro/services"
)

type ProjectHandler struct {
	projects    *services.ProjectService
	tasks       *services.TaskService
	comments    *services.CommentService
	automations *services.AutomationService
}

func NewProjectHandler(projects *services.ProjectService, tasks *services.TaskService, comments *services.CommentService, automations *services.AutomationService) *ProjectHandler {
	return &ProjectHandler{projects: projects, tasks: tasks, comments: comments, automations: automations}
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.projects.CreateProject(r.Context(), req.Name, req.Description, memberFromIdentity(identity))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	projects, err := h.projects.ListProjectsForUser(r.Context(), identity.UID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	projectID := mux.Vars(r)["id"]

	project := requireMembership(r.Context(), w, h.projects, projectID, identity.UID)
	if project == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(project)
}

type updateProjectRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Statuses    *[]string `json:"statuses"`
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	projectID := mux.Vars(r)["id"]

	if requireMembership(r.Context(), w, h.projects, projectID, identity.UID) == nil {
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), projectID, req.Name, req.Description, req.Statuses)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(project)
}

// DeleteProject removes the project and cascades to its tasks, their
// comments and the project's automation rules. Owner only.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	projectID := mux.Vars(r)["id"]

	project := requireMembership(r.Context(), w, h.projects, projectID, identity.UID)
	if project == nil {
		return
	}
	if project.Owner.UserID != identity.UID {
		http.Error(w, "Access forbidden: only the owner can delete a project", http.StatusForbidden)
		return
	}

	ctx := r.Context()
	tasks, err := h.tasks.ListTasksByProject(ctx, projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	taskIDs := make([]string, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID.Hex())
	}

	if err := h.comments.DeleteCommentsByTasks(ctx, taskIDs); err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_CASCADE_COMMENTS_FAILED, Description: %v", err)
	}
	if err := h.tasks.DeleteTasksByProject(ctx, projectID); err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_CASCADE_TASKS_FAILED, Description: %v", err)
	}
	if err := h.automations.DeleteRulesByProject(ctx, projectID); err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_CASCADE_RULES_FAILED, Description: %v", err)
	}
	if err := h.projects.DeleteProject(ctx, projectID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addMemberRequest struct {
	Email string `json:"email"`
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	projectID := mux.Vars(r)["id"]

	if requireMembership(r.Context(), w, h.projects, projectID, identity.UID) == nil {
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "Member email is required", http.StatusBadRequest)
		return
	}

	project, err := h.projects.AddMember(r.Context(), projectID, req.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(project)
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	projectID := vars["id"]
	memberID := vars["userId"]

	project := requireMembership(r.Context(), w, h.projects, projectID, identity.UID)
	if project == nil {
		return
	}
	if project.Owner.UserID != identity.UID {
		http.Error(w, "Access forbidden: only the owner can remove members", http.StatusForbidden)
		return
	}

	updated, err := h.projects.RemoveMember(r.Context(), projectID, memberID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}
