package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Pranjal6955/TaskBoard-Pro/engine"
	"github.com/Pranjal6955/TaskBoard-Pro/services"
)

type CommentHandler struct {
	comments *services.CommentService
	tasks    *services.TaskService
	projects *services.ProjectService
}

func NewCommentHandler(comments *services.CommentService, tasks *services.TaskService, projects *services.ProjectService) *CommentHandler {
	return &CommentHandler{comments: comments, tasks: tasks, projects: projects}
}

func (h *CommentHandler) memberOfTaskProject(w http.ResponseWriter, r *http.Request, taskID, userID string) bool {
	task, err := h.tasks.GetTaskByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, engine.ErrTaskNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return false
	}
	return requireMembership(r.Context(), w, h.projects, task.ProjectID, userID) != nil
}

type createCommentRequest struct {
	Text string `json:"text"`
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]
	if !h.memberOfTaskProject(w, r, taskID, identity.UID) {
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), taskID, req.Text, memberFromIdentity(identity))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

func (h *CommentHandler) GetCommentsByTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]
	if !h.memberOfTaskProject(w, r, taskID, identity.UID) {
		return
	}

	comments, err := h.comments.ListCommentsByTask(r.Context(), taskID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(comments)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	commentID := mux.Vars(r)["id"]

	if err := h.comments.DeleteComment(r.Context(), commentID, identity.UID); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
