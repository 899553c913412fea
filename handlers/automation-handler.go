package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Pranjal6955/TaskBoard-Pro/models"
	"github.com/Pranjal6955/TaskBoard-Pro/services"
)

type AutomationHandler struct {
	automations   *services.AutomationService
	projects      *services.ProjectService
	badges        *services.BadgeService
	notifications *services.NotificationService
}

func NewAutomationHandler(automations *services.AutomationService, projects *services.ProjectService, badges *services.BadgeService, notifications *services.NotificationService) *AutomationHandler {
	return &AutomationHandler{
		automations:   automations,
		projects:      projects,
		badges:        badges,
		notifications: notifications,
	}
}

func (h *AutomationHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var rule models.AutomationRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		// Unknown trigger/action types are rejected here, before persistence.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rule.ProjectID == "" {
		http.Error(w, "projectId is required", http.StatusBadRequest)
		return
	}
	if requireMembership(r.Context(), w, h.projects, rule.ProjectID, identity.UID) == nil {
		return
	}

	rule.IsActive = true
	rule.CreatedBy = identity.UID
	created, err := h.automations.CreateRule(r.Context(), &rule)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *AutomationHandler) GetRulesByProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	projectID := mux.Vars(r)["projectId"]

	if requireMembership(r.Context(), w, h.projects, projectID, identity.UID) == nil {
		return
	}

	rules, err := h.automations.ListRulesByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rules)
}

// UpdateRule replaces the rule's name, trigger, action and isActive flag.
func (h *AutomationHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	ruleID := mux.Vars(r)["id"]

	existing, err := h.automations.GetRuleByID(r.Context(), ruleID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if requireMembership(r.Context(), w, h.projects, existing.ProjectID, identity.UID) == nil {
		return
	}

	var rule models.AutomationRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.automations.UpdateRule(r.Context(), ruleID, &rule)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}

func (h *AutomationHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	ruleID := mux.Vars(r)["id"]

	existing, err := h.automations.GetRuleByID(r.Context(), ruleID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if requireMembership(r.Context(), w, h.projects, existing.ProjectID, identity.UID) == nil {
		return
	}

	if err := h.automations.DeleteRule(r.Context(), ruleID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AutomationHandler) GetUserBadges(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	badges, err := h.badges.ListBadgesByUser(r.Context(), identity.UID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(badges)
}

func (h *AutomationHandler) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	notifications, err := h.notifications.GetNotificationsByRecipient(identity.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(notifications)
}

type markReadRequest struct {
	CreatedAt string `json:"createdAt"`
}

func (h *AutomationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	notificationID := mux.Vars(r)["id"]

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CreatedAt == "" {
		http.Error(w, "createdAt is required", http.StatusBadRequest)
		return
	}

	if err := h.notifications.MarkNotificationAsRead(identity.Email, notificationID, req.CreatedAt); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "read"})
}
