package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Pranjal6955/TaskBoard-Pro/auth"
	"github.com/Pranjal6955/TaskBoard-Pro/engine"
	"github.com/Pranjal6955/TaskBoard-Pro/middleware"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

func requireIdentity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return identity, true
}

// projectStore is the slice of ProjectService the membership check needs.
type projectStore interface {
	GetProjectByID(ctx context.Context, projectID string) (*models.Project, error)
}

// requireMembership loads the project and checks the caller belongs to it.
// It writes the error response itself and returns nil on failure.
func requireMembership(ctx context.Context, w http.ResponseWriter, projects projectStore, projectID, userID string) *models.Project {
	project, err := projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, engine.ErrProjectNotFound) {
			http.Error(w, "Project not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return nil
	}
	if !project.IsMember(userID) {
		http.Error(w, "Access forbidden: not a project member", http.StatusForbidden)
		return nil
	}
	return project
}

func memberFromIdentity(identity *auth.Identity) models.Member {
	return models.Member{UserID: identity.UID, Email: identity.Email, Name: identity.Name}
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
