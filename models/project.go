package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a lightweight user reference embedded in projects.
type Member struct {
	UserID string `json:"userId" bson:"userId"`
	Email  string `json:"email" bson:"email"`
	Name   string `json:"name" bson:"name"`
}

type Project struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Owner       Member             `json:"owner" bson:"owner"`
	Members     []Member           `json:"members" bson:"members"`
	Statuses    []string           `json:"statuses" bson:"statuses"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DefaultStatuses returns the board columns a new project starts with.
func DefaultStatuses() []string {
	return []string{StatusToDo, StatusInProgress, StatusDone}
}

// HasStatus reports whether status is one of the project's board columns.
func (p *Project) HasStatus(status string) bool {
	for _, s := range p.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// TerminalStatus is the last board column, "Done" on an unmodified project.
func (p *Project) TerminalStatus() string {
	if len(p.Statuses) == 0 {
		return StatusDone
	}
	return p.Statuses[len(p.Statuses)-1]
}

// IsMember reports whether the user owns or belongs to the project.
func (p *Project) IsMember(userID string) bool {
	if p.Owner.UserID == userID {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
