package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Pranjal6955/TaskBoard-Pro/engine"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

type ProjectService struct {
	projectsCollection *mongo.Collection
	usersCollection    *mongo.Collection
}

func NewProjectService(db *mongo.Database) *ProjectService {
	return &ProjectService{
		projectsCollection: db.Collection("projects"),
		usersCollection:    db.Collection("users"),
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, name, description string, owner models.Member) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	now := time.Now()
	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Owner:       owner,
		Members:     []models.Member{owner},
		Statuses:    models.DefaultStatuses(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.projectsCollection.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return project, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID format: %v", err)
	}
	var project models.Project
	if err := s.projectsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, engine.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetProject implements engine.ProjectStore.
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	return s.GetProjectByID(ctx, projectID)
}

// ListProjectsForUser returns projects the user owns or belongs to.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner.userId": userID},
		{"members.userId": userID},
	}}
	cursor, err := s.projectsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(ctx)

	projects := []*models.Project{}
	for cursor.Next(ctx) {
		var project models.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, fmt.Errorf("failed to decode project: %v", err)
		}
		projects = append(projects, &project)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return projects, nil
}

// UpdateProject updates name, description and the board column set. The
// column set may grow or be renamed but must never become empty.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, name, description *string, statuses *[]string) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("project name is required")
		}
		set["name"] = *name
	}
	if description != nil {
		set["description"] = *description
	}
	if statuses != nil {
		if len(*statuses) == 0 {
			return nil, fmt.Errorf("project must keep at least one status column")
		}
		set["statuses"] = *statuses
	}

	if _, err := s.projectsCollection.UpdateOne(ctx, bson.M{"_id": project.ID}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update project: %v", err)
	}
	return s.GetProjectByID(ctx, projectID)
}

func (s *ProjectService) DeleteProject(ctx context.Context, projectID string) error {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return fmt.Errorf("invalid project ID format: %v", err)
	}
	if _, err := s.projectsCollection.DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	return nil
}

// AddMember invites a registered user to the project by email.
func (s *ProjectService) AddMember(ctx context.Context, projectID, email string) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no registered user with email %s", email)
		}
		return nil, err
	}

	for _, m := range project.Members {
		if m.UserID == user.UID {
			return nil, fmt.Errorf("user %s is already a member", email)
		}
	}

	member := models.Member{UserID: user.UID, Email: user.Email, Name: user.Name}
	update := bson.M{
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := s.projectsCollection.UpdateOne(ctx, bson.M{"_id": project.ID}, update); err != nil {
		return nil, fmt.Errorf("failed to add member: %v", err)
	}
	return s.GetProjectByID(ctx, projectID)
}

// RemoveMember removes a member from the project. The owner cannot be
// removed.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID string) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Owner.UserID == userID {
		return nil, fmt.Errorf("project owner cannot be removed")
	}

	update := bson.M{
		"$pull": bson.M{"members": bson.M{"userId": userID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := s.projectsCollection.UpdateOne(ctx, bson.M{"_id": project.ID}, update); err != nil {
		return nil, fmt.Errorf("failed to remove member: %v", err)
	}
	return s.GetProjectByID(ctx, projectID)
}
