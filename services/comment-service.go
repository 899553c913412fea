package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

type CommentService struct {
	commentsCollection *mongo.Collection
	tasks              *TaskService
}

func NewCommentService(db *mongo.Database, tasks *TaskService) *CommentService {
	return &CommentService{
		commentsCollection: db.Collection("comments"),
		tasks:              tasks,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, taskID, text string, author models.Member) (*models.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("comment text is required")
	}
	if _, err := s.tasks.GetTaskByID(ctx, taskID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		TaskID:    taskID,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}
	result, err := s.commentsCollection.InsertOne(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %v", err)
	}
	comment.ID = result.InsertedID.(primitive.ObjectID)
	return comment, nil
}

func (s *CommentService) ListCommentsByTask(ctx context.Context, taskID string) ([]*models.Comment, error) {
	cursor, err := s.commentsCollection.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve comments: %v", err)
	}
	defer cursor.Close(ctx)

	comments := []*models.Comment{}
	for cursor.Next(ctx) {
		var comment models.Comment
		if err := cursor.Decode(&comment); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %v", err)
		}
		comments = append(comments, &comment)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return comments, nil
}

// DeleteComment removes a comment; only its author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterUID string) error {
	objectID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("invalid comment ID format: %v", err)
	}

	var comment models.Comment
	if err := s.commentsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("comment not found")
		}
		return err
	}
	if comment.Author.UserID != requesterUID {
		return fmt.Errorf("only the author can delete a comment")
	}

	if _, err := s.commentsCollection.DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		return fmt.Errorf("failed to delete comment: %v", err)
	}
	return nil
}

// DeleteCommentsByTasks removes comments of the given tasks. Used by the
// project deletion cascade.
func (s *CommentService) DeleteCommentsByTasks(ctx context.Context, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	_, err := s.commentsCollection.DeleteMany(ctx, bson.M{"taskId": bson.M{"$in": taskIDs}})
	if err != nil {
		return fmt.Errorf("failed to delete task comments: %v", err)
	}
	return nil
}
