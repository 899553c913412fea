package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

type BadgeService struct {
	badgesCollection *mongo.Collection
}

func NewBadgeService(db *mongo.Database) *BadgeService {
	return &BadgeService{badgesCollection: db.Collection("badges")}
}

// AwardBadge implements engine.BadgeStore. Awarding the same badge to the
// same user twice is absorbed by the upsert.
func (s *BadgeService) AwardBadge(ctx context.Context, userID, badgeName, projectID string) error {
	filter := bson.M{"userId": userID, "badgeName": badgeName, "projectId": projectID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":    userID,
			"badgeName": badgeName,
			"projectId": projectID,
			"awardedAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.badgesCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to award badge: %v", err)
	}
	return nil
}

func (s *BadgeService) ListBadgesByUser(ctx context.Context, userID string) ([]models.Badge, error) {
	cursor, err := s.badgesCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve badges: %v", err)
	}
	defer cursor.Close(ctx)

	badges := []models.Badge{}
	for cursor.Next(ctx) {
		var badge models.Badge
		if err := cursor.Decode(&badge); err != nil {
			return nil, fmt.Errorf("failed to decode badge: %v", err)
		}
		badges = append(badges, badge)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return badges, nil
}
