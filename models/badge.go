package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Badge struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	BadgeName string             `json:"badgeName" bson:"badgeName"`
	ProjectID string             `json:"projectId" bson:"projectId"`
	AwardedAt time.Time          `json:"awardedAt" bson:"awardedAt"`
}
