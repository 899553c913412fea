package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

type UserService struct {
	usersCollection *mongo.Collection
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{usersCollection: db.Collection("users")}
}

// UpsertUser stores or refreshes the profile carried by a token exchange.
func (s *UserService) UpsertUser(ctx context.Context, uid, email, name, photoURL string) (*models.User, error) {
	if uid == "" || email == "" {
		return nil, fmt.Errorf("uid and email are required")
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	now := time.Now()
	filter := bson.M{"uid": uid}
	update := bson.M{
		"$set": bson.M{
			"uid":       uid,
			"email":     email,
			"name":      name,
			"photoURL":  photoURL,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var user models.User
	if err := s.usersCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %v", err)
	}
	return &user, nil
}

func (s *UserService) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := s.usersCollection.FindOne(ctx, bson.M{"uid": uid}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
