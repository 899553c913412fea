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

type AutomationService struct {
	rulesCollection *mongo.Collection
}

func NewAutomationService(db *mongo.Database) *AutomationService {
	return &AutomationService{rulesCollection: db.Collection("automation_rules")}
}

// CreateRule validates and persists a rule. Malformed trigger or action
// shapes are rejected here and never reach the matcher.
func (s *AutomationService) CreateRule(ctx context.Context, rule *models.AutomationRule) (*models.AutomationRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()

	result, err := s.rulesCollection.InsertOne(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule: %v", err)
	}
	rule.ID = result.InsertedID.(primitive.ObjectID)
	return rule, nil
}

func (s *AutomationService) GetRuleByID(ctx context.Context, ruleID string) (*models.AutomationRule, error) {
	objectID, err := primitive.ObjectIDFromHex(ruleID)
	if err != nil {
		return nil, fmt.Errorf("invalid rule ID format: %v", err)
	}
	var rule models.AutomationRule
	if err := s.rulesCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rule); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("rule not found")
		}
		return nil, err
	}
	return &rule, nil
}

// ListRulesByProject returns every rule of a project, active or not, in
// insertion order.
func (s *AutomationService) ListRulesByProject(ctx context.Context, projectID string) ([]models.AutomationRule, error) {
	return s.listRules(ctx, bson.M{"projectId": projectID})
}

// ListActiveRules implements engine.RuleStore.
func (s *AutomationService) ListActiveRules(ctx context.Context, projectID string) ([]models.AutomationRule, error) {
	return s.listRules(ctx, bson.M{"projectId": projectID, "isActive": true})
}

func (s *AutomationService) listRules(ctx context.Context, filter bson.M) ([]models.AutomationRule, error) {
	cursor, err := s.rulesCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rules: %v", err)
	}
	defer cursor.Close(ctx)

	rules := []models.AutomationRule{}
	for cursor.Next(ctx) {
		var rule models.AutomationRule
		if err := cursor.Decode(&rule); err != nil {
			return nil, fmt.Errorf("failed to decode rule: %v", err)
		}
		rules = append(rules, rule)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return rules, nil
}

// UpdateRule replaces the rule's mutable fields (name, isActive, trigger,
// action) after validating the new shape.
func (s *AutomationService) UpdateRule(ctx context.Context, ruleID string, rule *models.AutomationRule) (*models.AutomationRule, error) {
	existing, err := s.GetRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	rule.ID = existing.ID
	rule.ProjectID = existing.ProjectID
	rule.CreatedBy = existing.CreatedBy
	rule.CreatedAt = existing.CreatedAt
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.rulesCollection.ReplaceOne(ctx, bson.M{"_id": existing.ID}, rule); err != nil {
		return nil, fmt.Errorf("failed to update rule: %v", err)
	}
	return rule, nil
}

func (s *AutomationService) DeleteRule(ctx context.Context, ruleID string) error {
	objectID, err := primitive.ObjectIDFromHex(ruleID)
	if err != nil {
		return fmt.Errorf("invalid rule ID format: %v", err)
	}
	if _, err := s.rulesCollection.DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		return fmt.Errorf("failed to delete rule: %v", err)
	}
	return nil
}

// DeleteRulesByProject removes the project's rules. Used by the project
// deletion cascade.
func (s *AutomationService) DeleteRulesByProject(ctx context.Context, projectID string) error {
	_, err := s.rulesCollection.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return fmt.Errorf("failed to delete project rules: %v", err)
	}
	return nil
}
