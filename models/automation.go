package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TriggerType string

const (
	TriggerStatusChange     TriggerType = "STATUS_CHANGE"
	TriggerAssignmentChange TriggerType = "ASSIGNMENT_CHANGE"
	TriggerDueDatePassed    TriggerType = "DUE_DATE_PASSED"
)

type ActionType string

const (
	ActionAssignBadge      ActionType = "ASSIGN_BADGE"
	ActionMoveTask         ActionType = "MOVE_TASK"
	ActionSendNotification ActionType = "SEND_NOTIFICATION"
)

// Trigger is a closed union: StatusChangeTrigger, AssignmentChangeTrigger
// or DueDatePassedTrigger. Unknown type strings are rejected at decode time.
type Trigger interface {
	TriggerType() TriggerType
}

type StatusChangeTrigger struct {
	FromStatus string `json:"fromStatus" bson:"fromStatus"`
	ToStatus   string `json:"toStatus" bson:"toStatus"`
}

func (StatusChangeTrigger) TriggerType() TriggerType { return TriggerStatusChange }

type AssignmentChangeTrigger struct {
	// AssigneeEmail narrows the trigger to one member; empty matches anyone.
	AssigneeEmail string `json:"assigneeEmail,omitempty" bson:"assigneeEmail,omitempty"`
}

func (AssignmentChangeTrigger) TriggerType() TriggerType { return TriggerAssignmentChange }

type DueDatePassedTrigger struct{}

func (DueDatePassedTrigger) TriggerType() TriggerType { return TriggerDueDatePassed }

// Action is a closed union: AssignBadgeAction, MoveTaskAction or
// SendNotificationAction.
type Action interface {
	ActionType() ActionType
}

type AssignBadgeAction struct {
	BadgeName string `json:"badgeName" bson:"badgeName"`
}

func (AssignBadgeAction) ActionType() ActionType { return ActionAssignBadge }

type MoveTaskAction struct {
	TargetStatus string `json:"targetStatus" bson:"targetStatus"`
}

func (MoveTaskAction) ActionType() ActionType { return ActionMoveTask }

type SendNotificationAction struct {
	NotificationText    string `json:"notificationText" bson:"notificationText"`
	NotifyAssignee      bool   `json:"notifyAssignee" bson:"notifyAssignee"`
	NotifyCreator       bool   `json:"notifyCreator" bson:"notifyCreator"`
	NotifyProjectOwners bool   `json:"notifyProjectOwners" bson:"notifyProjectOwners"`
}

func (SendNotificationAction) ActionType() ActionType { return ActionSendNotification }

type AutomationRule struct {
	ID        primitive.ObjectID `json:"id"`
	ProjectID string             `json:"projectId"`
	Name      string             `json:"name"`
	IsActive  bool               `json:"isActive"`
	Trigger   Trigger            `json:"trigger"`
	Action    Action             `json:"action"`
	CreatedBy string             `json:"createdBy"`
	CreatedAt time.Time          `json:"createdAt"`
}

// triggerDoc and actionDoc are the wire envelopes: a discriminating "type"
// field plus the superset of the variant fields.
type triggerDoc struct {
	Type          TriggerType `json:"type" bson:"type"`
	FromStatus    string      `json:"fromStatus,omitempty" bson:"fromStatus,omitempty"`
	ToStatus      string      `json:"toStatus,omitempty" bson:"toStatus,omitempty"`
	AssigneeEmail string      `json:"assigneeEmail,omitempty" bson:"assigneeEmail,omitempty"`
}

type actionDoc struct {
	Type                ActionType `json:"type" bson:"type"`
	BadgeName           string     `json:"badgeName,omitempty" bson:"badgeName,omitempty"`
	TargetStatus        string     `json:"targetStatus,omitempty" bson:"targetStatus,omitempty"`
	NotificationText    string     `json:"notificationText,omitempty" bson:"notificationText,omitempty"`
	NotifyAssignee      bool       `json:"notifyAssignee,omitempty" bson:"notifyAssignee,omitempty"`
	NotifyCreator       bool       `json:"notifyCreator,omitempty" bson:"notifyCreator,omitempty"`
	NotifyProjectOwners bool       `json:"notifyProjectOwners,omitempty" bson:"notifyProjectOwners,omitempty"`
}

type ruleDoc struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID string             `json:"projectId" bson:"projectId"`
	Name      string             `json:"name" bson:"name"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	Trigger   triggerDoc         `json:"trigger" bson:"trigger"`
	Action    actionDoc          `json:"action" bson:"action"`
	CreatedBy string             `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

func triggerFromDoc(doc triggerDoc) (Trigger, error) {
	switch doc.Type {
	case TriggerStatusChange:
		return StatusChangeTrigger{FromStatus: doc.FromStatus, ToStatus: doc.ToStatus}, nil
	case TriggerAssignmentChange:
		return AssignmentChangeTrigger{AssigneeEmail: doc.AssigneeEmail}, nil
	case TriggerDueDatePassed:
		return DueDatePassedTrigger{}, nil
	default:
		return nil, fmt.Errorf("unknown trigger type: %q", doc.Type)
	}
}

func docFromTrigger(t Trigger) (triggerDoc, error) {
	switch trig := t.(type) {
	case StatusChangeTrigger:
		return triggerDoc{Type: TriggerStatusChange, FromStatus: trig.FromStatus, ToStatus: trig.ToStatus}, nil
	case AssignmentChangeTrigger:
		return triggerDoc{Type: TriggerAssignmentChange, AssigneeEmail: trig.AssigneeEmail}, nil
	case DueDatePassedTrigger:
		return triggerDoc{Type: TriggerDueDatePassed}, nil
	default:
		return triggerDoc{}, fmt.Errorf("rule has no trigger")
	}
}

func actionFromDoc(doc actionDoc) (Action, error) {
	switch doc.Type {
	case ActionAssignBadge:
		return AssignBadgeAction{BadgeName: doc.BadgeName}, nil
	case ActionMoveTask:
		return MoveTaskAction{TargetStatus: doc.TargetStatus}, nil
	case ActionSendNotification:
		return SendNotificationAction{
			NotificationText:    doc.NotificationText,
			NotifyAssignee:      doc.NotifyAssignee,
			NotifyCreator:       doc.NotifyCreator,
			NotifyProjectOwners: doc.NotifyProjectOwners,
		}, nil
	default:
		return nil, fmt.Errorf("unknown action type: %q", doc.Type)
	}
}

func docFromAction(a Action) (actionDoc, error) {
	switch act := a.(type) {
	case AssignBadgeAction:
		return actionDoc{Type: ActionAssignBadge, BadgeName: act.BadgeName}, nil
	case MoveTaskAction:
		return actionDoc{Type: ActionMoveTask, TargetStatus: act.TargetStatus}, nil
	case SendNotificationAction:
		return actionDoc{
			Type:                ActionSendNotification,
			NotificationText:    act.NotificationText,
			NotifyAssignee:      act.NotifyAssignee,
			NotifyCreator:       act.NotifyCreator,
			NotifyProjectOwners: act.NotifyProjectOwners,
		}, nil
	default:
		return actionDoc{}, fmt.Errorf("rule has no action")
	}
}

func (r *AutomationRule) toDoc() (ruleDoc, error) {
	trigger, err := docFromTrigger(r.Trigger)
	if err != nil {
		return ruleDoc{}, err
	}
	action, err := docFromAction(r.Action)
	if err != nil {
		return ruleDoc{}, err
	}
	return ruleDoc{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		Trigger:   trigger,
		Action:    action,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}, nil
}

func (r *AutomationRule) fromDoc(doc ruleDoc) error {
	trigger, err := triggerFromDoc(doc.Trigger)
	if err != nil {
		return err
	}
	action, err := actionFromDoc(doc.Action)
	if err != nil {
		return err
	}
	r.ID = doc.ID
	r.ProjectID = doc.ProjectID
	r.Name = doc.Name
	r.IsActive = doc.IsActive
	r.Trigger = trigger
	r.Action = action
	r.CreatedBy = doc.CreatedBy
	r.CreatedAt = doc.CreatedAt
	return nil
}

func (r AutomationRule) MarshalJSON() ([]byte, error) {
	doc, err := r.toDoc()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (r *AutomationRule) UnmarshalJSON(data []byte) error {
	var doc ruleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return r.fromDoc(doc)
}

func (r AutomationRule) MarshalBSON() ([]byte, error) {
	doc, err := r.toDoc()
	if err != nil {
		return nil, err
	}
	return bson.Marshal(doc)
}

func (r *AutomationRule) UnmarshalBSON(data []byte) error {
	var doc ruleDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	return r.fromDoc(doc)
}

// Validate rejects malformed rules before they reach the store.
func (r *AutomationRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.ProjectID == "" {
		return fmt.Errorf("rule projectId is required")
	}
	if r.Trigger == nil {
		return fmt.Errorf("rule trigger is required")
	}
	if r.Action == nil {
		return fmt.Errorf("rule action is required")
	}
	switch act := r.Action.(type) {
	case AssignBadgeAction:
		if act.BadgeName == "" {
			return fmt.Errorf("badgeName is required for %s", ActionAssignBadge)
		}
	case MoveTaskAction:
		if act.TargetStatus == "" {
			return fmt.Errorf("targetStatus is required for %s", ActionMoveTask)
		}
	}
	if trig, ok := r.Trigger.(StatusChangeTrigger); ok {
		if trig.FromStatus == "" || trig.ToStatus == "" {
			return fmt.Errorf("fromStatus and toStatus are required for %s", TriggerStatusChange)
		}
	}
	return nil
}
