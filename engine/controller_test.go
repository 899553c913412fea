package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Pranjal6955/TaskBoard-Pro/logging"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

func testProject() *models.Project {
	return &models.Project{
		Name:     "Board",
		Owner:    models.Member{UserID: "owner", Email: "owner@x.com"},
		Statuses: models.DefaultStatuses(),
	}
}

func fixture() (*Controller, *MockTaskStore, *MockProjectStore, *MockRuleStore, *MockBadgeStore, *MockNotificationSink) {
	tasks := NewMockTaskStore()
	projects := NewMockProjectStore()
	rules := &MockRuleStore{}
	badges := &MockBadgeStore{}
	sink := &MockNotificationSink{}
	controller := NewController(tasks, projects, rules, badges, sink)
	return controller, tasks, projects, rules, badges, sink
}

func TestController_EndToEndNotification(t *testing.T) {
	controller, tasks, projects, rules, _, sink := fixture()
	projects.Projects["p1"] = testProject()

	taskID := primitive.NewObjectID()
	before := &models.Task{ID: taskID, ProjectID: "p1", Title: "T", Status: "To Do"}
	after := &models.Task{
		ID: taskID, ProjectID: "p1", Title: "T", Status: "In Progress",
		Assignee: &models.Assignee{UserID: "u1", Email: "a@x.com"},
	}
	tasks.Tasks[taskID.Hex()] = copyTask(after)

	rules.Rules = []models.AutomationRule{{
		ID:        primitive.NewObjectID(),
		ProjectID: "p1",
		Name:      "notify on start",
		IsActive:  true,
		Trigger:   models.StatusChangeTrigger{FromStatus: "To Do", ToStatus: "In Progress"},
		Action:    models.SendNotificationAction{NotificationText: "started", NotifyAssignee: true},
	}}

	controller.ProcessEvent(context.Background(), models.TaskEvent{
		ProjectID: "p1",
		TaskID:    taskID.Hex(),
		Kind:      models.EventStatusChange,
		Before:    before,
		After:     after,
		Timestamp: time.Now(),
	})

	if len(sink.Sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sink.Sent))
	}
	if sink.Sent[0].Recipient != "a@x.com" || sink.Sent[0].Text != "started" {
		t.Errorf("unexpected notification: %+v", sink.Sent[0])
	}
	if len(tasks.StatusWrites) != 0 {
		t.Errorf("task store should be untouched, got writes %v", tasks.StatusWrites)
	}
	if len(rules.Rules) != 1 {
		t.Errorf("rule store must be unchanged")
	}
}

func TestController_CycleGuard(t *testing.T) {
	controller, tasks, projects, rules, _, _ := fixture()
	projects.Projects["p1"] = testProject()

	taskID := primitive.NewObjectID()
	tasks.Tasks[taskID.Hex()] = &models.Task{ID: taskID, ProjectID: "p1", Title: "T", Status: "Done"}

	// Two rules that bounce the task between columns forever without a
	// guard: Done -> To Do and To Do -> Done.
	rules.Rules = []models.AutomationRule{
		{
			ID: primitive.NewObjectID(), ProjectID: "p1", Name: "reopen", IsActive: true,
			Trigger: models.StatusChangeTrigger{FromStatus: "To Do", ToStatus: "Done"},
			Action:  models.MoveTaskAction{TargetStatus: "To Do"},
		},
		{
			ID: primitive.NewObjectID(), ProjectID: "p1", Name: "finish", IsActive: true,
			Trigger: models.StatusChangeTrigger{FromStatus: "Done", ToStatus: "To Do"},
			Action:  models.MoveTaskAction{TargetStatus: "Done"},
		},
	}

	controller.ProcessEvent(context.Background(), models.TaskEvent{
		ProjectID: "p1",
		TaskID:    taskID.Hex(),
		Kind:      models.EventStatusChange,
		Before:    &models.Task{ID: taskID, ProjectID: "p1", Status: "To Do"},
		After:     &models.Task{ID: taskID, ProjectID: "p1", Status: "Done"},
		Timestamp: time.Now(),
	})

	// Each (rule, task) pair fires at most once: reopen moves Done -> To
	// Do, finish moves To Do -> Done, then reopen is suppressed.
	if len(tasks.StatusWrites) != 2 {
		t.Fatalf("expected exactly 2 status writes, got %v", tasks.StatusWrites)
	}
	if tasks.StatusWrites[0] != taskID.Hex()+"->To Do" || tasks.StatusWrites[1] != taskID.Hex()+"->Done" {
		t.Errorf("unexpected write order: %v", tasks.StatusWrites)
	}
}

func TestController_FiredRuleNotMatchingFollowUpStaysQuiet(t *testing.T) {
	controller, tasks, projects, rules, _, _ := fixture()
	projects.Projects["p1"] = testProject()

	hook := logrustest.NewLocal(logging.Logger)
	defer logging.Logger.ReplaceHooks(make(logrus.LevelHooks))

	taskID := primitive.NewObjectID()
	tasks.Tasks[taskID.Hex()] = &models.Task{ID: taskID, ProjectID: "p1", Title: "T", Status: "In Progress"}

	// The rule fires on the initial event and then does not match the
	// follow-up its own move generates; that is ordinary chain progress,
	// not a cycle.
	rules.Rules = []models.AutomationRule{{
		ID: primitive.NewObjectID(), ProjectID: "p1", Name: "fast-track", IsActive: true,
		Trigger: models.StatusChangeTrigger{FromStatus: "To Do", ToStatus: "In Progress"},
		Action:  models.MoveTaskAction{TargetStatus: "Done"},
	}}

	controller.ProcessEvent(context.Background(), models.TaskEvent{
		ProjectID: "p1",
		TaskID:    taskID.Hex(),
		Kind:      models.EventStatusChange,
		Before:    &models.Task{ID: taskID, ProjectID: "p1", Status: "To Do"},
		After:     tasks.Tasks[taskID.Hex()],
		Timestamp: time.Now(),
	})

	if len(tasks.StatusWrites) != 1 || tasks.StatusWrites[0] != taskID.Hex()+"->Done" {
		t.Fatalf("expected a single move to Done, got %v", tasks.StatusWrites)
	}
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, "AUTOMATION_CYCLE_DETECTED") {
			t.Errorf("cycle warning logged for a rule that does not match the follow-up: %s", entry.Message)
		}
	}
}

func TestController_FireAndContinue(t *testing.T) {
	controller, tasks, projects, rules, badges, sink := fixture()
	projects.Projects["p1"] = testProject()
	sink.Err = errors.New("sink unavailable")

	taskID := primitive.NewObjectID()
	tasks.Tasks[taskID.Hex()] = &models.Task{
		ID: taskID, ProjectID: "p1", Title: "T", Status: "In Progress",
		Assignee: &models.Assignee{UserID: "u1", Email: "a@x.com"},
	}

	rules.Rules = []models.AutomationRule{
		{
			ID: primitive.NewObjectID(), ProjectID: "p1", Name: "notify", IsActive: true,
			Trigger: models.StatusChangeTrigger{FromStatus: "To Do", ToStatus: "In Progress"},
			Action:  models.SendNotificationAction{NotificationText: "x", NotifyAssignee: true},
		},
		{
			ID: primitive.NewObjectID(), ProjectID: "p1", Name: "badge", IsActive: true,
			Trigger: models.StatusChangeTrigger{FromStatus: "To Do", ToStatus: "In Progress"},
			Action:  models.AssignBadgeAction{BadgeName: "Starter"},
		},
	}

	controller.ProcessEvent(context.Background(), models.TaskEvent{
		ProjectID: "p1",
		TaskID:    taskID.Hex(),
		Kind:      models.EventStatusChange,
		Before:    &models.Task{ID: taskID, ProjectID: "p1", Status: "To Do"},
		After:     tasks.Tasks[taskID.Hex()],
		Timestamp: time.Now(),
	})

	// The failing notification must not block the badge rule.
	if len(badges.Awards) != 1 {
		t.Fatalf("expected badge despite sink failure, got %d awards", len(badges.Awards))
	}
	if badges.Awards[0].UserID != "u1" || badges.Awards[0].BadgeName != "Starter" {
		t.Errorf("unexpected award: %+v", badges.Awards[0])
	}
}

func TestController_ProjectGoneSkipsEvent(t *testing.T) {
	controller, tasks, _, rules, badges, sink := fixture()

	taskID := primitive.NewObjectID()
	tasks.Tasks[taskID.Hex()] = &models.Task{ID: taskID, ProjectID: "ghost", Status: "Done"}
	rules.Rules = []models.AutomationRule{{
		ID: primitive.NewObjectID(), ProjectID: "ghost", IsActive: true,
		Trigger: models.StatusChangeTrigger{FromStatus: "To Do", ToStatus: "Done"},
		Action:  models.AssignBadgeAction{BadgeName: "B"},
	}}

	controller.ProcessEvent(context.Background(), models.TaskEvent{
		ProjectID: "ghost",
		TaskID:    taskID.Hex(),
		Kind:      models.EventStatusChange,
		Before:    &models.Task{Status: "To Do"},
		After:     &models.Task{Status: "Done"},
	})

	if rules.ListCalls != 0 {
		t.Errorf("rules should not be consulted for a vanished project")
	}
	if len(badges.Awards) != 0 || len(sink.Sent) != 0 {
		t.Errorf("no commands should be applied for a vanished project")
	}
}
