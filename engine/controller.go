package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pranjal6955/TaskBoard-Pro/logging"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

// Controller glues a task mutation event to the matcher and executor. Rules
// are evaluated sequentially in store order and one rule's commands are
// applied before the next rule is considered. A failed command is logged and
// abandoned without blocking siblings.
type Controller struct {
	tasks    TaskStore
	projects ProjectStore
	rules    RuleStore
	badges   BadgeStore
	sink     NotificationSink
}

func NewController(tasks TaskStore, projects ProjectStore, rules RuleStore, badges BadgeStore, sink NotificationSink) *Controller {
	return &Controller{
		tasks:    tasks,
		projects: projects,
		rules:    rules,
		badges:   badges,
		sink:     sink,
	}
}

// ProcessEvent evaluates every active rule of the event's project against
// the event. MOVE_TASK commands produce follow-up events which are processed
// within the same chain; the (ruleID, taskID) guard keeps each rule from
// firing more than once per chain, so rule-triggered loops terminate.
func (c *Controller) ProcessEvent(ctx context.Context, event models.TaskEvent) {
	c.process(ctx, event, make(map[string]bool))
}

func (c *Controller) process(ctx context.Context, event models.TaskEvent, fired map[string]bool) {
	project, err := c.projects.GetProject(ctx, event.ProjectID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			logging.Logger.Warnf("Event ID: AUTOMATION_PROJECT_GONE, Description: Project %s vanished before rule evaluation, skipping event", event.ProjectID)
		} else {
			logging.Logger.Errorf("Event ID: AUTOMATION_PROJECT_LOAD_FAILED, Description: Failed to load project %s: %v", event.ProjectID, err)
		}
		return
	}

	rules, err := c.rules.ListActiveRules(ctx, event.ProjectID)
	if err != nil {
		logging.Logger.Errorf("Event ID: AUTOMATION_RULES_LOAD_FAILED, Description: Failed to load rules for project %s: %v", event.ProjectID, err)
		return
	}

	owners := []models.Member{project.Owner}
	terminal := project.TerminalStatus()

	for i := range rules {
		rule := &rules[i]
		if !Matches(rule, event, time.Now(), terminal) {
			continue
		}
		key := rule.ID.Hex() + ":" + event.TaskID
		if fired[key] {
			logging.Logger.Warnf("Event ID: AUTOMATION_CYCLE_DETECTED, Description: Rule %s already fired for task %s in this chain, refusing to re-fire", rule.ID.Hex(), event.TaskID)
			continue
		}
		fired[key] = true

		commands := Execute(rule.Action, event, owners)
		logging.Logger.Infof("Event ID: AUTOMATION_RULE_FIRED, Description: Rule %s (%s) fired for task %s, %d command(s)", rule.ID.Hex(), rule.Name, event.TaskID, len(commands))

		for _, command := range commands {
			if err := c.apply(ctx, command, event, fired); err != nil {
				logging.Logger.Errorf("Event ID: AUTOMATION_COMMAND_FAILED, Description: Command %T from rule %s failed: %v", command, rule.ID.Hex(), err)
			}
		}
	}
}

func (c *Controller) apply(ctx context.Context, command Command, event models.TaskEvent, fired map[string]bool) error {
	switch cmd := command.(type) {
	case AwardBadgeCommand:
		return c.badges.AwardBadge(ctx, cmd.UserID, cmd.BadgeName, event.ProjectID)

	case NotifyCommand:
		return c.sink.Notify(ctx, cmd.RecipientEmail, cmd.Text)

	case UpdateTaskStatusCommand:
		before, after, err := c.tasks.UpdateTaskStatus(ctx, cmd.TaskID, cmd.NewStatus)
		if err != nil {
			return err
		}
		if before.Status == after.Status {
			return nil
		}
		follow := models.TaskEvent{
			ProjectID: after.ProjectID,
			TaskID:    cmd.TaskID,
			Kind:      models.EventStatusChange,
			Before:    before,
			After:     after,
			Timestamp: time.Now(),
		}
		c.process(ctx, follow, fired)
		return nil

	default:
		return fmt.Errorf("unknown command type %T", command)
	}
}
