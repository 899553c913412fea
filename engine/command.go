package engine

// Command is an intended, not-yet-applied side effect produced by the
// executor. The closed set of variants is AwardBadgeCommand,
// UpdateTaskStatusCommand and NotifyCommand; the controller is the only
// place commands are applied.
type Command interface {
	isCommand()
}

type AwardBadgeCommand struct {
	UserID    string
	BadgeName string
}

func (AwardBadgeCommand) isCommand() {}

type UpdateTaskStatusCommand struct {
	TaskID    string
	NewStatus string
}

func (UpdateTaskStatusCommand) isCommand() {}

type NotifyCommand struct {
	RecipientEmail string
	Text           string
}

func (NotifyCommand) isCommand() {}
