package constants

// ItemStatus is the lifecycle state of a task or subtask.
type ItemStatus int

const (
	StatusToDo       ItemStatus = 0
	StatusInProgress ItemStatus = 1
	StatusInReview   ItemStatus = 2
	StatusDone       ItemStatus = 3
)

func (s ItemStatus) String() string {
	switch s {
	case StatusToDo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusInReview:
		return "In Review"
	case StatusDone:
		return "Done"
	}
	return "Unknown"
}

// Valid reports whether s is one of the four recognized states.
func (s ItemStatus) Valid() bool {
	return s >= StatusToDo && s <= StatusDone
}

// Role is a user role as provisioned in the identity provider.
type Role string

const (
	RoleEmployee       Role = "employee"
	RoleTeamLead       Role = "team_lead"
	RoleProjectManager Role = "project_manager"
	RoleAdmin          Role = "admin"
)

// ItemKind distinguishes tasks from subtasks in timeline rows and payloads.
type ItemKind string

const (
	KindTask    ItemKind = "task"
	KindSubtask ItemKind = "subtask"
)

// TimelineAction is an explicit tracking operation on the timeline endpoint.
type TimelineAction string

const (
	ActionStart TimelineAction = "start"
	ActionPause TimelineAction = "pause"
	ActionEnd   TimelineAction = "end"
)

// History status flags identify which field or event a history entry records.
const (
	FlagStatus       = 1
	FlagActiveStatus = 2
	FlagAssignee     = 3
	FlagSecondary    = 4
	FlagEstimate     = 5
	FlagPriority     = 6
	FlagDescription  = 7
	FlagDueDate      = 8
	FlagName         = 9
	FlagTimeline     = 10
	FlagReopen       = 11
)
