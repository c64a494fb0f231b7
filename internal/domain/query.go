package domain

import "context"

// QueryRequest captures user intent originating from CLI args or the
// interactive prompt.
type QueryRequest struct {
	Context context.Context
	Prompt  string
}

// QueryResponse is the canonical pipeline outcome propagated back to the CLI.
type QueryResponse struct {
	Command string
	Verdict Verdict
	Action  ActionKind
	Status  Status
}

// ActionKind enumerates the post-confirmation menu choices.
type ActionKind int

const (
	ActionRun ActionKind = iota
	ActionExplain
	ActionCopy
	ActionShowHistory
	ActionCancel
)

// String returns the menu label for the action.
func (a ActionKind) String() string {
	switch a {
	case ActionRun:
		return "run"
	case ActionExplain:
		return "explain"
	case ActionCopy:
		return "copy"
	case ActionShowHistory:
		return "history"
	default:
		return "cancel"
	}
}

// ParseActionKey maps a menu keystroke to an action. Keys are matched on the
// lowercased first letter; anything unrecognized cancels.
func ParseActionKey(key rune) ActionKind {
	switch key {
	case 'y', 'Y':
		return ActionRun
	case 'e', 'E':
		return ActionExplain
	case 'c', 'C':
		return ActionCopy
	case 'h', 'H':
		return ActionShowHistory
	default:
		return ActionCancel
	}
}

// QueryService exposes the use-case boundary for one pipeline run.
type QueryService interface {
	Run(QueryRequest) (QueryResponse, error)
}
