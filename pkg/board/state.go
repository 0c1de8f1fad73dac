package board

import "fmt"

// Mode is the board's active interaction mode. Exactly one is active.
type Mode int

const (
	// ModeNormal connects and disconnects points by clicking them in turn
	ModeNormal Mode = iota
	// ModeDelete deletes whatever is clicked
	ModeDelete
	// ModeIntelligence opens the note attached to whatever is clicked
	ModeIntelligence
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDelete:
		return "delete"
	case ModeIntelligence:
		return "intelligence"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// TargetKind says what a note-editing target refers to
type TargetKind int

const (
	TargetPoint TargetKind = iota + 1
	TargetConnection
)

// Target is a point or connection a note can be bound to
type Target struct {
	Kind TargetKind
	ID   string
}

// SelectionKind enumerates the selection states
type SelectionKind int

const (
	// SelectionIdle means nothing is selected
	SelectionIdle SelectionKind = iota
	// SelectionPending holds the first endpoint of a connect gesture
	SelectionPending
	// SelectionEditing binds the note panel to a target
	SelectionEditing
)

// Selection is the board's selection state. PointID is set only when
// pending and Target only when editing.
type Selection struct {
	Kind    SelectionKind
	PointID string
	Target  Target
}

// Idle is the empty selection
func Idle() Selection { return Selection{Kind: SelectionIdle} }

// Pending selects pointID as the first endpoint of a connection
func Pending(pointID string) Selection {
	return Selection{Kind: SelectionPending, PointID: pointID}
}

// Editing binds the note panel to t
func Editing(t Target) Selection {
	return Selection{Kind: SelectionEditing, Target: t}
}

// Outcome reports what a click did
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSelected
	OutcomeCleared
	OutcomeConnected
	OutcomeDisconnected
	OutcomeDeleted
	OutcomeEditing
	// OutcomeSuppressed is a click swallowed because it ended a drag
	OutcomeSuppressed
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:         "none",
	OutcomeSelected:     "selected",
	OutcomeCleared:      "cleared",
	OutcomeConnected:    "connected",
	OutcomeDisconnected: "disconnected",
	OutcomeDeleted:      "deleted",
	OutcomeEditing:      "editing",
	OutcomeSuppressed:   "suppressed",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type dragState struct {
	pointID string
	armed   bool
	moved   bool
}
