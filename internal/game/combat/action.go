package combat

import (
	"fmt"
	"strings"
)

// ActionType identifies what a combatant plans to do this round.
// The zero value (ActionNone) is intentionally invalid.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionTakeCover
	ActionOverwatch
	ActionRangedAttack
	ActionCloseAttack
	ActionMove
	ActionFirstAid
	ActionLeadership
	ActionOther
)

var actionNames = map[ActionType]string{
	ActionTakeCover:    "cover",
	ActionOverwatch:    "overwatch",
	ActionRangedAttack: "shoot",
	ActionCloseAttack:  "strike",
	ActionMove:         "move",
	ActionFirstAid:     "aid",
	ActionLeadership:   "lead",
	ActionOther:        "other",
}

// String returns the short command name of the action.
func (a ActionType) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "none"
}

// ParseActionType parses the short command name produced by String.
//
// Postcondition: Returns (ActionNone, error) for unknown names.
func ParseActionType(s string) (ActionType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, n := range actionNames {
		if n == s {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// Phase returns the phase in which a resolves.
//
// Postcondition: ok is false only for ActionNone and unknown values.
func (a ActionType) Phase() (Phase, bool) {
	switch a {
	case ActionTakeCover:
		return PhaseCover, true
	case ActionOverwatch, ActionRangedAttack:
		return PhaseRanged, true
	case ActionCloseAttack:
		return PhaseClose, true
	case ActionMove:
		return PhaseMovement, true
	case ActionFirstAid:
		return PhaseFirstAid, true
	case ActionLeadership, ActionOther:
		return PhaseOther, true
	default:
		return 0, false
	}
}

// NeedsTarget reports whether a must name another combatant.
func (a ActionType) NeedsTarget() bool {
	switch a {
	case ActionRangedAttack, ActionCloseAttack, ActionFirstAid:
		return true
	default:
		return false
	}
}

// PlannedAction is what a combatant declared for the current round.
type PlannedAction struct {
	Type     ActionType
	TargetID string
	// Range is the destination range category of a Move.
	Range Range
	// Text is the free-form description of an Other action.
	Text string
	// Declared orders actions within a phase; lower declared first.
	Declared int
}
