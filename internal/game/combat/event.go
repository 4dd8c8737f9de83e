package combat

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/survivors/internal/game/dice"
)

// EventKind classifies a resolution event.
type EventKind string

const (
	EventPhase      EventKind = "phase"
	EventRound      EventKind = "round"
	EventCover      EventKind = "cover"
	EventOverwatch  EventKind = "overwatch"
	EventAttack     EventKind = "attack"
	EventMove       EventKind = "move"
	EventFirstAid   EventKind = "first_aid"
	EventLeadership EventKind = "leadership"
	EventOther      EventKind = "other"
	// EventNoOp reports an action that did nothing, with the reason in Text.
	EventNoOp EventKind = "no_op"
)

// Event is one narrative line produced while resolving a phase.
type Event struct {
	ID       string
	Key      PhaseKey
	Kind     EventKind
	ActorID  string
	TargetID string
	Text     string
	// Roll is the actor's roll, when one was made.
	Roll *dice.RollResult
	// Attack is set for EventAttack.
	Attack *AttackResult
}

func newEvent(key PhaseKey, kind EventKind, actorID, text string) Event {
	return Event{ID: uuid.New().String(), Key: key, Kind: kind, ActorID: actorID, Text: text}
}
