// Package combat implements the six-phase brawl engine: planning, phase-ordered
// resolution, cover, overwatch interrupts, opposed attacks, first aid, and leadership.
package combat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/survivors/internal/game/check"
)

var (
	// ErrUnknownCombatant is returned when an ID does not name a combatant in the brawl.
	ErrUnknownCombatant = errors.New("unknown combatant")
	// ErrCombatantDown is returned when a combatant at 0 health tries to plan or act.
	ErrCombatantDown = errors.New("combatant is down")
	// ErrInvalidAction is returned for ActionNone or an unknown action type.
	ErrInvalidAction = errors.New("invalid action")
	// ErrTargetRequired is returned when an attack or first aid names no valid target.
	ErrTargetRequired = errors.New("action requires a target")
	// ErrPhasePassed is returned when planning an action whose phase already resolved this round.
	ErrPhasePassed = errors.New("phase already resolved this round")
	// ErrAlreadyActed is returned when a combatant that acted this round plans again.
	ErrAlreadyActed = errors.New("already acted this round")
)

// Kind distinguishes player combatants from NPC combatants.
type Kind int

const (
	KindPlayer Kind = iota
	KindNPC
)

// Range is a combatant's distance category to the fight.
type Range int

const (
	RangeShort Range = iota
	RangeMedium
	RangeLong
)

// String returns the range label.
func (r Range) String() string {
	switch r {
	case RangeShort:
		return "short"
	case RangeMedium:
		return "medium"
	case RangeLong:
		return "long"
	default:
		return "unknown"
	}
}

// ParseRange parses "short", "medium" or "long".
func ParseRange(s string) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short":
		return RangeShort, nil
	case "medium":
		return RangeMedium, nil
	case "long":
		return RangeLong, nil
	default:
		return 0, fmt.Errorf("unknown range %q", s)
	}
}

// Combatant is one participant's per-brawl projection of a character or NPC.
type Combatant struct {
	ID            string
	Name          string
	Kind          Kind
	Range         Range
	Health        int
	MaxHealth     int
	ArmorLevel    int
	ArmorPenalty  int
	PlannedAction *PlannedAction
	HasActed      bool
	IsTakingCover bool
	IsOnOverwatch bool
}

// NewCombatant projects a onto a fresh Combatant at range rng.
//
// Precondition: a must be non-nil.
func NewCombatant(a check.Actor, rng Range) *Combatant {
	kind := KindNPC
	if a.IsPlayer() {
		kind = KindPlayer
	}
	level, penalty := a.Armor()
	return &Combatant{
		ID:           a.ID(),
		Name:         a.Name(),
		Kind:         kind,
		Range:        rng,
		Health:       a.Health(),
		MaxHealth:    a.MaxHealth(),
		ArmorLevel:   level,
		ArmorPenalty: penalty,
	}
}

// IsPlayer reports whether this combatant is a player character.
func (c *Combatant) IsPlayer() bool { return c.Kind == KindPlayer }

// IsDown reports whether the combatant is at 0 health.
func (c *Combatant) IsDown() bool { return c.Health <= 0 }

// ApplyDamage reduces Health by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: Health >= 0.
func (c *Combatant) ApplyDamage(amount int) {
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
}

// Heal raises Health by amount, capped at MaxHealth.
//
// Postcondition: Returns the health actually restored.
func (c *Combatant) Heal(amount int) int {
	before := c.Health
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
	return c.Health - before
}

func (c *Combatant) clone() *Combatant {
	out := *c
	if c.PlannedAction != nil {
		pa := *c.PlannedAction
		out.PlannedAction = &pa
	}
	return &out
}

// BrawlState is the whole state of one brawl. Resolution never mutates a BrawlState
// it is handed; it returns a new one.
type BrawlState struct {
	ID         string
	Round      int
	PhaseIndex Phase
	Combatants []*Combatant
	// Solo enables fixed NPC defense successes.
	Solo bool
	// LeadershipPending is granted this round and becomes LeadershipPool on the wrap.
	LeadershipPending int
	LeadershipPool    int

	declareSeq int
}

// NewBrawl starts a brawl at round 1, phase 0.
//
// Postcondition: Returned state owns its own combatant slice.
func NewBrawl(id string, combatants []*Combatant, solo bool) *BrawlState {
	cs := make([]*Combatant, len(combatants))
	for i, c := range combatants {
		cs[i] = c.clone()
	}
	return &BrawlState{ID: id, Round: 1, PhaseIndex: PhaseCover, Combatants: cs, Solo: solo}
}

// Clone returns a deep copy of s.
func (s *BrawlState) Clone() *BrawlState {
	out := *s
	out.Combatants = make([]*Combatant, len(s.Combatants))
	for i, c := range s.Combatants {
		out.Combatants[i] = c.clone()
	}
	return &out
}

// Key returns the (round, phase) the next resolution will process.
func (s *BrawlState) Key() PhaseKey {
	return PhaseKey{Round: s.Round, Phase: s.PhaseIndex}
}

// Combatant returns the combatant with id, or nil.
func (s *BrawlState) Combatant(id string) *Combatant {
	for _, c := range s.Combatants {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Plan sets the planned action of combatant id, replacing any earlier plan this round.
//
// Precondition: s is owned by the caller (clone shared states first).
// Postcondition: on success the action's Declared is later than every earlier plan.
func (s *BrawlState) Plan(id string, action PlannedAction) error {
	c := s.Combatant(id)
	if c == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCombatant, id)
	}
	if c.IsDown() {
		return fmt.Errorf("%w: %s", ErrCombatantDown, c.Name)
	}
	if c.HasActed {
		return fmt.Errorf("%w: %s", ErrAlreadyActed, c.Name)
	}
	ph, ok := action.Type.Phase()
	if !ok {
		return ErrInvalidAction
	}
	if ph < s.PhaseIndex {
		return fmt.Errorf("%w: %s", ErrPhasePassed, ph)
	}
	if action.Type.NeedsTarget() && s.Combatant(action.TargetID) == nil {
		return fmt.Errorf("%w: %s", ErrTargetRequired, action.Type)
	}
	s.declareSeq++
	action.Declared = s.declareSeq
	c.PlannedAction = &action
	return nil
}

// Living returns the combatants of kind k with health above 0.
func (s *BrawlState) Living(k Kind) []*Combatant {
	var out []*Combatant
	for _, c := range s.Combatants {
		if c.Kind == k && !c.IsDown() {
			out = append(out, c)
		}
	}
	return out
}

// Over reports whether one side has no combatant left standing.
func (s *BrawlState) Over() bool {
	return len(s.Living(KindPlayer)) == 0 || len(s.Living(KindNPC)) == 0
}
