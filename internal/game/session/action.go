package session

import (
	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/skill"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
)

// Action is one command folded into a session by Reduce.
type Action interface {
	// Name is the action's log label.
	Name() string
	// Involves lists the actor IDs whose snapshots the action reads from st.
	Involves(st State) []string

	apply(r *reduction) error
}

// RollSkill rolls a skill check for one actor.
type RollSkill struct {
	ActorID string
	Skill   skill.Skill
	Help    int
}

// PushRoll re-rolls the actor's last roll with one more stress die.
type PushRoll struct {
	ActorID string
}

// RollTable rolls on a narrative table.
type RollTable struct {
	TableID string
}

// Entrant is a combatant joining a brawl at a starting range.
type Entrant struct {
	ID    string
	Range combat.Range
}

// StartBrawl opens a brawl at round 1, Cover phase.
type StartBrawl struct {
	Entrants []Entrant
}

// PlanAction declares a combatant's action for the round.
type PlanAction struct {
	ActorID string
	Action  combat.PlannedAction
}

// ResolvePhase resolves the current brawl phase. A zero Key means "whatever phase
// is current"; a non-zero Key must match it.
type ResolvePhase struct {
	Key combat.PhaseKey
}

// EndBrawl closes the brawl and lets everyone out of cover.
type EndBrawl struct{}

// StartSwarm puts a swarm in front of the group.
type StartSwarm struct {
	Threat int
	Size   int
}

// ResolveSwarmRound rolls one round against the swarm.
type ResolveSwarmRound struct {
	Participants []swarm.Participant
}

// ApplyConsequence pays for a lost swarm round.
type ApplyConsequence struct {
	Kind swarm.Consequence
	// Targets are the survivors a swarm attack may reach; empty means the latest
	// round's participants.
	Targets []string
}

// EndSwarm drives the swarm off without a roll.
type EndSwarm struct{}

// WalkerStrike rolls one walker attack on an actor.
type WalkerStrike struct {
	TargetID string
}

func (RollSkill) Name() string         { return "roll" }
func (PushRoll) Name() string          { return "push" }
func (RollTable) Name() string         { return "table" }
func (StartBrawl) Name() string        { return "brawl" }
func (PlanAction) Name() string        { return "plan" }
func (ResolvePhase) Name() string      { return "resolve" }
func (EndBrawl) Name() string          { return "end_brawl" }
func (StartSwarm) Name() string        { return "swarm" }
func (ResolveSwarmRound) Name() string { return "swarm_round" }
func (ApplyConsequence) Name() string  { return "consequence" }
func (EndSwarm) Name() string          { return "end_swarm" }
func (WalkerStrike) Name() string      { return "walker" }

func (a RollSkill) Involves(State) []string { return []string{a.ActorID} }
func (a PushRoll) Involves(State) []string  { return []string{a.ActorID} }
func (RollTable) Involves(State) []string   { return nil }

func (a StartBrawl) Involves(State) []string {
	ids := make([]string, len(a.Entrants))
	for i, e := range a.Entrants {
		ids[i] = e.ID
	}
	return ids
}

func (PlanAction) Involves(State) []string      { return nil }
func (ResolvePhase) Involves(st State) []string { return brawlIDs(st) }
func (EndBrawl) Involves(State) []string        { return nil }
func (StartSwarm) Involves(State) []string      { return nil }

func (a ResolveSwarmRound) Involves(State) []string {
	ids := make([]string, len(a.Participants))
	for i, p := range a.Participants {
		ids[i] = p.ActorID
	}
	return ids
}

func (EndSwarm) Involves(State) []string       { return nil }
func (a WalkerStrike) Involves(State) []string { return []string{a.TargetID} }

func (a ApplyConsequence) Involves(st State) []string {
	if len(a.Targets) == 0 {
		return st.Swarm.Participants
	}
	return a.Targets
}

func brawlIDs(st State) []string {
	if st.Brawl == nil {
		return nil
	}
	ids := make([]string, len(st.Brawl.Combatants))
	for i, c := range st.Brawl.Combatants {
		ids[i] = c.ID
	}
	return ids
}
