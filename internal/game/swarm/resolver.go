package swarm

import (
	"fmt"

	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/effect"
	"github.com/cory-johannsen/survivors/internal/game/skill"
	"github.com/cory-johannsen/survivors/internal/game/table"
)

// Resolver resolves swarm rounds and consequences.
type Resolver struct {
	checks *check.Resolver
	tables *table.Registry
}

// NewResolver creates a Resolver. tables must hold walker_attack and swarm_attack;
// table.Defaults() does.
//
// Precondition: checks and tables must be non-nil.
func NewResolver(checks *check.Resolver, tables *table.Registry) *Resolver {
	return &Resolver{checks: checks, tables: tables}
}

// ParticipantRoll is one participant's roll in a swarm round.
type ParticipantRoll struct {
	ActorID string
	Roll    dice.RollResult
}

// WalkerAttack is one resolved walker attack against a single combatant.
type WalkerAttack struct {
	TargetID string
	Table    table.Result
	Damage   int
	Stress   int
	// Health is the target's health after the attack.
	Health int
}

// RoundResult reports a resolved swarm round.
type RoundResult struct {
	Rolls         []ParticipantRoll
	Total         int
	Needed        int
	Won           bool
	SwarmRemoved  bool
	WalkerAttacks []WalkerAttack
	Deltas        []effect.Delta
	Lines         []string
}

// ConsequenceResult reports an applied consequence.
type ConsequenceResult struct {
	Kind Consequence
	// Table is set for SwarmAttack.
	Table         *table.Result
	WalkerAttacks []WalkerAttack
	Deltas        []effect.Delta
	Lines         []string
}

// healthBook tracks health across several walker attacks in one call.
type healthBook struct {
	actors check.Actors
	health map[string]int
}

func newHealthBook(actors check.Actors) *healthBook {
	return &healthBook{actors: actors, health: make(map[string]int)}
}

func (h *healthBook) get(id string) int {
	if v, ok := h.health[id]; ok {
		return v
	}
	return h.actors[id].Health()
}

// ResolveRound rolls every participant's declared skill and compares the pooled
// successes against the swarm.
//
// Precondition: state.Active and !state.PendingConsequence.
// Postcondition: state is unchanged; on a loss the returned state has
// PendingConsequence set; FullBlock is always cleared.
func (r *Resolver) ResolveRound(state State, participants []Participant, actors check.Actors) (State, RoundResult, error) {
	switch {
	case !state.Active:
		return state, RoundResult{}, ErrNoSwarm
	case state.PendingConsequence:
		return state, RoundResult{}, ErrConsequencePending
	}
	var acting []Participant
	for _, p := range participants {
		if a := actors[p.ActorID]; a != nil && a.Health() > 0 {
			acting = append(acting, p)
		}
	}
	if len(acting) == 0 {
		return state, RoundResult{}, ErrNoParticipants
	}

	next := state
	res := RoundResult{Needed: state.Needed()}
	book := newHealthBook(actors)
	blocked := false
	for _, p := range acting {
		a := actors[p.ActorID]
		roll := r.checks.Roll(a, p.Skill, p.Help)
		res.Rolls = append(res.Rolls, ParticipantRoll{ActorID: p.ActorID, Roll: roll})
		res.Total += roll.Successes
		res.Lines = append(res.Lines, fmt.Sprintf("%s: %s", a.Name(), roll))
		if p.Skill == skill.Mobility || p.Skill == skill.Stealth {
			blocked = true
		}
	}
	if state.FullBlock && blocked {
		res.Needed++
		res.Lines = append(res.Lines, "The swarm blocks every way out: one more success needed.")
	}
	next.FullBlock = false
	next.Participants = make([]string, len(acting))
	for i, p := range acting {
		next.Participants[i] = p.ActorID
	}

	for _, pr := range res.Rolls {
		if !pr.Roll.MessedUp {
			continue
		}
		wa, err := r.walkerAttack(pr.ActorID, book)
		if err != nil {
			return state, RoundResult{}, err
		}
		res.WalkerAttacks = append(res.WalkerAttacks, wa)
		res.Deltas = append(res.Deltas, wa.deltas()...)
		res.Lines = append(res.Lines, wa.line(actors))
	}

	res.Won = res.Total >= res.Needed
	switch {
	case res.Won && state.SwarmSize <= BreakSize:
		next.Active = false
		res.SwarmRemoved = true
		res.Lines = append(res.Lines, fmt.Sprintf("%d of %d successes: the swarm breaks apart.", res.Total, res.Needed))
	case res.Won:
		next.SwarmSize--
		res.Lines = append(res.Lines, fmt.Sprintf("%d of %d successes: the swarm thins to size %d.", res.Total, res.Needed, next.SwarmSize))
	default:
		next.PendingConsequence = true
		res.Lines = append(res.Lines, fmt.Sprintf("%d of %d successes: the swarm closes in; choose a consequence.", res.Total, res.Needed))
	}
	next.Round++
	return next, res, nil
}

// ApplyConsequence pays for a failed round. targets are the combatants a swarm attack
// may fall on, defaulting to the latest round's participants when empty; only those
// with health above 0 are eligible.
//
// Precondition: state.PendingConsequence.
// Postcondition: state is unchanged; the returned state has PendingConsequence cleared.
// Raising threat or size already at 6 still consumes the consequence.
func (r *Resolver) ApplyConsequence(state State, kind Consequence, targets []string, actors check.Actors) (State, ConsequenceResult, error) {
	switch {
	case !state.Active:
		return state, ConsequenceResult{}, ErrNoSwarm
	case !state.PendingConsequence:
		return state, ConsequenceResult{}, ErrNoConsequencePending
	}
	next := state
	res := ConsequenceResult{Kind: kind}
	switch kind {
	case RaiseThreat:
		next.ThreatLevel = min(MaxThreat, next.ThreatLevel+1)
		res.Lines = append(res.Lines, fmt.Sprintf("The threat rises to %d.", next.ThreatLevel))
	case GrowSwarm:
		next.SwarmSize = min(MaxSize, next.SwarmSize+1)
		res.Lines = append(res.Lines, fmt.Sprintf("More walkers join; the swarm grows to size %d.", next.SwarmSize))
	case SwarmAttack:
		if len(targets) == 0 {
			targets = state.Participants
		}
		if err := r.swarmAttack(&next, &res, targets, actors); err != nil {
			return state, ConsequenceResult{}, err
		}
	default:
		return state, ConsequenceResult{}, fmt.Errorf("%w: %d", ErrUnknownConsequence, int(kind))
	}
	next.PendingConsequence = false
	return next, res, nil
}

func (r *Resolver) swarmAttack(next *State, res *ConsequenceResult, targets []string, actors check.Actors) error {
	var live []string
	for _, id := range targets {
		if a := actors[id]; a != nil && a.Health() > 0 {
			live = append(live, id)
		}
	}
	tr, err := r.tables.Roll(r.checks.Roller(), table.SwarmAttack)
	if err != nil {
		return err
	}
	res.Table = &tr
	if tr.Entry.Text != "" {
		res.Lines = append(res.Lines, tr.Entry.Text)
	}

	var hit []string
	switch tr.Entry.Outcome {
	case table.OutcomeFullBlock:
		next.FullBlock = true
		return nil
	case table.OutcomeMassAttack:
		hit = live
	case table.OutcomeSingleAttack:
		if len(live) > 0 {
			hit = []string{live[r.checks.Roller().Intn(len(live))]}
		}
	}
	if len(hit) == 0 && tr.Entry.Outcome != table.OutcomeNone {
		res.Lines = append(res.Lines, "Nobody is left standing for the walkers to reach.")
	}
	book := newHealthBook(actors)
	for _, id := range hit {
		wa, err := r.walkerAttack(id, book)
		if err != nil {
			return err
		}
		res.WalkerAttacks = append(res.WalkerAttacks, wa)
		res.Deltas = append(res.Deltas, wa.deltas()...)
		res.Lines = append(res.Lines, wa.line(actors))
	}
	return nil
}

// WalkerAttackOn rolls a single walker attack against actor id outside any round.
func (r *Resolver) WalkerAttackOn(id string, actors check.Actors) (WalkerAttack, []effect.Delta, error) {
	if actors[id] == nil {
		return WalkerAttack{}, nil, fmt.Errorf("%w: %q", check.ErrUnknownActor, id)
	}
	wa, err := r.walkerAttack(id, newHealthBook(actors))
	if err != nil {
		return WalkerAttack{}, nil, err
	}
	return wa, wa.deltas(), nil
}

func (r *Resolver) walkerAttack(id string, book *healthBook) (WalkerAttack, error) {
	tr, err := r.tables.Roll(r.checks.Roller(), table.WalkerAttack)
	if err != nil {
		return WalkerAttack{}, err
	}
	hp := book.get(id)
	wa := WalkerAttack{TargetID: id, Table: tr, Damage: tr.Entry.Damage, Stress: tr.Entry.Stress}
	hp -= wa.Damage
	if hp < 0 {
		hp = 0
	}
	book.health[id] = hp
	wa.Health = hp
	return wa, nil
}

func (w WalkerAttack) deltas() []effect.Delta {
	var out []effect.Delta
	if w.Damage > 0 {
		out = append(out, effect.Health(w.TargetID, w.Health))
	}
	if w.Stress > 0 {
		out = append(out, effect.Stress(w.TargetID, w.Stress))
	}
	return out
}

func (w WalkerAttack) line(actors check.Actors) string {
	name := w.TargetID
	if a := actors[w.TargetID]; a != nil {
		name = a.Name()
	}
	text := fmt.Sprintf("Walker attack on %s (%s)", name, w.Table.Roll.Roll)
	if w.Table.Entry.Text != "" {
		text += ": " + w.Table.Entry.Text
	}
	if w.Damage > 0 {
		text += fmt.Sprintf(" %d damage, %d health left.", w.Damage, w.Health)
	}
	if w.Stress > 0 {
		text += fmt.Sprintf(" +%d stress.", w.Stress)
	}
	return text
}
