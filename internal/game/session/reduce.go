package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/survivors/internal/events"
	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/effect"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
	"github.com/cory-johannsen/survivors/internal/game/table"
)

// Message kinds emitted by the reducer. Brawl resolution events keep their
// combat.EventKind labels.
const (
	KindRoll        = "roll"
	KindPush        = "push"
	KindTable       = "table"
	KindBrawl       = "brawl"
	KindPlan        = "plan"
	KindSwarm       = "swarm"
	KindConsequence = "consequence"
	KindWalker      = "walker"
	KindRejected    = "rejected"
)

// Env is what one reduction reads besides the state: the resolvers and the actor
// snapshots loaded for the action.
type Env struct {
	Checks *check.Resolver
	Combat *combat.Resolver
	Swarm  *swarm.Resolver
	Tables *table.Registry
	Actors check.Actors
}

type reduction struct {
	env    Env
	st     *State
	msgs   []events.Message
	deltas []effect.Delta
}

func (r *reduction) say(kind, actorID, format string, args ...any) *events.Message {
	m := events.New(r.st.ID, kind, fmt.Sprintf(format, args...))
	m.ActorID = actorID
	r.msgs = append(r.msgs, m)
	return &r.msgs[len(r.msgs)-1]
}

func (r *reduction) name(id string) string {
	if a := r.env.Actors[id]; a != nil {
		return a.Name()
	}
	if r.st.Brawl != nil {
		if c := r.st.Brawl.Combatant(id); c != nil {
			return c.Name
		}
	}
	return id
}

// Reduce folds act into st.
//
// Precondition: env.Actors holds snapshots for act.Involves(st).
// Postcondition: st is not modified. A rejected action returns st unchanged with a
// single KindRejected message explaining why, and no deltas.
func Reduce(env Env, st State, act Action) (State, []events.Message, []effect.Delta) {
	next := st.clone()
	r := &reduction{env: env, st: &next}
	if err := act.apply(r); err != nil {
		m := events.New(st.ID, KindRejected, fmt.Sprintf("Cannot %s: %v.", act.Name(), err))
		return st, []events.Message{m}, nil
	}
	return next, r.msgs, r.deltas
}

func (a RollSkill) apply(r *reduction) error {
	actor, err := r.env.Actors.Get(a.ActorID)
	if err != nil {
		return err
	}
	roll := r.env.Checks.Roll(actor, a.Skill, a.Help)
	r.st.LastRoll[a.ActorID] = roll
	m := r.say(KindRoll, a.ActorID, "%s rolls %s.", actor.Name(), roll)
	m.Roll = &roll
	return nil
}

func (a PushRoll) apply(r *reduction) error {
	prev, ok := r.st.LastRoll[a.ActorID]
	if !ok {
		return fmt.Errorf("%w for %s", ErrNothingToPush, r.name(a.ActorID))
	}
	roll, err := r.env.Checks.Push(prev)
	if err != nil {
		return err
	}
	r.st.LastRoll[a.ActorID] = roll
	m := r.say(KindPush, a.ActorID, "%s pushes the roll: %s.", r.name(a.ActorID), roll)
	m.Roll = &roll
	if actor := r.env.Actors[a.ActorID]; actor != nil && actor.IsPlayer() {
		r.deltas = append(r.deltas, effect.Stress(a.ActorID, 1))
		m.Text += " Stress +1."
	}
	return nil
}

func (a RollTable) apply(r *reduction) error {
	res, err := r.env.Tables.Roll(r.env.Checks.Roller(), a.TableID)
	if err != nil {
		return err
	}
	if !res.Found {
		r.say(KindTable, "", "%s rolled %s: nothing on the table.", a.TableID, res.Roll.Roll)
		return nil
	}
	r.say(KindTable, "", "%s rolled %s: %s", a.TableID, res.Roll.Roll, res.Entry.Text)
	return nil
}

func (a StartBrawl) apply(r *reduction) error {
	if r.st.Brawl != nil {
		return ErrBrawlActive
	}
	if len(a.Entrants) == 0 {
		return ErrNoCombatants
	}
	seen := make(map[string]bool, len(a.Entrants))
	cs := make([]*combat.Combatant, 0, len(a.Entrants))
	for _, e := range a.Entrants {
		if seen[e.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateEntry, e.ID)
		}
		seen[e.ID] = true
		actor, err := r.env.Actors.Get(e.ID)
		if err != nil {
			return err
		}
		cs = append(cs, combat.NewCombatant(actor, e.Range))
	}
	r.st.Brawl = combat.NewBrawl(uuid.New().String(), cs, r.st.Solo)
	r.say(KindBrawl, "", "A brawl breaks out. Round 1, %s phase: plan your actions.", combat.PhaseCover)
	return nil
}

func (a PlanAction) apply(r *reduction) error {
	if r.st.Brawl == nil {
		return ErrNoBrawl
	}
	if err := r.st.Brawl.Plan(a.ActorID, a.Action); err != nil {
		return err
	}
	text := fmt.Sprintf("%s plans to %s", r.name(a.ActorID), a.Action.Type)
	if a.Action.TargetID != "" {
		text += " " + r.name(a.Action.TargetID)
	}
	m := r.say(KindPlan, a.ActorID, "%s.", text)
	m.TargetID = a.Action.TargetID
	return nil
}

func (a ResolvePhase) apply(r *reduction) error {
	b := r.st.Brawl
	if b == nil {
		return ErrNoBrawl
	}
	if a.Key != (combat.PhaseKey{}) && a.Key != b.Key() {
		return fmt.Errorf("%w: got round %d %s, current is round %d %s",
			ErrKeyMismatch, a.Key.Round, a.Key.Phase, b.Round, b.PhaseIndex)
	}
	wasOver := b.Over()
	res := r.env.Combat.ResolvePhase(b, r.env.Actors)
	r.st.Brawl = res.State
	for _, ev := range res.Events {
		r.msgs = append(r.msgs, fromEvent(r.st.ID, ev))
	}
	r.deltas = append(r.deltas, res.Deltas...)
	if !wasOver && res.State.Over() {
		r.say(KindBrawl, "", "The brawl is over: one side has nobody left standing.")
	}
	return nil
}

func fromEvent(sessionID string, ev combat.Event) events.Message {
	m := events.New(sessionID, string(ev.Kind), ev.Text)
	m.ID = ev.ID
	m.ActorID = ev.ActorID
	m.TargetID = ev.TargetID
	m.Roll = ev.Roll
	if m.Roll == nil && ev.Attack != nil {
		roll := ev.Attack.Attack
		m.Roll = &roll
	}
	return m
}

func (EndBrawl) apply(r *reduction) error {
	b := r.st.Brawl
	if b == nil {
		return ErrNoBrawl
	}
	for _, c := range b.Combatants {
		if c.IsTakingCover {
			r.deltas = append(r.deltas, effect.Cover(c.ID, false))
		}
	}
	r.st.Brawl = nil
	r.say(KindBrawl, "", "The brawl ends after %d round(s).", b.Round)
	return nil
}

func (a StartSwarm) apply(r *reduction) error {
	if r.st.Swarm.Active {
		return ErrSwarmActive
	}
	r.st.Swarm = swarm.New(a.Threat, a.Size)
	r.say(KindSwarm, "", "Walkers close in. %s", r.st.Swarm)
	return nil
}

func (a ResolveSwarmRound) apply(r *reduction) error {
	next, res, err := r.env.Swarm.ResolveRound(r.st.Swarm, a.Participants, r.env.Actors)
	if err != nil {
		return err
	}
	r.st.Swarm = next
	for _, line := range res.Lines {
		r.say(KindSwarm, "", "%s", line)
	}
	r.deltas = append(r.deltas, res.Deltas...)
	return nil
}

func (a ApplyConsequence) apply(r *reduction) error {
	next, res, err := r.env.Swarm.ApplyConsequence(r.st.Swarm, a.Kind, a.Targets, r.env.Actors)
	if err != nil {
		return err
	}
	r.st.Swarm = next
	for _, line := range res.Lines {
		r.say(KindConsequence, "", "%s", line)
	}
	r.deltas = append(r.deltas, res.Deltas...)
	return nil
}

func (EndSwarm) apply(r *reduction) error {
	if !r.st.Swarm.Active {
		return swarm.ErrNoSwarm
	}
	r.st.Swarm = swarm.State{}
	r.say(KindSwarm, "", "The swarm is left behind.")
	return nil
}

func (a WalkerStrike) apply(r *reduction) error {
	wa, deltas, err := r.env.Swarm.WalkerAttackOn(a.TargetID, r.env.Actors)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("A walker lunges at %s (%s)", r.name(a.TargetID), wa.Table.Roll.Roll)
	if wa.Table.Entry.Text != "" {
		text += ": " + wa.Table.Entry.Text
	}
	if wa.Damage > 0 {
		text += fmt.Sprintf(" %d damage, %d health left.", wa.Damage, wa.Health)
	}
	if wa.Stress > 0 {
		text += fmt.Sprintf(" +%d stress.", wa.Stress)
	}
	m := r.say(KindWalker, "", "%s", text)
	m.TargetID = a.TargetID
	r.deltas = append(r.deltas, deltas...)
	return nil
}
