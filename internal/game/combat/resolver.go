package combat

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/effect"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// Narrator supplies narrative text for free-form Other actions. Implementations must
// not change game state.
type Narrator interface {
	NarrateOther(actorName, text string) (string, bool)
}

// Resolver resolves brawl phases and opposed attacks.
type Resolver struct {
	checks   *check.Resolver
	narrator Narrator
}

// NewResolver creates a Resolver. narrator may be nil.
//
// Precondition: checks must be non-nil.
func NewResolver(checks *check.Resolver, narrator Narrator) *Resolver {
	return &Resolver{checks: checks, narrator: narrator}
}

// Resolution is the outcome of resolving one phase.
type Resolution struct {
	// Key is the phase that was resolved.
	Key    PhaseKey
	State  *BrawlState
	Events []Event
	Deltas []effect.Delta
	// Wrapped is true when resolving Key ended the round.
	Wrapped bool
}

type phaseRun struct {
	r      *Resolver
	s      *BrawlState
	actors check.Actors
	key    PhaseKey
	out    *Resolution
}

func (p *phaseRun) emit(ev Event) { p.out.Events = append(p.out.Events, ev) }

func (p *phaseRun) note(kind EventKind, actorID, format string, args ...any) {
	p.emit(newEvent(p.key, kind, actorID, fmt.Sprintf(format, args...)))
}

// ResolvePhase resolves every action planned for state's current phase and advances
// the phase, wrapping to the next round after Other/Leadership.
//
// Precondition: actors holds a snapshot for every combatant that may roll.
// Postcondition: state is unchanged; Resolution.State.Key() == state.Key().Next().
func (r *Resolver) ResolvePhase(state *BrawlState, actors check.Actors) Resolution {
	s := state.Clone()
	out := Resolution{Key: s.Key(), State: s}
	p := &phaseRun{r: r, s: s, actors: actors, key: s.Key(), out: &out}
	p.note(EventPhase, "", "Round %d, %s phase.", s.Round, s.PhaseIndex)

	switch s.PhaseIndex {
	case PhaseCover:
		p.coverPhase()
	case PhaseRanged:
		p.rangedPhase()
	case PhaseClose:
		p.closePhase()
	case PhaseMovement:
		p.movementPhase()
	case PhaseFirstAid:
		p.firstAidPhase()
	case PhaseOther:
		p.otherPhase()
	}

	if s.PhaseIndex >= PhaseOther {
		p.wrap()
	} else {
		s.PhaseIndex++
	}
	return out
}

// planned returns the combatants whose planned action resolves in the current phase
// and matches one of types, in declaration order.
func (p *phaseRun) planned(types ...ActionType) []*Combatant {
	var out []*Combatant
	for _, c := range p.s.Combatants {
		if c.PlannedAction == nil || c.HasActed {
			continue
		}
		for _, t := range types {
			if c.PlannedAction.Type == t {
				out = append(out, c)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlannedAction.Declared < out[j].PlannedAction.Declared
	})
	return out
}

// ready reports whether c may act, emitting the reason when it may not.
func (p *phaseRun) ready(c *Combatant) bool {
	if c.IsDown() {
		p.note(EventNoOp, c.ID, "%s is down and cannot act.", c.Name)
		return false
	}
	if p.actors[c.ID] == nil {
		p.note(EventNoOp, c.ID, "%s has no sheet; nothing happens.", c.Name)
		return false
	}
	return true
}

// target returns the live target of c's planned action other than c itself.
func (p *phaseRun) target(c *Combatant) *Combatant {
	t := p.s.Combatant(c.PlannedAction.TargetID)
	switch {
	case t == nil, p.actors[t.ID] == nil:
		p.note(EventNoOp, c.ID, "%s has no valid target; nothing happens.", c.Name)
		return nil
	case t.ID == c.ID:
		p.note(EventNoOp, c.ID, "%s cannot target themselves.", c.Name)
		return nil
	case t.IsDown():
		p.note(EventNoOp, c.ID, "%s's target %s is already down.", c.Name, t.Name)
		return nil
	}
	return t
}

func (p *phaseRun) coverPhase() {
	for _, c := range p.planned(ActionTakeCover) {
		c.HasActed = true
		if !p.ready(c) {
			continue
		}
		if c.IsTakingCover {
			c.IsTakingCover = false
			p.out.Deltas = append(p.out.Deltas, effect.Cover(c.ID, false))
			p.note(EventCover, c.ID, "%s leaves cover.", c.Name)
			continue
		}
		roll := p.r.checks.Roll(p.actors[c.ID], skill.Mobility, 0)
		ev := newEvent(p.key, EventCover, c.ID, "")
		ev.Roll = &roll
		if roll.Succeeded() {
			c.IsTakingCover = true
			p.out.Deltas = append(p.out.Deltas, effect.Cover(c.ID, true))
			ev.Text = fmt.Sprintf("%s dives into cover (%s).", c.Name, roll)
		} else {
			ev.Text = fmt.Sprintf("%s fails to reach cover (%s).", c.Name, roll)
		}
		p.emit(ev)
	}
}

func (p *phaseRun) rangedPhase() {
	for _, c := range p.planned(ActionOverwatch) {
		c.HasActed = true
		if !p.ready(c) {
			continue
		}
		c.IsOnOverwatch = true
		p.note(EventOverwatch, c.ID, "%s goes on overwatch.", c.Name)
	}
	shooters := p.planned(ActionRangedAttack)
	sort.SliceStable(shooters, func(i, j int) bool {
		return !shooters[i].IsPlayer() && shooters[j].IsPlayer()
	})
	for _, c := range shooters {
		c.HasActed = true
		p.attackPlanned(c)
	}
}

func (p *phaseRun) closePhase() {
	for _, c := range p.planned(ActionCloseAttack) {
		c.HasActed = true
		if !p.ready(c) {
			continue
		}
		if c.Range != RangeShort {
			p.note(EventNoOp, c.ID, "%s cannot reach anyone from %s range.", c.Name, c.Range)
			continue
		}
		if t := p.target(c); t != nil {
			p.resolveAttack(c, t)
		}
	}
}

func (p *phaseRun) attackPlanned(c *Combatant) {
	if !p.ready(c) {
		return
	}
	t := p.target(c)
	if t == nil {
		return
	}
	p.resolveAttack(c, t)
}

func (p *phaseRun) resolveAttack(att, def *Combatant) {
	res := p.r.attack(p.s, att, def, p.actors)
	ev := newEvent(p.key, EventAttack, att.ID, describeAttack(att, def, res))
	ev.TargetID = def.ID
	ev.Roll = &res.Attack
	ev.Attack = &res
	p.emit(ev)
	p.out.Deltas = append(p.out.Deltas, res.Deltas...)
}

func (p *phaseRun) movementPhase() {
	for _, mover := range p.planned(ActionMove) {
		mover.HasActed = true
		if !p.ready(mover) {
			continue
		}
		for _, w := range p.s.Combatants {
			if w.ID == mover.ID || !w.IsOnOverwatch || w.IsDown() || p.actors[w.ID] == nil {
				continue
			}
			p.note(EventOverwatch, w.ID, "%s fires on %s from overwatch.", w.Name, mover.Name)
			p.resolveAttack(w, mover)
			w.IsOnOverwatch = false
			if mover.IsDown() {
				break
			}
		}
		if mover.IsDown() {
			p.note(EventNoOp, mover.ID, "%s is cut down before reaching %s range.", mover.Name, mover.PlannedAction.Range)
			continue
		}
		mover.Range = mover.PlannedAction.Range
		p.note(EventMove, mover.ID, "%s moves to %s range.", mover.Name, mover.Range)
	}
}

func (p *phaseRun) firstAidPhase() {
	for _, c := range p.planned(ActionFirstAid) {
		c.HasActed = true
		if !p.ready(c) {
			continue
		}
		t := p.target(c)
		if t == nil {
			continue
		}
		roll := p.r.checks.Roll(p.actors[c.ID], skill.Medicine, 0)
		healed := t.Heal(roll.Successes)
		ev := newEvent(p.key, EventFirstAid, c.ID, fmt.Sprintf("%s tends to %s (%s), restoring %d health.", c.Name, t.Name, roll, healed))
		ev.TargetID = t.ID
		ev.Roll = &roll
		p.emit(ev)
		if healed > 0 {
			p.out.Deltas = append(p.out.Deltas, effect.Health(t.ID, t.Health))
		}
	}
}

func (p *phaseRun) otherPhase() {
	led := false
	for _, c := range p.planned(ActionLeadership, ActionOther) {
		c.HasActed = true
		if !p.ready(c) {
			continue
		}
		if c.PlannedAction.Type == ActionOther {
			text := fmt.Sprintf("%s: %s", c.Name, c.PlannedAction.Text)
			if p.r.narrator != nil {
				if line, ok := p.r.narrator.NarrateOther(c.Name, c.PlannedAction.Text); ok {
					text = line
				}
			}
			p.note(EventOther, c.ID, "%s", text)
			continue
		}
		if led {
			p.note(EventNoOp, c.ID, "%s's leadership is superseded this round.", c.Name)
			continue
		}
		led = true
		roll := p.r.checks.Roll(p.actors[c.ID], skill.Leadership, 0)
		ev := newEvent(p.key, EventLeadership, c.ID, "")
		ev.Roll = &roll
		if roll.Succeeded() {
			p.s.LeadershipPending = roll.Successes
			ev.Text = fmt.Sprintf("%s rallies the group (%s): %d bonus dice next round.", c.Name, roll, roll.Successes)
		} else {
			ev.Text = fmt.Sprintf("%s fails to rally the group (%s).", c.Name, roll)
		}
		p.emit(ev)
	}
}

// wrap ends the round: plans, overwatch and acted flags clear and leadership carries over.
func (p *phaseRun) wrap() {
	s := p.s
	for _, c := range s.Combatants {
		c.PlannedAction = nil
		c.IsOnOverwatch = false
		c.HasActed = false
	}
	s.LeadershipPool = s.LeadershipPending
	s.LeadershipPending = 0
	s.Round++
	s.PhaseIndex = PhaseCover
	p.out.Wrapped = true
	p.note(EventRound, "", "Round %d begins.", s.Round)
}
