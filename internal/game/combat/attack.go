package combat

import (
	"fmt"

	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/effect"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// WeaponBreakFace is the d6 face that breaks a PC's weapon after a messed-up attack.
const WeaponBreakFace = 1

// AttackOutcome is the result category of an opposed attack.
type AttackOutcome int

const (
	Miss AttackOutcome = iota
	Hit
	// Simultaneous means both sides scored the same non-zero successes.
	Simultaneous
)

// String returns the outcome label.
func (o AttackOutcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Simultaneous:
		return "simultaneous hit"
	default:
		return "miss"
	}
}

// AttackResult holds the outcome of one opposed attack.
type AttackResult struct {
	AttackerID   string
	DefenderID   string
	OffenseSkill skill.Skill
	DefenseSkill skill.Skill
	Attack       dice.RollResult
	// Defense is nil when the defender used fixed solo-mode successes.
	Defense          *dice.RollResult
	DefenseSuccesses int
	Outcome          AttackOutcome
	DamageToDefender int
	DamageToAttacker int
	WeaponBroken     bool
	Deltas           []effect.Delta
}

// Margin returns attacker successes minus defender successes.
func (r AttackResult) Margin() int { return r.Attack.Successes - r.DefenseSuccesses }

// OffenseSkill is Close Combat at short range and Ranged Combat otherwise.
func OffenseSkill(rng Range) skill.Skill {
	if rng == RangeShort {
		return skill.CloseCombat
	}
	return skill.RangedCombat
}

// DefenseSkill is Close Combat at short range and Mobility otherwise.
func DefenseSkill(rng Range) skill.Skill {
	if rng == RangeShort {
		return skill.CloseCombat
	}
	return skill.Mobility
}

// HitDamage is the damage a winning attacker deals.
//
// Precondition: margin >= 1.
// Postcondition: Returns weaponDamage + (margin - 1).
func HitDamage(weaponDamage, margin int) int {
	return weaponDamage + (margin - 1)
}

// ResolveOpposedAttack resolves one attack from attackerID against defenderID on a
// copy of state.
//
// Postcondition: state is unchanged; the returned state carries any damage. Returns
// ErrUnknownCombatant or ErrCombatantDown when either side cannot take part.
func (r *Resolver) ResolveOpposedAttack(state *BrawlState, attackerID, defenderID string, actors check.Actors) (*BrawlState, AttackResult, error) {
	next := state.Clone()
	att, def := next.Combatant(attackerID), next.Combatant(defenderID)
	for _, c := range []struct {
		id string
		cb *Combatant
	}{{attackerID, att}, {defenderID, def}} {
		if c.cb == nil || actors[c.id] == nil {
			return state, AttackResult{}, fmt.Errorf("%w: %q", ErrUnknownCombatant, c.id)
		}
		if c.cb.IsDown() {
			return state, AttackResult{}, fmt.Errorf("%w: %s", ErrCombatantDown, c.cb.Name)
		}
	}
	res := r.attack(next, att, def, actors)
	return next, res, nil
}

// attack mutates att and def in place.
func (r *Resolver) attack(s *BrawlState, att, def *Combatant, actors check.Actors) AttackResult {
	aActor, dActor := actors[att.ID], actors[def.ID]
	offense := OffenseSkill(att.Range)
	defense := DefenseSkill(att.Range)

	help := 0
	if offense == skill.RangedCombat && def.IsTakingCover {
		help = -1
	}
	res := AttackResult{
		AttackerID:   att.ID,
		DefenderID:   def.ID,
		OffenseSkill: offense,
		DefenseSkill: defense,
		Attack:       r.checks.Roll(aActor, offense, help),
	}

	if s.Solo && !def.IsPlayer() {
		res.DefenseSuccesses = skill.SoloDefense(dActor.DefenseTier(defense))
	} else {
		roll := r.checks.Roll(dActor, defense, 0)
		res.Defense = &roll
		res.DefenseSuccesses = roll.Successes
	}

	switch {
	case res.Attack.Successes > res.DefenseSuccesses:
		res.Outcome = Hit
		res.DamageToDefender = HitDamage(aActor.WeaponDamage(), res.Margin())
	case res.Attack.Successes == res.DefenseSuccesses && res.Attack.Successes > 0:
		res.Outcome = Simultaneous
		res.DamageToDefender = aActor.WeaponDamage()
		res.DamageToAttacker = dActor.WeaponDamage()
	default:
		res.Outcome = Miss
	}
	if res.DamageToDefender > 0 {
		def.ApplyDamage(res.DamageToDefender)
		res.Deltas = append(res.Deltas, effect.Health(def.ID, def.Health))
	}
	if res.DamageToAttacker > 0 {
		att.ApplyDamage(res.DamageToAttacker)
		res.Deltas = append(res.Deltas, effect.Health(att.ID, att.Health))
	}

	if att.IsPlayer() && res.Attack.MessedUp {
		if w, ok := aActor.Weapon(); ok && dice.RollDie(r.checks.Roller()) == WeaponBreakFace {
			res.WeaponBroken = true
			res.Deltas = append(res.Deltas, effect.Broken(att.ID, w.InstanceID))
		}
	}
	return res
}

func describeAttack(att, def *Combatant, res AttackResult) string {
	text := fmt.Sprintf("%s attacks %s with %s (%d vs %d): %s",
		att.Name, def.Name, res.OffenseSkill, res.Attack.Successes, res.DefenseSuccesses, res.Outcome)
	switch res.Outcome {
	case Hit:
		text += fmt.Sprintf(", %s takes %d damage", def.Name, res.DamageToDefender)
	case Simultaneous:
		text += fmt.Sprintf(", %s takes %d and %s takes %d", def.Name, res.DamageToDefender, att.Name, res.DamageToAttacker)
	}
	if def.IsDown() {
		text += fmt.Sprintf("; %s is down", def.Name)
	}
	if res.WeaponBroken {
		text += fmt.Sprintf("; %s's weapon breaks", att.Name)
	}
	return text + "."
}
