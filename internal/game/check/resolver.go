package check

import (
	"errors"

	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

var (
	// ErrPushAlreadyPushed is returned when pushing a roll that was itself a push.
	ErrPushAlreadyPushed = errors.New("roll has already been pushed")
	// ErrPushSucceeded is returned when pushing a roll that already has successes.
	ErrPushSucceeded = errors.New("roll already succeeded")
	// ErrPushMessedUp is returned when pushing a roll that showed a complication.
	ErrPushMessedUp = errors.New("roll messed up and cannot be pushed")
)

// Resolver rolls skill checks through a logged dice.Roller.
type Resolver struct {
	roller *dice.Roller
}

// NewResolver creates a Resolver.
//
// Precondition: roller must be non-nil.
func NewResolver(roller *dice.Roller) *Resolver {
	return &Resolver{roller: roller}
}

// Roller returns the underlying dice roller.
func (r *Resolver) Roller() *dice.Roller { return r.roller }

// RollSkillCheck rolls base + stress dice for s. When help is non-zero the base pool is
// re-derived with the same clamp CalculateDicePool applies, so callers may pass either a
// finished pool with help == 0 or a raw pool plus a modifier.
//
// Postcondition: result.BaseDicePool >= 1 when base >= 1 or help != 0.
func (r *Resolver) RollSkillCheck(base, stress int, s skill.Skill, pushed bool, help int) dice.RollResult {
	if help != 0 {
		base = ApplyHelp(base, help)
	}
	return r.roller.RollPool(dice.Pool{Base: base, Stress: stress}, string(s), pushed)
}

// Roll rolls actor's pool for s with the given help/hurt dice.
func (r *Resolver) Roll(actor Actor, s skill.Skill, help int) dice.RollResult {
	p := actor.DicePool(s, help)
	return r.RollSkillCheck(p.Base, p.Stress, s, false, 0)
}

// CanPush reports why prev may not be pushed, or nil when it may.
func CanPush(prev dice.RollResult) error {
	switch {
	case prev.Pushed:
		return ErrPushAlreadyPushed
	case prev.Successes > 0:
		return ErrPushSucceeded
	case prev.MessedUp:
		return ErrPushMessedUp
	default:
		return nil
	}
}

// Push re-rolls every die of prev with one extra stress die.
//
// Postcondition: on success, result.BaseDicePool == prev.BaseDicePool,
// result.StressDicePool == prev.StressDicePool+1, result.Pushed and result.Skill ==
// prev.Skill. Ineligible rolls return a zero RollResult and the CanPush error.
func (r *Resolver) Push(prev dice.RollResult) (dice.RollResult, error) {
	if err := CanPush(prev); err != nil {
		return dice.RollResult{}, err
	}
	p := dice.Pool{Base: prev.BaseDicePool, Stress: prev.StressDicePool + 1}
	return r.roller.RollPool(p, prev.Skill, true), nil
}
