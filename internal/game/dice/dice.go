// Package dice provides the randomness abstraction and the Year Zero Engine
// roll-result types for the Survivors resolution engine.
package dice

import (
	"fmt"
	"strings"
)

const (
	// Sides is the number of faces on every die the engine rolls.
	Sides = 6
	// SuccessFace is the face that counts as a success on any die.
	SuccessFace = 6
	// ComplicationFace is the face that counts as a complication on a stress die.
	ComplicationFace = 1
)

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollDie returns a single uniformly distributed d6 face.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a value in [1, 6].
func RollDie(src Source) int {
	return src.Intn(Sides) + 1
}

// RollResult holds the full audit trail for one skill check or push.
//
// Invariant: Successes == count(BaseDice == 6) + count(StressDice == 6).
// Invariant: MessedUp is true iff any StressDice == 1; BaseDice never affect it.
type RollResult struct {
	Skill          string
	BaseDice       []int
	StressDice     []int
	Successes      int
	MessedUp       bool
	Pushed         bool
	BaseDicePool   int
	StressDicePool int
}

// NewRollResult derives Successes and MessedUp from the given faces.
//
// Postcondition: the returned value satisfies the RollResult invariants and the pool
// sizes equal len(base) and len(stress).
func NewRollResult(skill string, base, stress []int, pushed bool) RollResult {
	return RollResult{
		Skill:          skill,
		BaseDice:       base,
		StressDice:     stress,
		Successes:      CountSuccesses(base) + CountSuccesses(stress),
		MessedUp:       HasComplication(stress),
		Pushed:         pushed,
		BaseDicePool:   len(base),
		StressDicePool: len(stress),
	}
}

// CountSuccesses returns the number of sixes in faces.
func CountSuccesses(faces []int) int {
	n := 0
	for _, f := range faces {
		if f == SuccessFace {
			n++
		}
	}
	return n
}

// HasComplication reports whether any stress face shows a one.
func HasComplication(stress []int) bool {
	for _, f := range stress {
		if f == ComplicationFace {
			return true
		}
	}
	return false
}

// Succeeded reports whether the roll produced at least one success.
func (r RollResult) Succeeded() bool { return r.Successes > 0 }

// String returns a human-readable audit string in the format:
//
//	"Mobility [6 3] stress [1] → 1 success, messed up"
func (r RollResult) String() string {
	var b strings.Builder
	skill := r.Skill
	if skill == "" {
		skill = "roll"
	}
	fmt.Fprintf(&b, "%s %v", skill, r.BaseDice)
	if len(r.StressDice) > 0 {
		fmt.Fprintf(&b, " stress %v", r.StressDice)
	}
	noun := "successes"
	if r.Successes == 1 {
		noun = "success"
	}
	fmt.Fprintf(&b, " → %d %s", r.Successes, noun)
	if r.MessedUp {
		b.WriteString(", messed up")
	}
	if r.Pushed {
		b.WriteString(" (pushed)")
	}
	return b.String()
}
