// Package swarm resolves group rounds against a walker swarm: pooled successes versus
// threat plus size, personal walker attacks on complications, and the consequence that
// must follow a failed round.
package swarm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/survivors/internal/game/skill"
)

const (
	// MaxThreat caps ThreatLevel.
	MaxThreat = 6
	// MaxSize caps SwarmSize.
	MaxSize = 6
	// BreakSize is the largest swarm a won round removes outright.
	BreakSize = 3
)

var (
	// ErrNoSwarm is returned when acting on an inactive swarm.
	ErrNoSwarm = errors.New("no active swarm")
	// ErrConsequencePending is returned when a round is started before the last
	// failed round's consequence is applied.
	ErrConsequencePending = errors.New("a swarm consequence must be applied first")
	// ErrNoConsequencePending is returned when applying a consequence nobody owes.
	ErrNoConsequencePending = errors.New("no swarm consequence is pending")
	// ErrNoParticipants is returned when a round has nobody able to roll.
	ErrNoParticipants = errors.New("no participants")
	// ErrUnknownConsequence is returned for a Consequence outside the three kinds.
	ErrUnknownConsequence = errors.New("unknown consequence")
)

// State is the whole state of one swarm encounter.
type State struct {
	ThreatLevel        int
	SwarmSize          int
	PendingConsequence bool
	// FullBlock demands one extra success in the next round that uses Mobility or Stealth.
	FullBlock bool
	Active    bool
	Round     int
	// Participants are the IDs that acted in the latest round; a swarm attack with
	// no explicit targets falls on them.
	Participants []string
}

// New returns an active swarm at round 1 with threat clamped to [0, 6] and size to [1, 6].
func New(threat, size int) State {
	return State{ThreatLevel: clamp(threat, 0, MaxThreat), SwarmSize: clamp(size, 1, MaxSize), Active: true, Round: 1}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// Needed returns the successes a round must reach, before any full block.
func (s State) Needed() int { return s.ThreatLevel + s.SwarmSize }

// String summarizes the swarm for status output.
func (s State) String() string {
	if !s.Active {
		return "no swarm"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "swarm round %d: threat %d, size %d, %d successes needed", s.Round, s.ThreatLevel, s.SwarmSize, s.Needed())
	if s.FullBlock {
		b.WriteString(", full block")
	}
	if s.PendingConsequence {
		b.WriteString(", consequence pending")
	}
	return b.String()
}

// Participant is one combatant acting in a swarm round.
type Participant struct {
	ActorID string
	Skill   skill.Skill
	Help    int
}

// Consequence is the cost of a failed swarm round.
type Consequence int

const (
	RaiseThreat Consequence = iota + 1
	GrowSwarm
	SwarmAttack
)

// String returns the consequence's command name.
func (c Consequence) String() string {
	switch c {
	case RaiseThreat:
		return "threat"
	case GrowSwarm:
		return "grow"
	case SwarmAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// ParseConsequence parses "threat", "grow" or "attack".
func ParseConsequence(s string) (Consequence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "threat":
		return RaiseThreat, nil
	case "grow":
		return GrowSwarm, nil
	case "attack":
		return SwarmAttack, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownConsequence, s)
	}
}
