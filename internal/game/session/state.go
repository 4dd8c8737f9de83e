// Package session owns the state of one play session: the active brawl, the swarm
// and each actor's last roll. Reduce folds actions into that state; Manager serializes
// dispatch, loads snapshots, applies deltas and publishes the resulting messages.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrBrawlActive    = errors.New("a brawl is already under way")
	ErrNoBrawl        = errors.New("no brawl under way")
	ErrNoCombatants   = errors.New("a brawl needs at least one combatant")
	ErrDuplicateEntry = errors.New("combatant listed twice")
	ErrKeyMismatch    = errors.New("phase key does not match the current phase")
	ErrNothingToPush  = errors.New("no roll to push")
	ErrSwarmActive    = errors.New("a swarm is already threatening the group")
)

// State is everything a session remembers between actions.
type State struct {
	ID   string
	Solo bool
	// Brawl is nil between brawls.
	Brawl *combat.BrawlState
	Swarm swarm.State
	// LastRoll holds each actor's most recent roll, the candidate for a push.
	LastRoll map[string]dice.RollResult
}

// NewState returns an idle session.
func NewState(id string, solo bool) State {
	return State{ID: id, Solo: solo, LastRoll: make(map[string]dice.RollResult)}
}

func (s State) clone() State {
	out := s
	if s.Brawl != nil {
		out.Brawl = s.Brawl.Clone()
	}
	out.LastRoll = make(map[string]dice.RollResult, len(s.LastRoll))
	for k, v := range s.LastRoll {
		out.LastRoll[k] = v
	}
	return out
}

// Summary renders the session as status lines.
func (s State) Summary() []string {
	var out []string
	if s.Brawl == nil {
		out = append(out, "No brawl under way.")
	} else {
		b := s.Brawl
		out = append(out, fmt.Sprintf("Brawl round %d, %s phase.", b.Round, b.PhaseIndex))
		if b.LeadershipPool > 0 {
			out = append(out, fmt.Sprintf("Leadership pool: %d.", b.LeadershipPool))
		}
		for _, c := range b.Combatants {
			out = append(out, combatantLine(c))
		}
	}
	if s.Swarm.Active {
		out = append(out, s.Swarm.String())
	}
	ids := make([]string, 0, len(s.LastRoll))
	for id := range s.LastRoll {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, fmt.Sprintf("Last roll for %s: %s", id, s.LastRoll[id]))
	}
	return out
}

func combatantLine(c *combat.Combatant) string {
	var tags []string
	if c.IsDown() {
		tags = append(tags, "down")
	}
	if c.IsTakingCover {
		tags = append(tags, "in cover")
	}
	if c.IsOnOverwatch {
		tags = append(tags, "overwatch")
	}
	if c.PlannedAction != nil {
		tags = append(tags, "plans "+c.PlannedAction.Type.String())
	}
	line := fmt.Sprintf("  %s [%s] health %d/%d, %s range", c.Name, c.ID, c.Health, c.MaxHealth, c.Range)
	if len(tags) > 0 {
		line += " (" + strings.Join(tags, ", ") + ")"
	}
	return line
}
