// Package roster defines how the engine reads character and NPC snapshots and writes
// state changes back, plus an in-memory store.
package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/effect"
	"github.com/cory-johannsen/survivors/internal/game/npc"
)

// ErrNotFound is returned when no character or NPC has the requested ID.
var ErrNotFound = errors.New("roster: record not found")

// Provider returns snapshots of characters and NPCs. Returned values are copies the
// caller may keep.
type Provider interface {
	Character(ctx context.Context, id string) (*character.Character, error)
	NPC(ctx context.Context, id string) (*npc.Instance, error)
}

// Mutator applies engine results back onto the store.
type Mutator interface {
	SetHealth(ctx context.Context, id string, health int) error
	AddStress(ctx context.Context, id string, n int) error
	SetCover(ctx context.Context, id string, on bool) error
	BreakItem(ctx context.Context, id, itemID string) error
}

// Spawner creates NPC instances from loaded templates.
type Spawner interface {
	SpawnNPC(ctx context.Context, templateID, id string) (*npc.Instance, error)
}

// Store is everything a session needs from its roster.
type Store interface {
	Provider
	Mutator
	Spawner
}

// Actor loads id as a player character, falling back to an NPC.
//
// Postcondition: Returns ErrNotFound (wrapped) when neither exists.
func Actor(ctx context.Context, p Provider, id string) (check.Actor, error) {
	c, err := p.Character(ctx, id)
	if err == nil {
		return check.NewPlayerActor(c), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	n, err := p.NPC(ctx, id)
	if err == nil {
		return check.NewNPCActor(n), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Actors loads every id. Missing records are left out so a stale ID degrades to
// "nothing happens" rather than failing the whole resolution.
//
// Postcondition: Returns the first non-ErrNotFound error.
func Actors(ctx context.Context, p Provider, ids ...string) (check.Actors, error) {
	out := make(check.Actors, len(ids))
	for _, id := range ids {
		a, err := Actor(ctx, p, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = a
	}
	return out, nil
}

// Apply writes every delta through m in order.
//
// Postcondition: every delta is attempted; failures are joined.
func Apply(ctx context.Context, m Mutator, deltas []effect.Delta) error {
	var errs []error
	for _, d := range deltas {
		var err error
		switch d.Kind {
		case effect.SetHealth:
			err = m.SetHealth(ctx, d.TargetID, d.Amount)
		case effect.AddStress:
			err = m.AddStress(ctx, d.TargetID, d.Amount)
		case effect.SetCover:
			err = m.SetCover(ctx, d.TargetID, d.Cover)
		case effect.BreakItem:
			err = m.BreakItem(ctx, d.TargetID, d.ItemID)
		default:
			err = fmt.Errorf("unknown delta kind %d", int(d.Kind))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("applying %s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}
