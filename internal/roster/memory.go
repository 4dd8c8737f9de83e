package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/content"
	"github.com/cory-johannsen/survivors/internal/game/npc"
)

// Memory is an in-memory Store. All methods are safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	lib   *content.Library
	chars map[string]*character.Character
	npcs  map[string]*npc.Instance
	cover map[string]bool
}

// NewMemory creates an empty Memory that spawns NPCs from lib.
//
// Precondition: lib must be non-nil.
func NewMemory(lib *content.Library) *Memory {
	return &Memory{
		lib:   lib,
		chars: make(map[string]*character.Character),
		npcs:  make(map[string]*npc.Instance),
		cover: make(map[string]bool),
	}
}

// NewMemoryFromLibrary creates a Memory holding every character lib defines.
func NewMemoryFromLibrary(lib *content.Library) (*Memory, error) {
	chars, err := lib.Characters()
	if err != nil {
		return nil, err
	}
	m := NewMemory(lib)
	for _, c := range chars {
		m.AddCharacter(c)
	}
	return m, nil
}

// AddCharacter stores a copy of c, replacing any character with the same ID.
func (m *Memory) AddCharacter(c *character.Character) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chars[c.ID] = c.Clone()
}

// AddNPC stores a copy of n, replacing any NPC with the same ID.
func (m *Memory) AddNPC(n *npc.Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.npcs[n.ID] = n.Clone()
}

// CharacterIDs returns every stored character ID in sorted order.
func (m *Memory) CharacterIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.chars))
	for id := range m.chars {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// InCover reports the last cover flag written for id.
func (m *Memory) InCover(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cover[id]
}

func (m *Memory) Character(_ context.Context, id string) (*character.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chars[id]
	if !ok {
		return nil, fmt.Errorf("%w: character %q", ErrNotFound, id)
	}
	return c.Clone(), nil
}

func (m *Memory) NPC(_ context.Context, id string) (*npc.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.npcs[id]
	if !ok {
		return nil, fmt.Errorf("%w: npc %q", ErrNotFound, id)
	}
	return n.Clone(), nil
}

// SpawnNPC creates and stores an instance of templateID.
func (m *Memory) SpawnNPC(_ context.Context, templateID, id string) (*npc.Instance, error) {
	inst, err := m.lib.Spawn(templateID, id)
	if err != nil {
		return nil, err
	}
	m.AddNPC(inst)
	return inst.Clone(), nil
}

// SetHealth sets id's health, clamped to [0, MaxHealth].
func (m *Memory) SetHealth(_ context.Context, id string, health int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.chars[id]; ok {
		c.Health = max(0, min(c.MaxHealth, health))
		return nil
	}
	if n, ok := m.npcs[id]; ok {
		n.Health = max(0, min(n.MaxHealth, health))
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}

// AddStress adds n to id's stress, flooring at 0.
func (m *Memory) AddStress(_ context.Context, id string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.chars[id]; ok {
		c.Stress = max(0, c.Stress+n)
		return nil
	}
	if inst, ok := m.npcs[id]; ok {
		inst.Stress = max(0, inst.Stress+n)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}

func (m *Memory) SetCover(_ context.Context, id string, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, isChar := m.chars[id]
	_, isNPC := m.npcs[id]
	if !isChar && !isNPC {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	m.cover[id] = on
	return nil
}

// BreakItem marks the owned item itemID of id broken.
func (m *Memory) BreakItem(_ context.Context, id, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.chars[id]; ok {
		gear, found := c.Gear.MarkBroken(itemID)
		if !found {
			return fmt.Errorf("%w: item %q on %q", ErrNotFound, itemID, id)
		}
		c.Gear = gear
		return nil
	}
	if n, ok := m.npcs[id]; ok {
		gear, found := n.Gear.MarkBroken(itemID)
		if !found {
			return fmt.Errorf("%w: item %q on %q", ErrNotFound, itemID, id)
		}
		n.Gear = gear
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}
