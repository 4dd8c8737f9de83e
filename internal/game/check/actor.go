package check

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// Actor is anything that can roll dice in a scene. Resolvers call Actor and never
// branch on whether it is backed by a player sheet or an NPC.
type Actor interface {
	ID() string
	Name() string
	IsPlayer() bool
	DicePool(s skill.Skill, help int) dice.Pool
	// DefenseTier is the expertise used for fixed solo-mode defense.
	DefenseTier(s skill.Skill) skill.Tier
	Weapon() (inventory.Item, bool)
	WeaponDamage() int
	Armor() (level, penalty int)
	Health() int
	MaxHealth() int
}

// PlayerActor adapts a Character to Actor.
type PlayerActor struct {
	C *character.Character
}

// NewPlayerActor returns an Actor backed by c.
//
// Precondition: c must be non-nil.
func NewPlayerActor(c *character.Character) PlayerActor { return PlayerActor{C: c} }

func (p PlayerActor) ID() string     { return p.C.ID }
func (p PlayerActor) Name() string   { return p.C.Name }
func (p PlayerActor) IsPlayer() bool { return true }

// DicePool returns CalculateDicePool over the character sheet.
func (p PlayerActor) DicePool(s skill.Skill, help int) dice.Pool {
	return CalculateDicePool(p.C, s, help)
}

// DefenseTier is TierNone; player characters always roll defense.
func (p PlayerActor) DefenseTier(skill.Skill) skill.Tier { return skill.TierNone }

func (p PlayerActor) Weapon() (inventory.Item, bool) { return p.C.Gear.Weapon() }
func (p PlayerActor) WeaponDamage() int              { return p.C.Gear.WeaponDamage() }
func (p PlayerActor) Armor() (int, int)              { return p.C.Gear.Armor() }
func (p PlayerActor) Health() int                    { return p.C.Health }
func (p PlayerActor) MaxHealth() int                 { return p.C.MaxHealth }

// NPCActor adapts an npc.Instance to Actor.
type NPCActor struct {
	N *npc.Instance
}

// NewNPCActor returns an Actor backed by n.
//
// Precondition: n must be non-nil.
func NewNPCActor(n *npc.Instance) NPCActor { return NPCActor{N: n} }

func (a NPCActor) ID() string     { return a.N.ID }
func (a NPCActor) Name() string   { return a.N.Name }
func (a NPCActor) IsPlayer() bool { return false }

// DicePool returns CalculateDicePool over the NPC's attributes, skills, and gear.
func (a NPCActor) DicePool(s skill.Skill, help int) dice.Pool {
	return CalculateDicePool(a.N, s, help)
}

func (a NPCActor) DefenseTier(s skill.Skill) skill.Tier { return a.N.Tier(s) }
func (a NPCActor) Weapon() (inventory.Item, bool)       { return a.N.Gear.Weapon() }
func (a NPCActor) WeaponDamage() int                    { return a.N.Gear.WeaponDamage() }
func (a NPCActor) Armor() (int, int)                    { return a.N.Gear.Armor() }
func (a NPCActor) Health() int                          { return a.N.Health }
func (a NPCActor) MaxHealth() int                       { return a.N.MaxHealth }

// ErrUnknownActor is returned when an ID has no snapshot.
var ErrUnknownActor = errors.New("unknown actor")

// Actors is a snapshot of every actor taking part in a resolution, keyed by ID.
type Actors map[string]Actor

// Get returns the actor for id or ErrUnknownActor.
func (a Actors) Get(id string) (Actor, error) {
	if actor, ok := a[id]; ok && actor != nil {
		return actor, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownActor, id)
}
