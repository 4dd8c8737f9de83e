package inventory

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// Item is one owned copy of an ItemDef.
type Item struct {
	InstanceID string
	Def        *ItemDef
	Equipped   bool
	// Broken items give no bonus and deal no weapon damage until repaired.
	Broken bool
}

// NewItem creates an owned, unequipped copy of def with a fresh instance ID.
//
// Precondition: def must be non-nil.
func NewItem(def *ItemDef) Item {
	return Item{InstanceID: uuid.New().String(), Def: def}
}

// usable reports whether the item currently contributes to rolls.
func (i Item) usable() bool {
	return i.Def != nil && i.Equipped && !i.Broken
}

// Gear is an owned-item collection.
type Gear []Item

// Bonus sums the bonuses of equipped, unbroken items that apply to s.
//
// Postcondition: Returns 0 when no item applies.
func (g Gear) Bonus(s skill.Skill) int {
	total := 0
	for _, it := range g {
		if !it.usable() {
			continue
		}
		if bs, ok := it.Def.BonusSkill(); ok && bs == s {
			total += it.Def.Bonus
		}
	}
	return total
}

// Weapon returns the first equipped, unbroken weapon.
//
// Postcondition: Returns (item, true) when found, (Item{}, false) otherwise.
func (g Gear) Weapon() (Item, bool) {
	for _, it := range g {
		if it.usable() && it.Def.IsWeapon() {
			return it, true
		}
	}
	return Item{}, false
}

// WeaponDamage returns the damage of the equipped weapon, or 1 when unarmed.
//
// Postcondition: Returns >= 1.
func (g Gear) WeaponDamage() int {
	if w, ok := g.Weapon(); ok && w.Def.Damage > 0 {
		return w.Def.Damage
	}
	return 1
}

// Armor returns the summed armor level and armor penalty of equipped, unbroken armor.
func (g Gear) Armor() (level, penalty int) {
	for _, it := range g {
		if it.usable() && it.Def.IsArmor() {
			level += it.Def.ArmorLevel
			penalty += it.Def.ArmorPenalty
		}
	}
	return level, penalty
}

// MarkBroken returns a copy of g with the item matching instanceID marked broken.
//
// Postcondition: g itself is not modified; ok is false when no item matches.
func (g Gear) MarkBroken(instanceID string) (Gear, bool) {
	out := make(Gear, len(g))
	copy(out, g)
	for i := range out {
		if out[i].InstanceID == instanceID {
			out[i].Broken = true
			return out, true
		}
	}
	return out, false
}
