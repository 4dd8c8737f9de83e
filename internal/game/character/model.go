// Package character defines the player-character sheet, talents, and the pure
// logic that builds a sheet from content definitions.
package character

import (
	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// Character is a snapshot of a player character's sheet.
type Character struct {
	ID   string
	Name string

	Attributes map[skill.Attribute]int
	Skills     map[skill.Skill]int
	Gear       inventory.Gear
	Talents    []Talent

	Stress    int
	Health    int
	MaxHealth int
}

// AttributeValue returns the value of the attribute governing s.
//
// Postcondition: Returns 0 for unknown skills or unset attributes.
func (c *Character) AttributeValue(s skill.Skill) int {
	attr, ok := skill.AttributeFor(s)
	if !ok {
		return 0
	}
	return c.Attributes[attr]
}

// SkillRank returns the rank in s, 0 when untrained or unknown.
func (c *Character) SkillRank(s skill.Skill) int { return c.Skills[s] }

// GearBonus returns the summed equipped gear bonus for s.
func (c *Character) GearBonus(s skill.Skill) int { return c.Gear.Bonus(s) }

// TalentBonus returns the summed bonus of active talents for s.
func (c *Character) TalentBonus(s skill.Skill) int {
	total := 0
	for _, t := range c.Talents {
		if t.Active && t.Skill == s {
			total += t.Bonus
		}
	}
	return total
}

// CurrentStress returns the accumulated stress level.
func (c *Character) CurrentStress() int { return c.Stress }

// Clone returns a deep copy of c.
func (c *Character) Clone() *Character {
	out := *c
	out.Attributes = make(map[skill.Attribute]int, len(c.Attributes))
	for k, v := range c.Attributes {
		out.Attributes[k] = v
	}
	out.Skills = make(map[skill.Skill]int, len(c.Skills))
	for k, v := range c.Skills {
		out.Skills[k] = v
	}
	out.Gear = append(inventory.Gear(nil), c.Gear...)
	out.Talents = append([]Talent(nil), c.Talents...)
	return &out
}
