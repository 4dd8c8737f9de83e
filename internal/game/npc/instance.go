package npc

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// Instance is a live NPC taking part in the story.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// TemplateID is the source template's ID.
	TemplateID string
	Name       string

	Attributes map[skill.Attribute]int
	Skills     map[skill.Skill]int
	Expertise  map[skill.Skill]skill.Tier
	Gear       inventory.Gear

	Stress    int
	Health    int
	MaxHealth int
}

// NewInstance creates a live NPC from a template, resolving gear through items.
//
// Precondition: id must be non-empty; tmpl must be validated; items must be non-nil.
// Postcondition: Health equals tmpl.MaxHealth; returns an error for unknown gear IDs.
func NewInstance(id string, tmpl *Template, items *inventory.Registry) (*Instance, error) {
	inst := &Instance{
		ID:         id,
		TemplateID: tmpl.ID,
		Name:       tmpl.Name,
		Attributes: make(map[skill.Attribute]int, len(tmpl.Attributes)),
		Skills:     make(map[skill.Skill]int, len(tmpl.Skills)),
		Expertise:  make(map[skill.Skill]skill.Tier, len(tmpl.Expertise)),
		Health:     tmpl.MaxHealth,
		MaxHealth:  tmpl.MaxHealth,
	}
	for name, v := range tmpl.Attributes {
		inst.Attributes[skill.Attribute(strings.ToLower(name))] = v
	}
	for name, v := range tmpl.Skills {
		if sk, ok := skill.Parse(name); ok {
			inst.Skills[sk] = v
		}
	}
	for name, tier := range tmpl.Expertise {
		if sk, ok := skill.Parse(name); ok {
			inst.Expertise[sk] = skill.ParseTier(tier)
		}
	}
	for _, itemID := range tmpl.Gear {
		d, ok := items.Item(itemID)
		if !ok {
			return nil, fmt.Errorf("npc %q: unknown gear %q", tmpl.ID, itemID)
		}
		it := inventory.NewItem(d)
		it.Equipped = true
		inst.Gear = append(inst.Gear, it)
	}
	return inst, nil
}

// AttributeValue returns the value of the attribute governing s, 0 when unknown.
func (n *Instance) AttributeValue(s skill.Skill) int {
	attr, ok := skill.AttributeFor(s)
	if !ok {
		return 0
	}
	return n.Attributes[attr]
}

// SkillRank returns the rank in s.
func (n *Instance) SkillRank(s skill.Skill) int { return n.Skills[s] }

// GearBonus returns the summed equipped gear bonus for s.
func (n *Instance) GearBonus(s skill.Skill) int { return n.Gear.Bonus(s) }

// TalentBonus is always 0; NPCs have no talents.
func (n *Instance) TalentBonus(skill.Skill) int { return 0 }

// CurrentStress returns the NPC's stress level.
func (n *Instance) CurrentStress() int { return n.Stress }

// Tier returns the NPC's expertise in s.
func (n *Instance) Tier(s skill.Skill) skill.Tier { return n.Expertise[s] }

// Clone returns a deep copy of n.
func (n *Instance) Clone() *Instance {
	out := *n
	out.Attributes = make(map[skill.Attribute]int, len(n.Attributes))
	for k, v := range n.Attributes {
		out.Attributes[k] = v
	}
	out.Skills = make(map[skill.Skill]int, len(n.Skills))
	for k, v := range n.Skills {
		out.Skills[k] = v
	}
	out.Expertise = make(map[skill.Skill]skill.Tier, len(n.Expertise))
	for k, v := range n.Expertise {
		out.Expertise[k] = v
	}
	out.Gear = append(inventory.Gear(nil), n.Gear...)
	return &out
}
