// Package check computes Year Zero Engine dice pools and resolves skill checks and
// pushed rolls for player and NPC actors.
package check

import (
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// MaxHelp is the largest help (or hurt, negated) modifier a roll accepts.
const MaxHelp = 3

// Sheet is the subset of a character or NPC record a dice pool is derived from.
type Sheet interface {
	AttributeValue(s skill.Skill) int
	SkillRank(s skill.Skill) int
	GearBonus(s skill.Skill) int
	TalentBonus(s skill.Skill) int
	CurrentStress() int
}

// RawBase returns attribute + rank + gear + talent dice for s before help/hurt.
//
// Postcondition: unknown skills contribute 0 from the attribute and rank.
func RawBase(sheet Sheet, s skill.Skill) int {
	return sheet.AttributeValue(s) + sheet.SkillRank(s) + sheet.GearBonus(s) + sheet.TalentBonus(s)
}

// ClampHelp limits help to at most MaxHelp and never lets it reduce rawBase below one die.
//
// Postcondition: Returns max(-rawBase+1, min(MaxHelp, help)).
func ClampHelp(rawBase, help int) int {
	eff := help
	if eff > MaxHelp {
		eff = MaxHelp
	}
	if floor := -rawBase + 1; eff < floor {
		eff = floor
	}
	return eff
}

// ApplyHelp returns the base pool after the clamped help/hurt modifier.
//
// Postcondition: Returns >= 1.
func ApplyHelp(rawBase, help int) int {
	base := rawBase + ClampHelp(rawBase, help)
	if base < 1 {
		base = 1
	}
	return base
}

// CalculateDicePool derives the base and stress pools sheet rolls for s.
//
// Postcondition: result.Base >= 1; result.Stress == sheet.CurrentStress().
func CalculateDicePool(sheet Sheet, s skill.Skill, help int) dice.Pool {
	return dice.Pool{
		Base:   ApplyHelp(RawBase(sheet, s), help),
		Stress: sheet.CurrentStress(),
	}
}
