// Package skill defines the fixed skill→attribute table and NPC expertise tiers.
package skill

import "strings"

// Attribute is one of the four core attributes.
type Attribute string

const (
	Strength Attribute = "strength"
	Agility  Attribute = "agility"
	Wits     Attribute = "wits"
	Empathy  Attribute = "empathy"
)

// Skill identifies a rollable skill. The zero value is not a valid skill.
type Skill string

const (
	CloseCombat  Skill = "close_combat"
	Force        Skill = "force"
	Endure       Skill = "endure"
	Mobility     Skill = "mobility"
	RangedCombat Skill = "ranged_combat"
	Stealth      Skill = "stealth"
	Scout        Skill = "scout"
	Survival     Skill = "survival"
	Tech         Skill = "tech"
	Leadership   Skill = "leadership"
	Manipulation Skill = "manipulation"
	Medicine     Skill = "medicine"
)

var governing = map[Skill]Attribute{
	CloseCombat:  Strength,
	Force:        Strength,
	Endure:       Strength,
	Mobility:     Agility,
	RangedCombat: Agility,
	Stealth:      Agility,
	Scout:        Wits,
	Survival:     Wits,
	Tech:         Wits,
	Leadership:   Empathy,
	Manipulation: Empathy,
	Medicine:     Empathy,
}

var displayNames = map[Skill]string{
	CloseCombat:  "Close Combat",
	Force:        "Force",
	Endure:       "Endure",
	Mobility:     "Mobility",
	RangedCombat: "Ranged Combat",
	Stealth:      "Stealth",
	Scout:        "Scout",
	Survival:     "Survival",
	Tech:         "Tech",
	Leadership:   "Leadership",
	Manipulation: "Manipulation",
	Medicine:     "Medicine",
}

// AttributeFor returns the attribute governing s.
//
// Postcondition: Returns ("", false) for unknown skills.
func AttributeFor(s Skill) (Attribute, bool) {
	a, ok := governing[s]
	return a, ok
}

// All returns every known skill in table order.
func All() []Skill {
	return []Skill{
		CloseCombat, Force, Endure,
		Mobility, RangedCombat, Stealth,
		Scout, Survival, Tech,
		Leadership, Manipulation, Medicine,
	}
}

// Parse normalizes user or content input ("Close Combat", "close-combat",
// "CLOSE_COMBAT") into a Skill.
//
// Postcondition: Returns (skill, true) for known skills, ("", false) otherwise.
func Parse(s string) (Skill, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	sk := Skill(norm)
	if _, ok := governing[sk]; !ok {
		return "", false
	}
	return sk, true
}

// String returns the display name, or the raw identifier for unknown skills.
func (s Skill) String() string {
	if n, ok := displayNames[s]; ok {
		return n
	}
	return string(s)
}

// Tier is an NPC's expertise in a skill.
type Tier int

const (
	TierNone Tier = iota
	TierExpert
	TierMaster
)

// String returns the tier label.
func (t Tier) String() string {
	switch t {
	case TierExpert:
		return "expert"
	case TierMaster:
		return "master"
	default:
		return "none"
	}
}

// ParseTier parses "expert"/"master"; anything else is TierNone.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expert":
		return TierExpert
	case "master":
		return TierMaster
	default:
		return TierNone
	}
}

// SoloDefense is the canonical fixed number of defense successes an NPC scores in
// single-player mode.
//
// Postcondition: TierNone → 1, TierExpert → 2, TierMaster → 3.
func SoloDefense(t Tier) int {
	switch t {
	case TierMaster:
		return 3
	case TierExpert:
		return 2
	default:
		return 1
	}
}
