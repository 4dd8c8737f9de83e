package combat_test

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/dice/dicetest"
	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// sheet returns a character with every attribute at 1, so a skill's base pool is
// 1 + rank.
func sheet(id string, ranks map[skill.Skill]int, weaponDamage int) *character.Character {
	c := &character.Character{
		ID:   id,
		Name: id,
		Attributes: map[skill.Attribute]int{
			skill.Strength: 1, skill.Agility: 1, skill.Wits: 1, skill.Empathy: 1,
		},
		Skills:    ranks,
		Health:    5,
		MaxHealth: 5,
	}
	if c.Skills == nil {
		c.Skills = map[skill.Skill]int{}
	}
	if weaponDamage > 0 {
		w := inventory.NewItem(&inventory.ItemDef{ID: "pistol", Name: "Pistol", Kind: inventory.KindWeapon, Damage: weaponDamage})
		w.Equipped = true
		c.Gear = inventory.Gear{w}
	}
	return c
}

func walker(id string, expertise map[skill.Skill]skill.Tier) *npc.Instance {
	return &npc.Instance{
		ID:         id,
		Name:       id,
		Attributes: map[skill.Attribute]int{skill.Strength: 1, skill.Agility: 1},
		Skills:     map[skill.Skill]int{},
		Expertise:  expertise,
		Health:     3,
		MaxHealth:  3,
	}
}

type fixture struct {
	faces    *dicetest.Faces
	resolver *combat.Resolver
	actors   check.Actors
	state    *combat.BrawlState
}

func newFixture(solo bool, actors ...check.Actor) *fixture {
	f := &fixture{actors: check.Actors{}}
	var cs []*combat.Combatant
	for _, a := range actors {
		f.actors[a.ID()] = a
		cs = append(cs, combat.NewCombatant(a, combat.RangeMedium))
	}
	f.state = combat.NewBrawl("brawl-1", cs, solo)
	f.script()
	return f
}

// script replaces the dice with the given faces.
func (f *fixture) script(faces ...int) {
	if len(faces) == 0 {
		faces = []int{3}
	}
	f.faces = dicetest.NewFaces(faces...)
	roller := dice.NewLoggedRoller(f.faces, zap.NewNop())
	f.resolver = combat.NewResolver(check.NewResolver(roller), nil)
}

type narrator struct{}

func (narrator) NarrateOther(actorName, text string) (string, bool) {
	return actorName + " improvises: " + text, true
}

func eventsOf(res combat.Resolution, kind combat.EventKind) []combat.Event {
	var out []combat.Event
	for _, e := range res.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
