package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/events"
	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/content"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/dice/dicetest"
	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/game/session"
	"github.com/cory-johannsen/survivors/internal/game/skill"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
	"github.com/cory-johannsen/survivors/internal/game/table"
	"github.com/cory-johannsen/survivors/internal/roster"
)

// ada has every attribute at 1, Ranged Combat 1 and a damage-2 pistol.
func ada() *character.Character {
	pistol := inventory.NewItem(&inventory.ItemDef{ID: "pistol", Name: "Pistol", Kind: inventory.KindWeapon, Damage: 2})
	pistol.Equipped = true
	return &character.Character{
		ID:   "ada",
		Name: "Ada",
		Attributes: map[skill.Attribute]int{
			skill.Strength: 1, skill.Agility: 1, skill.Wits: 1, skill.Empathy: 1,
		},
		Skills:    map[skill.Skill]int{skill.RangedCombat: 1},
		Gear:      inventory.Gear{pistol},
		Health:    5,
		MaxHealth: 5,
	}
}

func walker() *npc.Instance {
	return &npc.Instance{
		ID:         "w1",
		Name:       "Walker",
		Attributes: map[skill.Attribute]int{skill.Strength: 1, skill.Agility: 1},
		Skills:     map[skill.Skill]int{},
		Expertise:  map[skill.Skill]skill.Tier{},
		Health:     3,
		MaxHealth:  3,
	}
}

// script defaults to a constant 3, which never succeeds or messes up.
func script(faces []int) *dicetest.Faces {
	if len(faces) == 0 {
		faces = []int{3}
	}
	return dicetest.NewFaces(faces...)
}

func engine(src dice.Source) session.Env {
	checks := check.NewResolver(dice.NewLoggedRoller(src, zap.NewNop()))
	tables := table.Defaults()
	return session.Env{
		Checks: checks,
		Combat: combat.NewResolver(checks, nil),
		Swarm:  swarm.NewResolver(checks, tables),
		Tables: tables,
	}
}

// env returns an Env over scripted faces with snapshots of ada and the walker.
func env(faces ...int) session.Env {
	e := engine(script(faces))
	e.Actors = check.Actors{
		"ada": check.NewPlayerActor(ada()),
		"w1":  check.NewNPCActor(walker()),
	}
	return e
}

type rig struct {
	faces *dicetest.Faces
	store *roster.Memory
	rec   *events.Recorder
	mgr   *session.Manager
	id    string
}

func newRig(t *testing.T, faces ...int) *rig {
	t.Helper()
	r := &rig{
		faces: script(faces),
		store: roster.NewMemory(content.Empty()),
		rec:   &events.Recorder{},
	}
	r.store.AddCharacter(ada())
	r.store.AddNPC(walker())
	r.mgr = session.NewManager(engine(r.faces), r.store, r.rec, zap.NewNop())
	r.id = r.mgr.Open(false)
	require.NotEmpty(t, r.id)
	return r
}

func kinds(msgs []events.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Kind
	}
	return out
}

func brawl() session.StartBrawl {
	return session.StartBrawl{Entrants: []session.Entrant{
		{ID: "ada", Range: combat.RangeMedium},
		{ID: "w1", Range: combat.RangeMedium},
	}}
}

func shoot() session.PlanAction {
	return session.PlanAction{ActorID: "ada", Action: combat.PlannedAction{Type: combat.ActionRangedAttack, TargetID: "w1"}}
}
