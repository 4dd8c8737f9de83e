package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/dice/dicetest"
	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

func newResolver(faces ...int) *check.Resolver {
	return check.NewResolver(dice.NewLoggedRoller(dicetest.NewFaces(faces...), zap.NewNop()))
}

func climber() *character.Character {
	def := &inventory.ItemDef{ID: "climbing_gear", Name: "Climbing Gear", Kind: inventory.KindGear, Skill: "mobility", Bonus: 1}
	gear := inventory.NewItem(def)
	gear.Equipped = true
	return &character.Character{
		ID:         "ada",
		Name:       "Ada",
		Attributes: map[skill.Attribute]int{skill.Agility: 2},
		Skills:     map[skill.Skill]int{skill.Mobility: 1},
		Gear:       inventory.Gear{gear},
		Health:     3,
		MaxHealth:  3,
	}
}

// TestCalculateDicePool_HurtNeverDropsBelowOne covers attribute 2, rank 1, gear +1 with
// five hurt dice.
func TestCalculateDicePool_HurtNeverDropsBelowOne(t *testing.T) {
	p := check.CalculateDicePool(climber(), skill.Mobility, -5)
	assert.Equal(t, 1, p.Base)
	assert.Equal(t, 0, p.Stress)
}

func TestCalculateDicePool_HelpCappedAtThree(t *testing.T) {
	p := check.CalculateDicePool(climber(), skill.Mobility, 10)
	assert.Equal(t, 7, p.Base)
}

func TestCalculateDicePool_TalentAndStress(t *testing.T) {
	c := climber()
	c.Stress = 2
	c.Talents = []character.Talent{
		{ID: "parkour", Skill: skill.Mobility, Bonus: 2, Active: true},
		{ID: "dormant", Skill: skill.Mobility, Bonus: 5, Active: false},
	}
	p := check.CalculateDicePool(c, skill.Mobility, 0)
	assert.Equal(t, 6, p.Base)
	assert.Equal(t, 2, p.Stress)
}

func TestCalculateDicePool_UnknownSkillRollsOneDie(t *testing.T) {
	p := check.CalculateDicePool(climber(), skill.Skill("juggling"), 0)
	assert.Equal(t, 1, p.Base)
}

func TestCalculateDicePool_BaseFloorProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := &character.Character{
			Attributes: map[skill.Attribute]int{skill.Wits: rapid.IntRange(0, 6).Draw(rt, "attr")},
			Skills:     map[skill.Skill]int{skill.Scout: rapid.IntRange(0, 5).Draw(rt, "rank")},
			Stress:     rapid.IntRange(0, 10).Draw(rt, "stress"),
		}
		help := rapid.IntRange(-20, 20).Draw(rt, "help")
		p := check.CalculateDicePool(c, skill.Scout, help)
		raw := check.RawBase(c, skill.Scout)
		assert.GreaterOrEqual(rt, p.Base, 1)
		assert.LessOrEqual(rt, p.Base, max(1, raw+check.MaxHelp))
		assert.Equal(rt, c.Stress, p.Stress)
	})
}

func TestClampHelp(t *testing.T) {
	assert.Equal(t, 3, check.ClampHelp(4, 5))
	assert.Equal(t, -3, check.ClampHelp(4, -5))
	assert.Equal(t, 2, check.ClampHelp(4, 2))
}

func TestRollSkillCheck_AppliesHelp(t *testing.T) {
	r := newResolver(6, 6, 6, 6, 6, 6, 6)
	res := r.RollSkillCheck(4, 0, skill.Force, false, -5)
	assert.Equal(t, 1, res.BaseDicePool)
	assert.Len(t, res.BaseDice, 1)
}

func TestRollSkillCheck_PrebakedPool(t *testing.T) {
	r := newResolver(2, 3, 1)
	res := r.RollSkillCheck(2, 1, skill.Stealth, false, 0)
	assert.Equal(t, []int{2, 3}, res.BaseDice)
	assert.Equal(t, []int{1}, res.StressDice)
	assert.True(t, res.MessedUp)
	assert.Equal(t, "stealth", res.Skill)
}

// TestPush_AddsOneStressDie covers a failed base 3 / stress 0 roll being pushed.
func TestPush_AddsOneStressDie(t *testing.T) {
	r := newResolver(2, 3, 4, 6, 5, 5, 2)
	first := r.RollSkillCheck(3, 0, skill.Force, false, 0)
	require.Equal(t, 0, first.Successes)

	pushed, err := r.Push(first)
	require.NoError(t, err)
	assert.True(t, pushed.Pushed)
	assert.Equal(t, 3, pushed.BaseDicePool)
	assert.Equal(t, 1, pushed.StressDicePool)
	assert.Equal(t, []int{6, 5, 5}, pushed.BaseDice)
	assert.Equal(t, []int{2}, pushed.StressDice)
	assert.Equal(t, 1, pushed.Successes)
	assert.Equal(t, first.Skill, pushed.Skill)
}

func TestPush_Ineligible(t *testing.T) {
	r := newResolver(3)
	cases := []struct {
		name string
		prev dice.RollResult
		want error
	}{
		{"pushed", dice.NewRollResult("force", []int{2}, []int{3}, true), check.ErrPushAlreadyPushed},
		{"succeeded", dice.NewRollResult("force", []int{6}, nil, false), check.ErrPushSucceeded},
		{"messed up", dice.NewRollResult("force", []int{2}, []int{1}, false), check.ErrPushMessedUp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Push(tc.prev)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPush_ShapeProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.IntRange(1, 8).Draw(rt, "base")
		stress := rapid.IntRange(0, 5).Draw(rt, "stress")
		r := check.NewResolver(dice.NewLoggedRoller(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")), zap.NewNop()))
		prev := r.RollSkillCheck(base, stress, skill.Survival, false, 0)
		next, err := r.Push(prev)
		if check.CanPush(prev) != nil {
			assert.Error(rt, err)
			return
		}
		require.NoError(rt, err)
		assert.Equal(rt, prev.BaseDicePool, next.BaseDicePool)
		assert.Equal(rt, prev.StressDicePool+1, next.StressDicePool)
		assert.Len(rt, next.BaseDice, base)
		assert.Len(rt, next.StressDice, stress+1)
		assert.True(rt, next.Pushed)
	})
}

func TestActors_PlayerAndNPC(t *testing.T) {
	pc := check.NewPlayerActor(climber())
	assert.True(t, pc.IsPlayer())
	assert.Equal(t, skill.TierNone, pc.DefenseTier(skill.Mobility))
	assert.Equal(t, 4, pc.DicePool(skill.Mobility, 0).Base)
	assert.Equal(t, 1, pc.WeaponDamage())

	tmpl := &npc.Template{
		ID:         "raider",
		Name:       "Raider",
		Attributes: map[string]int{"strength": 3},
		Skills:     map[string]int{"close_combat": 2},
		Expertise:  map[string]string{"close_combat": "master"},
		MaxHealth:  3,
	}
	inst, err := npc.NewInstance("raider-1", tmpl, inventory.NewRegistry())
	require.NoError(t, err)
	a := check.NewNPCActor(inst)
	assert.False(t, a.IsPlayer())
	assert.Equal(t, "raider-1", a.ID())
	assert.Equal(t, skill.TierMaster, a.DefenseTier(skill.CloseCombat))
	assert.Equal(t, 5, a.DicePool(skill.CloseCombat, 0).Base)
	assert.Equal(t, 3, a.Health())
}
