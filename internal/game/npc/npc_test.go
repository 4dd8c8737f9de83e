package npc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

const raiderYAML = `id: raider
name: Raider
attributes:
  strength: 3
  agility: 3
skills:
  close_combat: 2
  mobility: 1
expertise:
  close_combat: expert
gear: [machete]
max_health: 3
`

func items(t *testing.T) *inventory.Registry {
	t.Helper()
	reg := inventory.NewRegistry()
	require.NoError(t, reg.Register(&inventory.ItemDef{ID: "machete", Name: "Machete", Kind: inventory.KindWeapon, Skill: "close_combat", Bonus: 1, Damage: 2}))
	return reg
}

func TestLoadTemplateFromBytes(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(raiderYAML))
	require.NoError(t, err)
	assert.Equal(t, "raider", tmpl.ID)
	assert.Equal(t, 3, tmpl.MaxHealth)
}

func TestTemplate_Validate(t *testing.T) {
	cases := []npc.Template{
		{Name: "x", MaxHealth: 1},
		{ID: "x", MaxHealth: 1},
		{ID: "x", Name: "X"},
		{ID: "x", Name: "X", MaxHealth: 1, Skills: map[string]int{"flying": 1}},
		{ID: "x", Name: "X", MaxHealth: 1, Expertise: map[string]string{"mobility": "grandmaster"}},
	}
	for i := range cases {
		assert.Error(t, cases[i].Validate(), "case %d", i)
	}
}

func TestNewInstance(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(raiderYAML))
	require.NoError(t, err)
	inst, err := npc.NewInstance("raider-1", tmpl, items(t))
	require.NoError(t, err)

	assert.Equal(t, 3, inst.Health)
	assert.Equal(t, 3, inst.AttributeValue(skill.CloseCombat))
	assert.Equal(t, 2, inst.SkillRank(skill.CloseCombat))
	assert.Equal(t, 1, inst.GearBonus(skill.CloseCombat))
	assert.Equal(t, skill.TierExpert, inst.Tier(skill.CloseCombat))
	assert.Equal(t, skill.TierNone, inst.Tier(skill.Mobility))
	assert.Equal(t, 2, inst.Gear.WeaponDamage())
}

func TestNewInstance_UnknownGear(t *testing.T) {
	tmpl := &npc.Template{ID: "x", Name: "X", MaxHealth: 1, Gear: []string{"railgun"}}
	_, err := npc.NewInstance("x-1", tmpl, inventory.NewRegistry())
	assert.Error(t, err)
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raider.yaml"), []byte(raiderYAML), 0644))
	tmpls, err := npc.LoadTemplates(dir)
	require.NoError(t, err)
	assert.Len(t, tmpls, 1)
}
