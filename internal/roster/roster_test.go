package roster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/content"
	"github.com/cory-johannsen/survivors/internal/game/effect"
	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/roster"
)

func library(t *testing.T) *content.Library {
	t.Helper()
	lib := content.Empty()
	require.NoError(t, lib.Items.Register(&inventory.ItemDef{ID: "knife", Name: "Knife", Kind: inventory.KindWeapon, Damage: 1}))
	lib.Templates["walker"] = &npc.Template{ID: "walker", Name: "Walker", Gear: []string{"knife"}, MaxHealth: 2}
	return lib
}

func newMemory(t *testing.T) *roster.Memory {
	m := roster.NewMemory(library(t))
	knife, _ := library(t).Items.Item("knife")
	it := inventory.NewItem(knife)
	it.InstanceID = "knife-1"
	it.Equipped = true
	m.AddCharacter(&character.Character{ID: "ada", Name: "Ada", Gear: inventory.Gear{it}, Health: 3, MaxHealth: 3})
	return m
}

func TestMemory_SnapshotsAreCopies(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()
	c, err := m.Character(ctx, "ada")
	require.NoError(t, err)
	c.Health = 0
	again, err := m.Character(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Health)
}

func TestActor_FallsBackToNPC(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()
	_, err := m.SpawnNPC(ctx, "walker", "w1")
	require.NoError(t, err)

	a, err := roster.Actor(ctx, m, "ada")
	require.NoError(t, err)
	assert.True(t, a.IsPlayer())

	a, err = roster.Actor(ctx, m, "w1")
	require.NoError(t, err)
	assert.False(t, a.IsPlayer())

	_, err = roster.Actor(ctx, m, "ghost")
	assert.ErrorIs(t, err, roster.ErrNotFound)

	actors, err := roster.Actors(ctx, m, "ada", "ghost", "w1")
	require.NoError(t, err)
	assert.Len(t, actors, 2)
}

func TestApply_WritesEveryDelta(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()
	err := roster.Apply(ctx, m, []effect.Delta{
		effect.Health("ada", 7),
		effect.Stress("ada", 2),
		effect.Cover("ada", true),
		effect.Broken("ada", "knife-1"),
	})
	require.NoError(t, err)

	c, err := m.Character(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Health, "health is clamped to max")
	assert.Equal(t, 2, c.Stress)
	assert.True(t, m.InCover("ada"))
	assert.True(t, c.Gear[0].Broken)
	_, armed := c.Gear.Weapon()
	assert.False(t, armed)
}

func TestApply_JoinsFailures(t *testing.T) {
	m := newMemory(t)
	err := roster.Apply(context.Background(), m, []effect.Delta{
		effect.Health("ghost", 1),
		effect.Broken("ada", "nope"),
		effect.Health("ada", 1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, roster.ErrNotFound))
	c, _ := m.Character(context.Background(), "ada")
	assert.Equal(t, 1, c.Health, "later deltas still apply")
}

func TestNewMemoryFromLibrary(t *testing.T) {
	lib := library(t)
	lib.Sheets = []*character.SheetDef{{ID: "bo", Name: "Bo", MaxHealth: 2, Gear: []character.GearEntry{{Item: "knife", Equipped: true}}}}
	m, err := roster.NewMemoryFromLibrary(lib)
	require.NoError(t, err)
	assert.Equal(t, []string{"bo"}, m.CharacterIDs())
}
