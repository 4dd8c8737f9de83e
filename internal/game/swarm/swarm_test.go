package swarm_test

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
	"github.com/cory-johannsen/survivors/internal/game/effect"
	"github.com/cory-johannsen/survivors/internal/game/skill"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
	"github.com/cory-johannsen/survivors/internal/game/table"
)

// survivor has every attribute at 1, so a skill's base pool is 1 + rank.
func survivor(id string, ranks map[skill.Skill]int, stress int) *character.Character {
	if ranks == nil {
		ranks = map[skill.Skill]int{}
	}
	return &character.Character{
		ID:   id,
		Name: id,
		Attributes: map[skill.Attribute]int{
			skill.Strength: 1, skill.Agility: 1, skill.Wits: 1, skill.Empathy: 1,
		},
		Skills:    ranks,
		Stress:    stress,
		Health:    5,
		MaxHealth: 5,
	}
}

func group(chars ...*character.Character) check.Actors {
	out := check.Actors{}
	for _, c := range chars {
		out[c.ID] = check.NewPlayerActor(c)
	}
	return out
}

func resolver(src dice.Source) *swarm.Resolver {
	return swarm.NewResolver(check.NewResolver(dice.NewLoggedRoller(src, zap.NewNop())), table.Defaults())
}

var (
	ada = survivor("ada", map[skill.Skill]int{skill.Survival: 3}, 0)
	bob = survivor("bob", nil, 0)
)

func both() []swarm.Participant {
	return []swarm.Participant{
		{ActorID: "ada", Skill: skill.Survival},
		{ActorID: "bob", Skill: skill.Survival},
	}
}

// TestResolveRound_ShortfallLeavesConsequencePending covers threat 2, size 3 and four
// pooled successes.
func TestResolveRound_ShortfallLeavesConsequencePending(t *testing.T) {
	r := resolver(dicetest.NewFaces(6, 6, 6, 6, 2))
	st := swarm.New(2, 3)

	next, res, err := r.ResolveRound(st, both(), group(ada, bob))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 5, res.Needed)
	assert.False(t, res.Won)
	assert.True(t, next.PendingConsequence)
	assert.True(t, next.Active)
	assert.False(t, st.PendingConsequence, "input state must not change")

	assert.Equal(t, []string{"ada", "bob"}, next.Participants)

	_, _, err = r.ResolveRound(next, both(), group(ada, bob))
	assert.ErrorIs(t, err, swarm.ErrConsequencePending)
}

func TestResolveRound_WinRemovesSmallSwarm(t *testing.T) {
	r := resolver(dicetest.NewFaces(6, 6, 6, 6, 2))
	next, res, err := r.ResolveRound(swarm.New(1, 3), both(), group(ada, bob))
	require.NoError(t, err)
	assert.True(t, res.Won)
	assert.True(t, res.SwarmRemoved)
	assert.False(t, next.Active)

	_, _, err = r.ResolveRound(next, both(), group(ada, bob))
	assert.ErrorIs(t, err, swarm.ErrNoSwarm)
}

func TestResolveRound_WinThinsLargeSwarm(t *testing.T) {
	r := resolver(dicetest.NewFaces(6, 6, 6, 6, 6))
	next, res, err := r.ResolveRound(swarm.New(1, 4), both(), group(ada, bob))
	require.NoError(t, err)
	assert.True(t, res.Won)
	assert.False(t, res.SwarmRemoved)
	assert.True(t, next.Active)
	assert.Equal(t, 3, next.SwarmSize)
	assert.Equal(t, 1, next.ThreatLevel)
	assert.Equal(t, 2, next.Round)
}

func TestResolveRound_MessedUpTriggersWalkerAttackEvenOnWin(t *testing.T) {
	stressed := survivor("ada", map[skill.Skill]int{skill.Survival: 3}, 1)
	// ada base 6 6 6 6, stress 1; bob 6; walker attack d6 5.
	r := resolver(dicetest.NewFaces(6, 6, 6, 6, 1, 6, 5))
	_, res, err := r.ResolveRound(swarm.New(1, 2), both(), group(stressed, bob))
	require.NoError(t, err)
	assert.True(t, res.Won)
	require.Len(t, res.WalkerAttacks, 1)
	wa := res.WalkerAttacks[0]
	assert.Equal(t, "ada", wa.TargetID)
	assert.Equal(t, 2, wa.Damage)
	assert.Equal(t, 3, wa.Health)
	assert.Equal(t, []effect.Delta{effect.Health("ada", 3)}, res.Deltas)
}

func TestResolveRound_FullBlockAddsOneForEscapes(t *testing.T) {
	st := swarm.New(1, 2)
	st.FullBlock = true
	ps := []swarm.Participant{{ActorID: "bob", Skill: skill.Mobility}}

	next, res, err := resolver(dicetest.NewFaces(2)).ResolveRound(st, ps, group(bob))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Needed)
	assert.False(t, next.FullBlock)

	ps[0].Skill = skill.Survival
	next, res, err = resolver(dicetest.NewFaces(2)).ResolveRound(st, ps, group(bob))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Needed)
	assert.False(t, next.FullBlock)
}

func TestResolveRound_DownedParticipantsDoNotRoll(t *testing.T) {
	down := survivor("bob", nil, 0)
	down.Health = 0
	_, _, err := resolver(dicetest.NewFaces(2)).ResolveRound(swarm.New(1, 1), []swarm.Participant{{ActorID: "bob", Skill: skill.Stealth}}, group(down))
	assert.ErrorIs(t, err, swarm.ErrNoParticipants)
}

func pending(threat, size int) swarm.State {
	st := swarm.New(threat, size)
	st.PendingConsequence = true
	return st
}

func TestApplyConsequence_RaiseAndGrowCapAtSix(t *testing.T) {
	r := resolver(dicetest.NewFaces(1))
	next, _, err := r.ApplyConsequence(pending(6, 2), swarm.RaiseThreat, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, next.ThreatLevel)
	assert.False(t, next.PendingConsequence)

	next, _, err = r.ApplyConsequence(pending(2, 5), swarm.GrowSwarm, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, next.SwarmSize)

	_, _, err = r.ApplyConsequence(next, swarm.GrowSwarm, nil, nil)
	assert.ErrorIs(t, err, swarm.ErrNoConsequencePending)
}

func TestApplyConsequence_MassAttackHitsEveryLiveTarget(t *testing.T) {
	down := survivor("cat", nil, 0)
	down.Health = 0
	// swarm table 6 (mass), walker table 3 on ada, 1 on bob.
	r := resolver(dicetest.NewFaces(6, 3, 1))
	next, res, err := r.ApplyConsequence(pending(2, 4), swarm.SwarmAttack, []string{"ada", "bob", "cat"}, group(ada, bob, down))
	require.NoError(t, err)
	require.NotNil(t, res.Table)
	assert.Equal(t, table.OutcomeMassAttack, res.Table.Entry.Outcome)
	require.Len(t, res.WalkerAttacks, 2)
	assert.Equal(t, []effect.Delta{effect.Health("ada", 4), effect.Stress("bob", 1)}, res.Deltas)
	assert.False(t, next.PendingConsequence)
}

func TestApplyConsequence_SingleAttackPicksOneTarget(t *testing.T) {
	// swarm table 2 (single), target index 1 (bob), walker table 6.
	r := resolver(dicetest.NewFaces(2, 2, 6))
	_, res, err := r.ApplyConsequence(pending(2, 4), swarm.SwarmAttack, []string{"ada", "bob"}, group(ada, bob))
	require.NoError(t, err)
	require.Len(t, res.WalkerAttacks, 1)
	assert.Equal(t, "bob", res.WalkerAttacks[0].TargetID)
	assert.Equal(t, []effect.Delta{effect.Health("bob", 2), effect.Stress("bob", 1)}, res.Deltas)
}

func TestApplyConsequence_SwarmAttackDefaultsToLastRound(t *testing.T) {
	// Round: ada 2 2 2 2, bob 2, no successes against 3. Swarm table 6 (mass),
	// walker table 3 on ada, 1 on bob.
	r := resolver(dicetest.NewFaces(2, 2, 2, 2, 2, 6, 3, 1))
	st, _, err := r.ResolveRound(swarm.New(1, 2), both(), group(ada, bob))
	require.NoError(t, err)
	require.True(t, st.PendingConsequence)

	next, res, err := r.ApplyConsequence(st, swarm.SwarmAttack, nil, group(ada, bob))
	require.NoError(t, err)
	require.Len(t, res.WalkerAttacks, 2)
	assert.Equal(t, "ada", res.WalkerAttacks[0].TargetID)
	assert.Equal(t, "bob", res.WalkerAttacks[1].TargetID)
	assert.NotContains(t, res.Lines, "Nobody is left standing for the walkers to reach.")
	assert.False(t, next.PendingConsequence)
}

func TestApplyConsequence_FullBlock(t *testing.T) {
	r := resolver(dicetest.NewFaces(4))
	next, res, err := r.ApplyConsequence(pending(2, 4), swarm.SwarmAttack, []string{"ada"}, group(ada))
	require.NoError(t, err)
	assert.True(t, next.FullBlock)
	assert.Empty(t, res.WalkerAttacks)
}

func TestParseConsequence(t *testing.T) {
	for _, c := range []swarm.Consequence{swarm.RaiseThreat, swarm.GrowSwarm, swarm.SwarmAttack} {
		got, err := swarm.ParseConsequence(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := swarm.ParseConsequence("flee")
	assert.ErrorIs(t, err, swarm.ErrUnknownConsequence)
}

func TestResolveRound_OutcomeProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		st := swarm.New(rapid.IntRange(0, 6).Draw(rt, "threat"), rapid.IntRange(1, 6).Draw(rt, "size"))
		r := resolver(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")))
		next, res, err := r.ResolveRound(st, both(), group(ada, bob))
		require.NoError(rt, err)
		sum := 0
		for _, pr := range res.Rolls {
			sum += pr.Roll.Successes
		}
		assert.Equal(rt, sum, res.Total)
		assert.Equal(rt, res.Total >= res.Needed, res.Won)
		assert.Equal(rt, !res.Won, next.PendingConsequence)
		if res.Won {
			assert.Equal(rt, st.SwarmSize > swarm.BreakSize, next.Active)
		}
	})
}
