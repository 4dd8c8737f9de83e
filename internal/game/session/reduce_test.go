package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/effect"
	"github.com/cory-johannsen/survivors/internal/game/session"
	"github.com/cory-johannsen/survivors/internal/game/skill"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
	"github.com/cory-johannsen/survivors/internal/game/table"
)

func TestReduce_RollThenPushAddsStressToPlayer(t *testing.T) {
	e := env(3, 6, 4)
	st := session.NewState("s1", false)

	st, msgs, deltas := session.Reduce(e, st, session.RollSkill{ActorID: "ada", Skill: skill.Mobility})
	require.Len(t, msgs, 1)
	assert.Equal(t, session.KindRoll, msgs[0].Kind)
	require.NotNil(t, msgs[0].Roll)
	assert.Equal(t, []int{3}, msgs[0].Roll.BaseDice)
	assert.Empty(t, deltas)

	st, msgs, deltas = session.Reduce(e, st, session.PushRoll{ActorID: "ada"})
	require.Len(t, msgs, 1)
	assert.Equal(t, session.KindPush, msgs[0].Kind)
	assert.True(t, msgs[0].Roll.Pushed)
	assert.Equal(t, []int{6}, msgs[0].Roll.BaseDice)
	assert.Equal(t, []int{4}, msgs[0].Roll.StressDice)
	assert.Contains(t, msgs[0].Text, "Stress +1")
	assert.Equal(t, []effect.Delta{effect.Stress("ada", 1)}, deltas)
	assert.True(t, st.LastRoll["ada"].Pushed)

	again, msgs, deltas := session.Reduce(e, st, session.PushRoll{ActorID: "ada"})
	require.Len(t, msgs, 1)
	assert.Equal(t, session.KindRejected, msgs[0].Kind)
	assert.Empty(t, deltas)
	assert.Equal(t, st, again)
}

func TestReduce_NPCPushAddsNoStress(t *testing.T) {
	e := env(3, 2, 2)
	st := session.NewState("s1", false)
	st, _, _ = session.Reduce(e, st, session.RollSkill{ActorID: "w1", Skill: skill.Force})
	_, msgs, deltas := session.Reduce(e, st, session.PushRoll{ActorID: "w1"})
	assert.Equal(t, session.KindPush, msgs[0].Kind)
	assert.Empty(t, deltas)
}

func TestReduce_PushWithoutRollIsRejected(t *testing.T) {
	st := session.NewState("s1", false)
	next, msgs, deltas := session.Reduce(env(), st, session.PushRoll{ActorID: "ada"})
	require.Len(t, msgs, 1)
	assert.Equal(t, session.KindRejected, msgs[0].Kind)
	assert.Contains(t, msgs[0].Text, "no roll to push")
	assert.Equal(t, "s1", msgs[0].SessionID)
	assert.Nil(t, deltas)
	assert.Equal(t, st, next)
}

func TestReduce_RollUnknownActorIsRejected(t *testing.T) {
	_, msgs, _ := session.Reduce(env(), session.NewState("s1", false), session.RollSkill{ActorID: "ghost", Skill: skill.Scout})
	require.Len(t, msgs, 1)
	assert.Equal(t, session.KindRejected, msgs[0].Kind)
	assert.Contains(t, msgs[0].Text, "ghost")
}

func TestReduce_RollTable(t *testing.T) {
	e := env(5)
	_, msgs, deltas := session.Reduce(e, session.NewState("s1", false), session.RollTable{TableID: table.WalkerAttack})
	require.Len(t, msgs, 1)
	assert.Equal(t, session.KindTable, msgs[0].Kind)
	assert.Contains(t, msgs[0].Text, "walker_attack rolled 5")
	assert.Empty(t, deltas, "a table roll narrates only")

	_, msgs, _ = session.Reduce(e, session.NewState("s1", false), session.RollTable{TableID: "nope"})
	assert.Equal(t, session.KindRejected, msgs[0].Kind)
}

func TestReduce_BrawlShootsWalkerDown(t *testing.T) {
	// Attacker rolls two sixes, the walker's single Mobility die shows 2:
	// margin 2, damage 2+2-1 = 3 takes the walker from 3 to 0.
	e := env(6, 6, 2)
	st := session.NewState("s1", false)

	st, msgs, _ := session.Reduce(e, st, brawl())
	require.NotNil(t, st.Brawl)
	assert.Equal(t, []string{session.KindBrawl}, kinds(msgs))
	assert.Equal(t, combat.PhaseKey{Round: 1, Phase: combat.PhaseCover}, st.Brawl.Key())

	st, msgs, _ = session.Reduce(e, st, shoot())
	assert.Equal(t, []string{session.KindPlan}, kinds(msgs))
	assert.Equal(t, "w1", msgs[0].TargetID)

	st, msgs, deltas := session.Reduce(e, st, session.ResolvePhase{})
	assert.Equal(t, []string{string(combat.EventPhase)}, kinds(msgs))
	assert.Empty(t, deltas)
	assert.Equal(t, combat.PhaseRanged, st.Brawl.PhaseIndex)

	st, msgs, deltas = session.Reduce(e, st, session.ResolvePhase{Key: st.Brawl.Key()})
	assert.Equal(t, []string{string(combat.EventPhase), string(combat.EventAttack), session.KindBrawl}, kinds(msgs))
	require.NotNil(t, msgs[1].Roll)
	assert.Equal(t, 2, msgs[1].Roll.Successes)
	assert.Contains(t, deltas, effect.Health("w1", 0))
	assert.True(t, st.Brawl.Combatant("w1").IsDown())
	assert.Contains(t, msgs[2].Text, "over")
}

func TestReduce_ResolveRejectsWrongKey(t *testing.T) {
	e := env()
	st, _, _ := session.Reduce(e, session.NewState("s1", false), brawl())
	next, msgs, _ := session.Reduce(e, st, session.ResolvePhase{Key: combat.PhaseKey{Round: 2, Phase: combat.PhaseClose}})
	assert.Equal(t, session.KindRejected, msgs[0].Kind)
	assert.Equal(t, combat.PhaseCover, next.Brawl.PhaseIndex)
}

func TestReduce_BrawlPreconditions(t *testing.T) {
	e := env()
	idle := session.NewState("s1", false)
	for name, act := range map[string]session.Action{
		"plan":    shoot(),
		"resolve": session.ResolvePhase{},
		"end":     session.EndBrawl{},
		"empty":   session.StartBrawl{},
		"twice":   session.StartBrawl{Entrants: []session.Entrant{{ID: "ada"}, {ID: "ada"}}},
		"missing": session.StartBrawl{Entrants: []session.Entrant{{ID: "ghost"}}},
	} {
		t.Run(name, func(t *testing.T) {
			next, msgs, _ := session.Reduce(e, idle, act)
			require.Len(t, msgs, 1)
			assert.Equal(t, session.KindRejected, msgs[0].Kind)
			assert.Nil(t, next.Brawl)
		})
	}

	st, _, _ := session.Reduce(e, idle, brawl())
	_, msgs, _ := session.Reduce(e, st, brawl())
	assert.Equal(t, session.KindRejected, msgs[0].Kind)
	assert.Contains(t, msgs[0].Text, session.ErrBrawlActive.Error())
}

func TestReduce_PlanAfterActingIsRejected(t *testing.T) {
	e := env()
	st, _, _ := session.Reduce(e, session.NewState("s1", false), brawl())
	st, _, _ = session.Reduce(e, st, session.PlanAction{ActorID: "ada", Action: combat.PlannedAction{Type: combat.ActionOverwatch}})
	st, _, _ = session.Reduce(e, st, session.ResolvePhase{})
	st, _, _ = session.Reduce(e, st, session.ResolvePhase{})
	require.True(t, st.Brawl.Combatant("ada").IsOnOverwatch)

	next, msgs, _ := session.Reduce(e, st, session.PlanAction{ActorID: "ada", Action: combat.PlannedAction{Type: combat.ActionMove, Range: combat.RangeShort}})
	require.Len(t, msgs, 1)
	assert.Equal(t, session.KindRejected, msgs[0].Kind)
	assert.Contains(t, msgs[0].Text, combat.ErrAlreadyActed.Error())
	assert.Equal(t, combat.ActionOverwatch, next.Brawl.Combatant("ada").PlannedAction.Type)
}

func TestReduce_EndBrawlLeavesCover(t *testing.T) {
	e := env()
	st, _, _ := session.Reduce(e, session.NewState("s1", false), brawl())
	st.Brawl.Combatant("ada").IsTakingCover = true

	next, msgs, deltas := session.Reduce(e, st, session.EndBrawl{})
	assert.Nil(t, next.Brawl)
	assert.Equal(t, []string{session.KindBrawl}, kinds(msgs))
	assert.Equal(t, []effect.Delta{effect.Cover("ada", false)}, deltas)
	assert.NotNil(t, st.Brawl, "input state must not change")
}

func TestReduce_SwarmLossThenConsequence(t *testing.T) {
	// Ada's Survival pool is one die: a 6 is one success against threat 1 + size 2.
	e := env(6)
	st, msgs, _ := session.Reduce(e, session.NewState("s1", false), session.StartSwarm{Threat: 1, Size: 2})
	assert.Equal(t, []string{session.KindSwarm}, kinds(msgs))
	require.True(t, st.Swarm.Active)

	st, msgs, _ = session.Reduce(e, st, session.ResolveSwarmRound{Participants: []swarm.Participant{{ActorID: "ada", Skill: skill.Survival}}})
	require.NotEmpty(t, msgs)
	assert.NotEqual(t, session.KindRejected, msgs[0].Kind)
	assert.True(t, st.Swarm.PendingConsequence)
	assert.Equal(t, 2, st.Swarm.Round)

	_, msgs, _ = session.Reduce(e, st, session.ResolveSwarmRound{Participants: []swarm.Participant{{ActorID: "ada", Skill: skill.Survival}}})
	assert.Equal(t, session.KindRejected, msgs[0].Kind)

	st, msgs, _ = session.Reduce(e, st, session.ApplyConsequence{Kind: swarm.RaiseThreat})
	assert.Equal(t, []string{session.KindConsequence}, kinds(msgs))
	assert.Equal(t, 2, st.Swarm.ThreatLevel)
	assert.False(t, st.Swarm.PendingConsequence)

	_, msgs, _ = session.Reduce(e, st, session.StartSwarm{Threat: 1, Size: 1})
	assert.Equal(t, session.KindRejected, msgs[0].Kind)

	st, _, _ = session.Reduce(e, st, session.EndSwarm{})
	assert.False(t, st.Swarm.Active)
}

func TestReduce_SwarmAttackFallsOnLastRound(t *testing.T) {
	// Ada's single Survival die shows 2; swarm table 6 is a mass attack and
	// walker table 6 deals 3 damage and 1 stress.
	e := env(2, 6, 6)
	st, _, _ := session.Reduce(e, session.NewState("s1", false), session.StartSwarm{Threat: 1, Size: 2})
	st, _, _ = session.Reduce(e, st, session.ResolveSwarmRound{Participants: []swarm.Participant{{ActorID: "ada", Skill: skill.Survival}}})
	require.True(t, st.Swarm.PendingConsequence)

	act := session.ApplyConsequence{Kind: swarm.SwarmAttack}
	assert.Equal(t, []string{"ada"}, act.Involves(st))
	_, msgs, deltas := session.Reduce(e, st, act)
	assert.Equal(t, []effect.Delta{effect.Health("ada", 2), effect.Stress("ada", 1)}, deltas)
	for _, m := range msgs {
		assert.NotContains(t, m.Text, "Nobody is left standing")
	}
}

func TestReduce_WalkerStrike(t *testing.T) {
	// Face 6 on walker_attack: 3 damage and 1 stress.
	_, msgs, deltas := session.Reduce(env(6), session.NewState("s1", false), session.WalkerStrike{TargetID: "ada"})
	require.Len(t, msgs, 1)
	assert.Equal(t, session.KindWalker, msgs[0].Kind)
	assert.Equal(t, "ada", msgs[0].TargetID)
	assert.Equal(t, []effect.Delta{effect.Health("ada", 2), effect.Stress("ada", 1)}, deltas)
}

func TestState_Summary(t *testing.T) {
	e := env()
	st := session.NewState("s1", false)
	assert.Contains(t, st.Summary(), "No brawl under way.")

	st, _, _ = session.Reduce(e, st, brawl())
	st, _, _ = session.Reduce(e, st, shoot())
	lines := st.Summary()
	assert.Contains(t, lines, "Brawl round 1, Taking Cover phase.")
	assert.Contains(t, lines, "  Ada [ada] health 5/5, medium range (plans shoot)")
}
