package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/session"
	"github.com/cory-johannsen/survivors/internal/game/skill"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
)

var (
	// ErrUsage is returned when a command's arguments do not parse.
	ErrUsage = errors.New("usage")
	// ErrNotAction is returned by ToAction for console-only commands.
	ErrNotAction = errors.New("not a session action")
)

func usage(cmd *Command, detail string) error {
	if detail != "" {
		return fmt.Errorf("%w: %s (%s)", ErrUsage, cmd.Usage, detail)
	}
	return fmt.Errorf("%w: %s", ErrUsage, cmd.Usage)
}

// ToAction translates a parsed line for cmd into a session action.
//
// Precondition: cmd must be non-nil.
// Postcondition: Returns ErrNotAction for console-only commands and ErrUsage
// (wrapped, carrying the synopsis) when the arguments do not parse.
func ToAction(cmd *Command, pr ParseResult) (session.Action, error) {
	switch cmd.Handler {
	case HandlerRoll:
		return rollAction(cmd, pr.Args)
	case HandlerPush:
		if len(pr.Args) != 1 {
			return nil, usage(cmd, "")
		}
		return session.PushRoll{ActorID: pr.Args[0]}, nil
	case HandlerTable:
		if len(pr.Args) != 1 {
			return nil, usage(cmd, "")
		}
		return session.RollTable{TableID: pr.Args[0]}, nil
	case HandlerBrawl:
		return brawlAction(cmd, pr.Args)
	case HandlerPlan:
		return planAction(cmd, pr)
	case HandlerResolve:
		return resolveAction(cmd, pr.Args)
	case HandlerSwarm:
		return swarmAction(cmd, pr.Args)
	case HandlerConsequence:
		if len(pr.Args) == 0 {
			return nil, usage(cmd, "")
		}
		kind, err := swarm.ParseConsequence(pr.Args[0])
		if err != nil {
			return nil, usage(cmd, err.Error())
		}
		return session.ApplyConsequence{Kind: kind, Targets: pr.Args[1:]}, nil
	case HandlerWalker:
		if len(pr.Args) != 1 {
			return nil, usage(cmd, "")
		}
		return session.WalkerStrike{TargetID: pr.Args[0]}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotAction, cmd.Name)
	}
}

// parseSkill normalizes s. Unknown names pass through so the check degrades to a
// one-die pool instead of failing.
func parseSkill(s string) skill.Skill {
	if sk, ok := skill.Parse(s); ok {
		return sk
	}
	return skill.Skill(strings.ToLower(s))
}

func rollAction(cmd *Command, args []string) (session.Action, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, usage(cmd, "")
	}
	act := session.RollSkill{ActorID: args[0], Skill: parseSkill(args[1])}
	if len(args) == 3 {
		help, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, usage(cmd, fmt.Sprintf("help %q is not a number", args[2]))
		}
		act.Help = help
	}
	return act, nil
}

func brawlAction(cmd *Command, args []string) (session.Action, error) {
	if len(args) == 0 {
		return nil, usage(cmd, "")
	}
	if len(args) == 1 && strings.EqualFold(args[0], "end") {
		return session.EndBrawl{}, nil
	}
	act := session.StartBrawl{}
	for _, a := range args {
		id, rng, found := strings.Cut(a, "@")
		e := session.Entrant{ID: id, Range: combat.RangeMedium}
		if found {
			r, err := combat.ParseRange(rng)
			if err != nil {
				return nil, usage(cmd, err.Error())
			}
			e.Range = r
		}
		if e.ID == "" {
			return nil, usage(cmd, fmt.Sprintf("empty id in %q", a))
		}
		act.Entrants = append(act.Entrants, e)
	}
	return act, nil
}

func planAction(cmd *Command, pr ParseResult) (session.Action, error) {
	args := pr.Args
	if len(args) < 2 {
		return nil, usage(cmd, "")
	}
	typ, err := combat.ParseActionType(args[1])
	if err != nil {
		return nil, usage(cmd, err.Error())
	}
	planned := combat.PlannedAction{Type: typ}
	switch {
	case typ.NeedsTarget():
		if len(args) != 3 {
			return nil, usage(cmd, typ.String()+" needs a target")
		}
		planned.TargetID = args[2]
	case typ == combat.ActionMove:
		if len(args) != 3 {
			return nil, usage(cmd, "move needs a range")
		}
		r, err := combat.ParseRange(args[2])
		if err != nil {
			return nil, usage(cmd, err.Error())
		}
		planned.Range = r
	case typ == combat.ActionOther:
		planned.Text = After(pr.RawArgs, 2)
	}
	return session.PlanAction{ActorID: args[0], Action: planned}, nil
}

func resolveAction(cmd *Command, args []string) (session.Action, error) {
	switch len(args) {
	case 0:
		return session.ResolvePhase{}, nil
	case 2:
		round, err := strconv.Atoi(args[0])
		if err != nil || round < 1 {
			return nil, usage(cmd, fmt.Sprintf("round %q", args[0]))
		}
		ph, err := strconv.Atoi(args[1])
		if err != nil || !combat.Phase(ph).Valid() {
			return nil, usage(cmd, fmt.Sprintf("phase %q is not 0-%d", args[1], combat.NumPhases-1))
		}
		return session.ResolvePhase{Key: combat.PhaseKey{Round: round, Phase: combat.Phase(ph)}}, nil
	default:
		return nil, usage(cmd, "")
	}
}

func swarmAction(cmd *Command, args []string) (session.Action, error) {
	if len(args) == 0 {
		return nil, usage(cmd, "")
	}
	switch strings.ToLower(args[0]) {
	case "end":
		return session.EndSwarm{}, nil
	case "roll":
		if len(args) < 2 {
			return nil, usage(cmd, "roll needs participants")
		}
		act := session.ResolveSwarmRound{}
		for _, a := range args[1:] {
			p, err := participant(a)
			if err != nil {
				return nil, usage(cmd, err.Error())
			}
			act.Participants = append(act.Participants, p)
		}
		return act, nil
	}
	if len(args) != 2 {
		return nil, usage(cmd, "")
	}
	threat, err1 := strconv.Atoi(args[0])
	size, err2 := strconv.Atoi(args[1])
	if err := errors.Join(err1, err2); err != nil {
		return nil, usage(cmd, "threat and size must be numbers")
	}
	return session.StartSwarm{Threat: threat, Size: size}, nil
}

// participant parses "actor:skill[:help]".
func participant(s string) (swarm.Participant, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return swarm.Participant{}, fmt.Errorf("participant %q is not actor:skill[:help]", s)
	}
	p := swarm.Participant{ActorID: parts[0], Skill: parseSkill(parts[1])}
	if len(parts) == 3 {
		help, err := strconv.Atoi(parts[2])
		if err != nil {
			return swarm.Participant{}, fmt.Errorf("participant %q: help is not a number", s)
		}
		p.Help = help
	}
	return p, nil
}
