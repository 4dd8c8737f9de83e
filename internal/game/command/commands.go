// Package command provides the console command registry, the line parser and the
// translation of parsed lines into session actions.
package command

// Categories for organizing commands.
const (
	CategoryDice   = "dice"
	CategoryBrawl  = "brawl"
	CategorySwarm  = "swarm"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to session actions or console handlers.
const (
	HandlerRoll        = "roll"
	HandlerPush        = "push"
	HandlerTable       = "table"
	HandlerSpawn       = "spawn"
	HandlerBrawl       = "brawl"
	HandlerPlan        = "plan"
	HandlerResolve     = "resolve"
	HandlerSwarm       = "swarm"
	HandlerConsequence = "consequence"
	HandlerWalker      = "walker"
	HandlerStatus      = "status"
	HandlerHelp        = "help"
	HandlerQuit        = "quit"
)

// Command defines a console command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text.
	Help string
	// Usage is the argument synopsis shown when arguments do not parse.
	Usage string
	// Category groups the command.
	Category string
	// Handler maps to the session action or console handler.
	Handler string
}

// BuiltinCommands returns every console command.
func BuiltinCommands() []Command {
	return []Command{
		// Dice
		{Name: "roll", Aliases: []string{"r"}, Help: "Roll a skill check", Usage: "roll <actor> <skill> [help]", Category: CategoryDice, Handler: HandlerRoll},
		{Name: "push", Aliases: []string{"pu"}, Help: "Push an actor's last roll with one more stress die", Usage: "push <actor>", Category: CategoryDice, Handler: HandlerPush},
		{Name: "table", Aliases: []string{"tb"}, Help: "Roll on a narrative table", Usage: "table <table_id>", Category: CategoryDice, Handler: HandlerTable},

		// Brawl
		{Name: "spawn", Aliases: nil, Help: "Bring an NPC in from a template", Usage: "spawn <template_id> <npc_id>", Category: CategoryBrawl, Handler: HandlerSpawn},
		{Name: "brawl", Aliases: []string{"b"}, Help: "Start a brawl (ids take an optional @range) or end it", Usage: "brawl <id[@short|medium|long]>... | brawl end", Category: CategoryBrawl, Handler: HandlerBrawl},
		{Name: "plan", Aliases: []string{"p"}, Help: "Declare a combatant's action for the round", Usage: "plan <actor> <cover|overwatch|shoot|strike|move|aid|lead|other> [target|range|text]", Category: CategoryBrawl, Handler: HandlerPlan},
		{Name: "resolve", Aliases: []string{"res"}, Help: "Resolve the current phase", Usage: "resolve [round phase]", Category: CategoryBrawl, Handler: HandlerResolve},

		// Swarm
		{Name: "swarm", Aliases: []string{"sw"}, Help: "Start a swarm, roll a round against it, or leave it behind", Usage: "swarm <threat> <size> | swarm roll <actor:skill[:help]>... | swarm end", Category: CategorySwarm, Handler: HandlerSwarm},
		{Name: "consequence", Aliases: []string{"cons"}, Help: "Pay for a lost swarm round", Usage: "consequence <threat|grow|attack> [targets...]", Category: CategorySwarm, Handler: HandlerConsequence},
		{Name: "walker", Aliases: []string{"bite"}, Help: "Roll a walker attack on an actor", Usage: "walker <actor>", Category: CategorySwarm, Handler: HandlerWalker},

		// System
		{Name: "status", Aliases: []string{"st"}, Help: "Show the brawl and swarm", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Help: "Leave the session", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// IsSessionAction reports whether handler is translated by ToAction rather than
// handled by the console itself.
func IsSessionAction(handler string) bool {
	switch handler {
	case HandlerSpawn, HandlerStatus, HandlerHelp, HandlerQuit:
		return false
	default:
		return true
	}
}
