package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/config"
	"github.com/cory-johannsen/survivors/internal/game/command"
	"github.com/cory-johannsen/survivors/internal/game/content"
	"github.com/cory-johannsen/survivors/internal/game/session"
)

// App is the console companion: one session driven by typed commands.
type App struct {
	Sessions *session.Manager
	Commands *command.Registry
	Library  *content.Library
	Logger   *zap.Logger
	Config   config.Config
	// Prompt is written before each line is read; empty disables it.
	Prompt string
}

// errQuit stops Run without an error.
var errQuit = errors.New("quit")

// Run opens a session and executes lines from in until EOF, quit or ctx is done.
//
// Postcondition: the session is closed; returns nil on EOF or quit.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	id := a.Sessions.Open(a.Config.Game.SoloMode)
	defer func() {
		if err := a.Sessions.Close(id); err != nil {
			a.Logger.Warn("closing session", zap.Error(err))
		}
	}()

	fmt.Fprintf(out, "Session %s open. Characters: %s. Type help for commands.\n",
		id, strings.Join(a.characterIDs(), ", "))

	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.Prompt != "" {
			fmt.Fprint(out, a.Prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		err := a.Exec(ctx, id, sc.Text(), out)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
		}
	}
}

// Exec runs one console line against session id, writing narration to out.
//
// Postcondition: Returns errQuit for quit; usage and lookup errors are returned for
// display, rejected actions are narrated and return nil.
func (a *App) Exec(ctx context.Context, id, line string, out io.Writer) error {
	pr := command.Parse(line)
	if pr.Command == "" {
		return nil
	}
	cmd, ok := a.Commands.Resolve(pr.Command)
	if !ok {
		return fmt.Errorf("unknown command %q; type help for a list", pr.Command)
	}

	switch cmd.Handler {
	case command.HandlerQuit:
		fmt.Fprintln(out, "The fire burns down. Goodbye.")
		return errQuit
	case command.HandlerHelp:
		cats := pr.Args
		if len(cats) == 0 {
			cats = []string{command.CategoryDice, command.CategoryBrawl, command.CategorySwarm, command.CategorySystem}
		}
		writeLines(out, a.Commands.HelpLines(cats...))
		return nil
	case command.HandlerStatus:
		st, err := a.Sessions.State(id)
		if err != nil {
			return err
		}
		writeLines(out, st.Summary())
		return nil
	case command.HandlerSpawn:
		if len(pr.Args) != 2 {
			return fmt.Errorf("%w: %s", command.ErrUsage, cmd.Usage)
		}
		n, err := a.Sessions.Spawn(ctx, pr.Args[0], pr.Args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s) joins the scene with %d health.\n", n.Name, n.ID, n.Health)
		return nil
	}

	act, err := command.ToAction(cmd, pr)
	if err != nil {
		return err
	}
	msgs, err := a.Sessions.Dispatch(ctx, id, act)
	for _, m := range msgs {
		fmt.Fprintln(out, m.Text)
	}
	if err != nil {
		a.Logger.Error("dispatch", zap.String("action", act.Name()), zap.Error(err))
		return err
	}
	return nil
}

func (a *App) characterIDs() []string {
	out := make([]string, 0, len(a.Library.Sheets))
	for _, s := range a.Library.Sheets {
		out = append(out, s.ID)
	}
	if len(out) == 0 {
		out = append(out, "none")
	}
	return out
}

func writeLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
