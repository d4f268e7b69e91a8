package cli

import (
	"context"
	"errors"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/config"
	"github.com/andymcblane/EinkPDA/internal/script"
)

var errScriptRequired = errors.New("script path is required")

// PlayCmd returns the play command.
func PlayCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "Print the screen after every step")

	return &Command{
		Flags: fs,
		Usage: "play <script.yaml> [flags]",
		Short: "Replay a key script",
		Long: `Feed the steps of a YAML key script to the apps and print the final
screen. Fails on the first step whose expect block does not hold.

A script with a clock field runs on a fixed clock that advances one
second each time it is read, so timestamps are reproducible.`,
		Group: GroupDevice,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execPlay(o, cfg, *verbose, args)
		},
	}
}

func execPlay(o *IO, cfg *config.Config, verbose bool, args []string) error {
	if len(args) == 0 {
		return errScriptRequired
	}

	sc, err := script.Load(args[0])
	if err != nil {
		return err
	}

	var c clock.Clock = clock.System{}

	if !sc.Clock.IsZero() {
		m := clock.NewManual(sc.Clock)
		m.SetStep(time.Second)
		c = m
	}

	sess, err := openSession(cfg, sessionOptions{terminal: o.errOut, clock: c})
	if err != nil {
		return err
	}
	defer sess.Close()

	sh := sess.shell

	var after func(int)
	if verbose {
		after = func(step int) {
			o.Printf("# step %d (%s)\n%s", step, script.StateName(sh), sh.Screen().Render())
		}
	}

	runErr := sc.Run(sh, after)

	if !verbose {
		o.Printf("%s", sh.Screen().Render())
	}

	return runErr
}
