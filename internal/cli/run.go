// Package cli implements the pocketmage command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/andymcblane/EinkPDA/internal/config"
)

var errUnknownCommand = errors.New("unknown command")

// Run is the main entry point. Returns the exit code.
//
// A signal on sigCh cancels the running command's context.
func Run(in io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("pocketmage", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use the specified config `file`")
	dataDir := globals.String("data-dir", "", "Override the data directory")
	logLevel := globals.String("log-level", "", "Log level (debug|info|warn|error)")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, nil)

		return 1
	}

	if globals.Changed("data-dir") && *dataDir == "" {
		fprintln(errOut, "error:", config.ErrDataDirEmpty)
		printUsage(errOut, globals, nil)

		return 1
	}

	rest := globals.Args()

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:  *workDir,
		ConfigPath:       *configPath,
		DataDirOverride:  *dataDir,
		LogLevelOverride: *logLevel,
		Env:              env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	commands := allCommands(&cfg)

	if *help || len(rest) == 0 {
		printUsage(out, globals, commands)

		return 0
	}

	cmd, ok := findCommand(commands, rest[0])
	if !ok {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCommand, rest[0]))
		printUsage(errOut, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(in, out, errOut), rest[1:])
}

func allCommands(cfg *config.Config) []*Command {
	return []*Command{
		RunCmd(cfg),
		ReplCmd(cfg),
		PlayCmd(cfg),
		LsCmd(cfg),
		AddCmd(cfg),
		RmCmd(cfg),
		PrintConfigCmd(cfg),
	}
}

func findCommand(commands []*Command, name string) (*Command, bool) {
	for _, c := range commands {
		if c.Name() == name {
			return c, true
		}
	}

	return nil, false
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, `pocketmage - PocketMage notetaker apps on the desktop

Usage: pocketmage [global flags] <command> [args]

Global flags:`)

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})
	fprintln(w, strings.TrimRight(buf.String(), "\n"))

	if len(commands) == 0 {
		return
	}

	fprintln(w)
	fprintln(w, "Commands:")

	groups := groupCommands(commands)

	for _, g := range append(slices.Clone(groupOrder), "") {
		if len(groups[g]) == 0 {
			continue
		}

		if g != "" {
			fprintln(w, " "+g+":")
		}

		for _, c := range groups[g] {
			fprintln(w, c.HelpLine())
		}
	}
}
