package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/andymcblane/EinkPDA/internal/shell"
)

// Help groups, in the order the global usage lists them.
const (
	GroupDevice  = "Device"
	GroupRecords = "Records"
	GroupSetup   = "Setup"
)

var groupOrder = []string{GroupDevice, GroupRecords, GroupSetup}

// Command is one pocketmage subcommand.
//
// Commands that work on one app's records set AppExec instead of Exec: the
// first argument is resolved to a record app before AppExec runs, and the
// help lists the apps it accepts.
type Command struct {
	Flags *flag.FlagSet

	// Usage is shown after "pocketmage": the name, then arguments.
	// AppExec commands write "<app>" as the first argument.
	Usage string

	Short string
	Long  string

	// Group places the command under a heading in the global help.
	Group string

	Exec    func(ctx context.Context, o *IO, args []string) error
	AppExec func(ctx context.Context, o *IO, app shell.AppID, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-26s %s", c.Usage, c.Short)
}

// PrintHelp prints "pocketmage <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: pocketmage", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.AppExec != nil {
		o.Println()
		o.Println("Apps:")
		o.Println("  " + strings.Join(recordAppNames(), "  "))
	}

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags, resolves the app argument if the command takes one,
// and executes the command. Returns the exit code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	if err := c.exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}

func (c *Command) exec(ctx context.Context, o *IO, args []string) error {
	if c.AppExec == nil {
		return c.Exec(ctx, o, args)
	}

	if len(args) == 0 {
		return errAppRequired
	}

	id, err := recordApp(args[0])
	if err != nil {
		return err
	}

	return c.AppExec(ctx, o, id, args[1:])
}

// groupCommands buckets commands by help group, keeping their order within
// a group.
func groupCommands(commands []*Command) map[string][]*Command {
	groups := make(map[string][]*Command, len(groupOrder))
	for _, cmd := range commands {
		groups[cmd.Group] = append(groups[cmd.Group], cmd)
	}

	return groups
}
