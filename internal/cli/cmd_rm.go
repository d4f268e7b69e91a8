package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/andymcblane/EinkPDA/internal/config"
	"github.com/andymcblane/EinkPDA/internal/shell"
)

var errPositionRequired = errors.New("position is required")

// RmCmd returns the rm command.
func RmCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "rm <app> <n>",
		Short: "Delete the record at position n",
		Long:  "Delete the record at 1-based position n as listed by ls. Out of range is a warning, nothing is changed.",
		Group: GroupRecords,
		AppExec: func(_ context.Context, o *IO, id shell.AppID, args []string) error {
			return execRm(o, cfg, id, args)
		},
	}
}

func execRm(o *IO, cfg *config.Config, id shell.AppID, args []string) error {
	if len(args) == 0 {
		return errPositionRequired
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", args[0], err)
	}

	sess, err := openSession(cfg, sessionOptions{terminal: o.errOut})
	if err != nil {
		return err
	}
	defer sess.Close()

	st, err := loadStore(o, sess.shell, id)
	if err != nil {
		return err
	}

	r, ok := st.At(n - 1)
	if !ok {
		o.Warn(fmt.Sprintf("no record at position %d (have %d)", n, st.Len()),
			"run 'pocketmage ls "+id.String()+"'")

		return nil
	}

	if err := st.DeleteAt(n - 1); err != nil {
		return err
	}

	o.Println("removed", st.Schema().Codec.Encode(r))

	return nil
}
