package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/andymcblane/EinkPDA/internal/config"
	"github.com/andymcblane/EinkPDA/internal/tui"
)

// RunCmd returns the run command.
func RunCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "run",
		Short: "Start the simulator",
		Long: `Start the full-screen simulator on the home screen.

Keys: Esc home, Tab FN, Shift+Tab SHIFT, Ctrl+L clear, Ctrl+C quit.
Logs go to log_file or the journal only, never to the terminal.`,
		Group: GroupDevice,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			sess, err := openSession(cfg, sessionOptions{cooldown: cfg.Cooldown()})
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.log.Info("simulator started", "data_dir", cfg.DataDirAbs)

			return tui.Run(ctx, sess.shell, tui.Options{
				Poll:   cfg.PollInterval(),
				Input:  o.in,
				Output: o.out,
			})
		},
	}
}
