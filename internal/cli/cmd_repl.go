package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/andymcblane/EinkPDA/internal/config"
	"github.com/andymcblane/EinkPDA/internal/keys"
)

const (
	replPrompt  = "keys> "
	replQuit    = ":quit"
	historyName = ".repl_history"
)

// ReplCmd returns the repl command.
func ReplCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	quiet := fs.BoolP("quiet", "q", false, "Print only the final screen")

	return &Command{
		Flags: fs,
		Usage: "repl [flags]",
		Short: "Type key sequences line by line",
		Long: `Read lines of keys and print the screen after each one.

Text is typed as-is. Special keys: <enter> <bksp> <del> <home> <shift>
<fn> <clear> <space> <lt>. A line reading ` + replQuit + ` ends the session.`,
		Group: GroupDevice,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execRepl(ctx, o, cfg, *quiet)
		},
	}
}

// lineReader yields one line of input per call, io.EOF at the end.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

type scanReader struct{ sc *bufio.Scanner }

func (r scanReader) Prompt(string) (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return r.sc.Text(), nil
}

func (scanReader) Close() error { return nil }

type linerReader struct {
	state   *liner.State
	history string
}

func newLinerReader(history string) *linerReader {
	r := &linerReader{state: liner.NewLiner(), history: history}
	r.state.SetCtrlCAborts(true)

	if f, err := os.Open(history); err == nil {
		_, _ = r.state.ReadHistory(f)
		_ = f.Close()
	}

	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	if err == nil && line != "" {
		r.state.AppendHistory(line)
	}

	return line, err
}

func (r *linerReader) Close() error {
	if f, err := os.Create(r.history); err == nil {
		_, _ = r.state.WriteHistory(f)
		_ = f.Close()
	}

	return r.state.Close()
}

func execRepl(ctx context.Context, o *IO, cfg *config.Config, quiet bool) error {
	sess, err := openSession(cfg, sessionOptions{terminal: o.errOut})
	if err != nil {
		return err
	}
	defer sess.Close()

	var lines lineReader = scanReader{sc: bufio.NewScanner(o.in)}
	if o.in == os.Stdin {
		if err := os.MkdirAll(cfg.DataDirAbs, 0o755); err != nil {
			return err
		}

		lines = newLinerReader(filepath.Join(cfg.DataDirAbs, historyName))
	}
	defer lines.Close()

	sh := sess.shell

	if !quiet {
		o.Printf("%s", sh.Screen().Render())
	}

	for ctx.Err() == nil {
		line, err := lines.Prompt(replPrompt)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if line == "" {
			continue
		}

		if line == replQuit {
			break
		}

		ks, err := keys.ParseTokens(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		sh.Feed(ks...)

		if !quiet {
			o.Printf("%s", sh.Screen().Render())
		}
	}

	if quiet {
		o.Printf("%s", sh.Screen().Render())
	}

	return nil
}
