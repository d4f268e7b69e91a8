// Package logging builds the process logger: text to a terminal, JSON lines
// to a file, and the systemd journal, fanned out to whichever are enabled.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options select the log sinks.
type Options struct {
	Level *slog.LevelVar
	// Terminal receives text output. Nil disables it (the TUI owns the tty).
	Terminal io.Writer
	// File, if set, receives JSON lines. Relative to nothing: callers resolve it.
	File string
	// Journal enables the systemd journal sink.
	Journal bool
}

// New returns the logger and a closer for the file sink.
// A journal that cannot be reached is reported on the other sinks and skipped.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := opts.Level
	if level == nil {
		level = new(slog.LevelVar)
	}

	var (
		handlers []slog.Handler
		closer   io.Closer = nopCloser{}
	)

	if opts.Terminal != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Terminal, &slog.HandlerOptions{Level: level}))
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}

		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}

		closer = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	if opts.Journal {
		jh, err := slogjournal.NewHandler(&slogjournal.Options{
			Level:        level,
			ReplaceGroup: toJournalKey,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)

				return a
			},
		})
		if err != nil {
			warn(handlers, "systemd journal unavailable", err)
		} else {
			handlers = append(handlers, jh)
		}
	}

	if len(handlers) == 0 {
		return slog.New(slog.DiscardHandler), closer, nil
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func warn(handlers []slog.Handler, msg string, err error) {
	r := slog.NewRecord(time.Now(), slog.LevelWarn, msg, 0)
	r.Add("error", err)

	for _, h := range handlers {
		_ = h.Handle(context.Background(), r)
	}
}

// toJournalKey maps a key to the journal's field alphabet: A-Z, 0-9, _.
func toJournalKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}

		return '_'
	}, strings.ToUpper(s))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
