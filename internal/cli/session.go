package cli

import (
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/config"
	"github.com/andymcblane/EinkPDA/internal/fs"
	"github.com/andymcblane/EinkPDA/internal/logging"
	"github.com/andymcblane/EinkPDA/internal/shell"
)

// session is everything a command needs to drive the apps.
type session struct {
	shell  *shell.Shell
	log    *slog.Logger
	closer io.Closer
}

func (s *session) Close() error { return s.closer.Close() }

// sessionOptions tweak a session for one command.
type sessionOptions struct {
	// terminal receives text logs; nil when a TUI owns the terminal.
	terminal io.Writer
	// cooldown between keys; zero for scripted input.
	cooldown time.Duration
	clock    clock.Clock
}

func openSession(cfg *config.Config, opts sessionOptions) (*session, error) {
	level := new(slog.LevelVar)
	level.Set(cfg.Level())

	logFile := cfg.LogFile
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(cfg.EffectiveCwd, logFile)
	}

	logger, closer, err := logging.New(logging.Options{
		Level:    level,
		Terminal: opts.terminal,
		File:     logFile,
		Journal:  cfg.Journal,
	})
	if err != nil {
		return nil, err
	}

	if opts.clock == nil {
		opts.clock = clock.System{}
	}

	sh := shell.New(shell.Options{
		FS:           fs.NewReal(),
		DataDir:      cfg.DataDirAbs,
		TasksFile:    cfg.TasksFile,
		HealthFile:   cfg.HealthFile,
		CalendarFile: cfg.CalendarFile,
		MaxFiles:     cfg.MaxFiles,
		Cooldown:     opts.cooldown,
		Clock:        opts.clock,
		Logger:       logger,
	})

	return &session{shell: sh, log: logger, closer: closer}, nil
}
