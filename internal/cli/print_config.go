package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/andymcblane/EinkPDA/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Group: GroupSetup,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execPrintConfig(io, cfg)
		},
	}
}

func execPrintConfig(io *IO, cfg *config.Config) error {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("data_dir=" + cfg.DataDirAbs)
	io.Println("tasks_file=" + cfg.TasksFile)
	io.Println("health_file=" + cfg.HealthFile)
	io.Println("calendar_file=" + cfg.CalendarFile)
	io.Println(fmt.Sprintf("cooldown_ms=%d", cfg.CooldownMS))
	io.Println(fmt.Sprintf("poll_ms=%d", cfg.PollMS))
	io.Println("log_level=" + cfg.LogLevel)

	if cfg.LogFile != "" {
		io.Println("log_file=" + cfg.LogFile)
	}

	io.Println(fmt.Sprintf("journal=%v", cfg.Journal))
	io.Println(fmt.Sprintf("max_files=%d", cfg.MaxFiles))

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}

	return nil
}
