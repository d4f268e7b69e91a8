// Package config loads pocketmage's JSONC configuration.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	DataDir      string `json:"data_dir"`
	TasksFile    string `json:"tasks_file"`
	HealthFile   string `json:"health_file"`
	CalendarFile string `json:"calendar_file"`
	CooldownMS   int    `json:"cooldown_ms"`
	PollMS       int    `json:"poll_ms"`
	LogLevel     string `json:"log_level"`
	LogFile      string `json:"log_file,omitempty"`
	Journal      bool   `json:"journal"`
	MaxFiles     int    `json:"max_files"`

	// Resolved (not serialized)
	EffectiveCwd string `json:"-"`
	DataDirAbs   string `json:"-"`

	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string
	Project string
}

// FileName is the project config file name.
const FileName = ".pocketmage.json"

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:      ".pocketmage",
		TasksFile:    "tasks.txt",
		HealthFile:   "stool.txt",
		CalendarFile: "sys/events.txt",
		CooldownMS:   50,
		PollMS:       20,
		LogLevel:     "warn",
		MaxFiles:     10,
	}
}

// Cooldown returns the key cooldown.
func (c Config) Cooldown() time.Duration { return time.Duration(c.CooldownMS) * time.Millisecond }

// PollInterval returns the input poll cadence.
func (c Config) PollInterval() time.Duration { return time.Duration(c.PollMS) * time.Millisecond }

// Level returns the parsed log level. Validated configs never fail.
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)

	return l
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrLogLevelInvalid, s)
	}

	return l, nil
}

// fileConfig is what a config file may set. Nil means unset.
type fileConfig struct {
	DataDir      *string `json:"data_dir"`
	TasksFile    *string `json:"tasks_file"`
	HealthFile   *string `json:"health_file"`
	CalendarFile *string `json:"calendar_file"`
	CooldownMS   *int    `json:"cooldown_ms"`
	PollMS       *int    `json:"poll_ms"`
	LogLevel     *string `json:"log_level"`
	LogFile      *string `json:"log_file"`
	Journal      *bool   `json:"journal"`
	MaxFiles     *int    `json:"max_files"`
}

// globalPath returns $XDG_CONFIG_HOME/pocketmage/config.json, falling back
// to ~/.config/pocketmage/config.json, or "" when neither is known.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "pocketmage", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "pocketmage", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride  string // -C/--cwd
	ConfigPath       string // -c/--config
	DataDirOverride  string // --data-dir
	LogLevelOverride string // --log-level
	Env              map[string]string
}

// Load resolves configuration with this precedence (highest wins):
// defaults, global user config, project .pocketmage.json, explicit
// --config file, CLI overrides.
func Load(in LoadInput) (Config, error) {
	workDir := in.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	if path := globalPath(in.Env); path != "" {
		fc, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, fc)
			cfg.Sources.Global = path
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	mustExist := false

	if in.ConfigPath != "" {
		projectPath = in.ConfigPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		if _, err := os.Stat(projectPath); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, in.ConfigPath)
		}

		mustExist = true
	}

	fc, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, fc)
		cfg.Sources.Project = projectPath
	}

	if in.DataDirOverride != "" {
		cfg.DataDir = in.DataDirOverride
	}

	if in.LogLevelOverride != "" {
		cfg.LogLevel = in.LogLevelOverride
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir
	cfg.DataDirAbs = cfg.DataDir

	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}

	return cfg, nil
}

func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return fileConfig{}, false, nil
	}

	fc, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if fc.DataDir != nil && *fc.DataDir == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrDataDirEmpty)
	}

	return fc, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(standardized, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return fc, nil
}

func merge(base Config, fc fileConfig) Config {
	setString(&base.DataDir, fc.DataDir)
	setString(&base.TasksFile, fc.TasksFile)
	setString(&base.HealthFile, fc.HealthFile)
	setString(&base.CalendarFile, fc.CalendarFile)
	setString(&base.LogLevel, fc.LogLevel)
	setString(&base.LogFile, fc.LogFile)

	if fc.CooldownMS != nil {
		base.CooldownMS = *fc.CooldownMS
	}

	if fc.PollMS != nil {
		base.PollMS = *fc.PollMS
	}

	if fc.MaxFiles != nil {
		base.MaxFiles = *fc.MaxFiles
	}

	if fc.Journal != nil {
		base.Journal = *fc.Journal
	}

	return base
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	if cfg.CooldownMS <= 0 {
		return ErrCooldownInvalid
	}

	if cfg.PollMS <= 0 {
		return ErrPollInvalid
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}
