// Package shell is the home screen and the owner of every app context.
// Exactly one context is active at a time; keys go to it until it exits.
package shell

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/andymcblane/EinkPDA/internal/app"
	"github.com/andymcblane/EinkPDA/internal/calendar"
	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/display"
	"github.com/andymcblane/EinkPDA/internal/filewiz"
	"github.com/andymcblane/EinkPDA/internal/fs"
	"github.com/andymcblane/EinkPDA/internal/healthlog"
	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/store"
	"github.com/andymcblane/EinkPDA/internal/tasks"
)

// AppID identifies an app. Home is the zero value.
type AppID int

const (
	Home AppID = iota
	Tasks
	HealthLog
	Calendar
	Files
)

// Apps lists the launchable apps in menu order.
var Apps = []AppID{Tasks, HealthLog, Calendar, Files}

var appInfo = map[AppID]struct {
	name   string
	title  string
	hotkey keys.Key
}{
	Home:      {name: "home", title: "Home"},
	Tasks:     {name: "tasks", title: "Tasks", hotkey: 't'},
	HealthLog: {name: "healthlog", title: "Health log", hotkey: 'h'},
	Calendar:  {name: "calendar", title: "Calendar", hotkey: 'c'},
	Files:     {name: "files", title: "Files", hotkey: 'f'},
}

func (id AppID) String() string {
	if info, ok := appInfo[id]; ok {
		return info.name
	}

	return fmt.Sprintf("AppID(%d)", int(id))
}

// ParseApp looks an app up by name.
func ParseApp(name string) (AppID, bool) {
	for id, info := range appInfo {
		if id != Home && info.name == name {
			return id, true
		}
	}

	return Home, false
}

// Options configure a Shell.
type Options struct {
	FS           fs.FS
	DataDir      string
	TasksFile    string
	HealthFile   string
	CalendarFile string
	MaxFiles     int
	// Cooldown between accepted keys. Zero accepts every key.
	Cooldown time.Duration
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Shell routes keys to the active app.
type Shell struct {
	clock  clock.Clock
	kb     *keys.Debouncer
	signal *display.Signal
	log    *slog.Logger

	records map[AppID]*app.Machine
	files   *filewiz.Wizard
	active  AppID
}

// New builds every app context. Nothing is read from disk until an app is
// opened.
func New(opts Options) *Shell {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if opts.FS == nil {
		opts.FS = fs.NewReal()
	}

	s := &Shell{
		clock:  opts.Clock,
		kb:     keys.NewDebouncer(opts.Clock, opts.Cooldown),
		signal: &display.Signal{},
		log:    opts.Logger,
	}

	path := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}

		return filepath.Join(opts.DataDir, name)
	}

	s.records = map[AppID]*app.Machine{
		Tasks: app.New(tasks.Profile(),
			store.New(opts.FS, path(opts.TasksFile), tasks.Schema, opts.Logger),
			s.kb, s.signal, opts.Logger),
		HealthLog: app.New(healthlog.Profile(opts.Clock),
			store.New(opts.FS, path(opts.HealthFile), healthlog.Schema, opts.Logger),
			s.kb, s.signal, opts.Logger),
		Calendar: app.New(calendar.Profile(),
			store.New(opts.FS, path(opts.CalendarFile), calendar.Schema, opts.Logger),
			s.kb, s.signal, opts.Logger),
	}

	s.files = filewiz.New(opts.FS, opts.DataDir, filewiz.Options{
		MaxFiles: opts.MaxFiles,
		Keypad:   s.kb,
		Signal:   s.signal,
		Logger:   opts.Logger,
		Changed:  s.FilesChanged,
	})

	s.Home()

	return s
}

// Signal is the invalidation signal shared with the renderer.
func (s *Shell) Signal() *display.Signal { return s.signal }

// Keypad returns the debouncer, for mode display.
func (s *Shell) Keypad() *keys.Debouncer { return s.kb }

// Active returns the active app, or Home.
func (s *Shell) Active() AppID { return s.active }

// Machine returns the context of a record app.
func (s *Shell) Machine(id AppID) (*app.Machine, bool) {
	m, ok := s.records[id]

	return m, ok
}

// Store returns the store of a record app.
func (s *Shell) Store(id AppID) (*store.Store, bool) {
	m, ok := s.records[id]
	if !ok {
		return nil, false
	}

	return m.Store(), true
}

// Files returns the file manager context.
func (s *Shell) Files() *filewiz.Wizard { return s.files }

// Home shows the home screen.
func (s *Shell) Home() {
	if s.active != Home {
		s.log.Debug("app closed", "app", s.active)
	}

	s.active = Home
	s.kb.ResetMode()
	s.signal.Invalidate(true)
}

// Open makes id the active app and enters it.
func (s *Shell) Open(id AppID) {
	switch id {
	case Home:
		s.Home()

		return
	case Files:
		s.files.Enter()
	default:
		m, ok := s.records[id]
		if !ok {
			s.log.Warn("unknown app", "app", id)

			return
		}

		m.Enter()
	}

	s.log.Debug("app opened", "app", id)
	s.active = id
	s.signal.Invalidate(true)
}

// Poll reads at most one key from src and handles it.
func (s *Shell) Poll(src keys.Source) {
	ev, ok := s.kb.Poll(src)
	if !ok {
		return
	}

	if ev.Key.IsToggle() {
		s.signal.Invalidate(false)

		return
	}

	s.HandleKey(ev.Key)
}

// Feed sends ks through the debouncer one key at a time.
func (s *Shell) Feed(ks ...keys.Key) {
	for _, k := range ks {
		s.Poll(keys.NewQueue(k))
	}
}

// HandleKey routes one accepted key to the active context.
func (s *Shell) HandleKey(k keys.Key) {
	var exit bool

	switch s.active {
	case Home:
		s.homeKey(k)

		return
	case Files:
		exit = s.files.HandleKey(k)
	default:
		exit = s.records[s.active].HandleKey(k)
	}

	if exit {
		s.Home()
	}
}

func (s *Shell) homeKey(k keys.Key) {
	for i, id := range Apps {
		if k == appInfo[id].hotkey || k == keys.Key('1'+i) {
			s.Open(id)

			return
		}
	}
}

// FilesChanged drops the in-memory records of every app whose backing file
// is among paths, so nothing stale is shown or written back before the next
// reload.
func (s *Shell) FilesChanged(paths ...string) {
	for id, m := range s.records {
		p := filepath.Clean(m.Store().Path())

		for _, changed := range paths {
			if filepath.Clean(changed) == p {
				s.log.Debug("backing file changed", "app", id, "path", p)
				m.Store().Clear()
			}
		}
	}
}

// Screen describes what the active context shows.
func (s *Shell) Screen() display.Screen {
	switch s.active {
	case Home:
		return s.homeScreen()
	case Files:
		return s.files.View()
	default:
		return s.records[s.active].View()
	}
}

func (s *Shell) homeScreen() display.Screen {
	lines := make([]string, 0, len(Apps))
	for i, id := range Apps {
		info := appInfo[id]
		lines = append(lines, fmt.Sprintf("%c/%d %s", info.hotkey, i+1, info.title))
	}

	return display.Screen{
		Title:  "POCKETMAGE",
		Lines:  lines,
		Status: s.clock.Now().Format("01/02/06 15:04") + "  " + s.kb.Mode().String(),
	}
}
