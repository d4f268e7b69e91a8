// Package filewiz is the file manager: it lists the files in the data
// directory and renames, deletes or copies one at a time.
package filewiz

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andymcblane/EinkPDA/internal/app"
	"github.com/andymcblane/EinkPDA/internal/display"
	"github.com/andymcblane/EinkPDA/internal/fs"
	"github.com/andymcblane/EinkPDA/internal/keys"
)

// DefaultMaxFiles is how many files the list shows.
const DefaultMaxFiles = 10

// Flash messages.
const (
	MsgNameRequired = "Name Required"
	MsgBadName      = "Invalid Name"
	MsgExists       = "File Exists"
	MsgFailed       = "Operation Failed"
	MsgRenamed      = "Renamed"
	MsgDeleted      = "Deleted"
	MsgCopied       = "Copied"
)

var errBadName = errors.New("invalid file name")

// Kind names a file manager state.
type Kind int

const (
	List Kind = iota
	Detail
	Prompt
	Confirm
)

// Op is the file operation a prompt is collecting a name for.
type Op int

const (
	OpRename Op = iota
	OpCopy
)

// State is the file manager's position.
type State struct {
	Kind   Kind
	Index  int
	Op     Op
	Buffer string
}

// Wizard is the file manager. Changed is called with the affected paths
// after every successful rename, delete or copy.
type Wizard struct {
	fs       fs.FS
	dir      string
	maxFiles int
	keypad   app.Keypad
	signal   *display.Signal
	log      *slog.Logger
	changed  func(paths ...string)

	files []string
	kind  Kind
	index int
	op    Op
	buf   app.Buffer
	flash string
}

// Options configure a Wizard.
type Options struct {
	MaxFiles int
	Keypad   app.Keypad
	Signal   *display.Signal
	Logger   *slog.Logger
	Changed  func(paths ...string)
}

// New returns a file manager for dir.
func New(fsys fs.FS, dir string, opts Options) *Wizard {
	w := &Wizard{
		fs:       fsys,
		dir:      dir,
		maxFiles: opts.MaxFiles,
		keypad:   opts.Keypad,
		signal:   opts.Signal,
		log:      opts.Logger,
		changed:  opts.Changed,
	}

	if w.maxFiles <= 0 {
		w.maxFiles = DefaultMaxFiles
	}

	if w.keypad == nil {
		w.keypad = &keys.Debouncer{}
	}

	if w.signal == nil {
		w.signal = &display.Signal{}
	}

	if w.log == nil {
		w.log = slog.New(slog.DiscardHandler)
	}

	w.log = w.log.With("app", "filewiz")

	if w.changed == nil {
		w.changed = func(...string) {}
	}

	return w
}

// Files returns the listed file names.
func (w *Wizard) Files() []string { return slices.Clone(w.files) }

// State returns the current state.
func (w *Wizard) State() State {
	st := State{Kind: w.kind, Index: w.index}
	if w.kind == Prompt {
		st.Op = w.op
		st.Buffer = w.buf.String()
	}

	return st
}

// Flash returns the transient message, if any.
func (w *Wizard) Flash() string { return w.flash }

// Enter rescans the directory and shows the list.
func (w *Wizard) Enter() {
	w.flash = ""
	w.rescan()
	w.toList()
	w.signal.Invalidate(true)
}

func (w *Wizard) rescan() {
	w.files = w.files[:0]

	entries, err := w.fs.ReadDir(w.dir)
	if err != nil {
		w.log.Warn("list failed", "dir", w.dir, "error", err)

		return
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !e.Type().IsRegular() {
			continue
		}

		w.files = append(w.files, name)
	}

	slices.Sort(w.files)

	if len(w.files) > w.maxFiles {
		w.files = w.files[:w.maxFiles]
	}
}

// Poll reads one key through d and handles it. It returns true on exit.
func (w *Wizard) Poll(d *keys.Debouncer, src keys.Source) bool {
	ev, ok := d.Poll(src)
	if !ok {
		return false
	}

	if ev.Key.IsToggle() {
		w.signal.Invalidate(false)

		return false
	}

	return w.HandleKey(ev.Key)
}

// HandleKey applies one accepted key. It returns true when the file
// manager exits to the shell.
func (w *Wizard) HandleKey(k keys.Key) bool {
	if k == keys.KeyNone {
		return false
	}

	if w.flash != "" {
		w.flash = ""
		w.signal.Invalidate(false)
	}

	switch w.kind {
	case List:
		if k.IsBack() {
			w.keypad.ResetMode()
			w.signal.Invalidate(true)

			return true
		}

		i, ok := app.SelectDigitsThenLetters.Index(k)
		if !ok || i >= len(w.files) {
			return false
		}

		w.index = i
		w.to(Detail, true)

	case Detail:
		w.detailKey(k)

	case Prompt:
		w.promptKey(k)

	case Confirm:
		switch k {
		case 'y', 'Y':
			w.remove()
		case 'n', 'N', keys.KeyBackspace, keys.KeyHome, keys.KeyDelete:
			w.to(Detail, false)
		}
	}

	if w.kind == List || w.kind == Detail {
		w.keypad.SetMode(keys.ModeFunc)
	}

	return false
}

func (w *Wizard) detailKey(k keys.Key) {
	switch {
	case k.IsBack():
		w.toList()
		w.signal.Invalidate(true)
	case k == '1':
		w.startPrompt(OpRename)
	case k == '2':
		w.to(Confirm, false)
		w.keypad.ResetMode()
	case k == '3':
		w.startPrompt(OpCopy)
	}
}

func (w *Wizard) startPrompt(op Op) {
	w.op = op
	w.buf.Reset()
	w.to(Prompt, false)
	w.keypad.ResetMode()
}

func (w *Wizard) promptKey(k keys.Key) {
	switch {
	case k == keys.KeyHome:
		w.to(Detail, false)
	case k == keys.KeyEnter:
		w.commit()
	default:
		if w.buf.Apply(k) {
			w.signal.Invalidate(false)
		}
	}
}

// TargetName turns typed text into a file name: a name without an
// extension gets ".txt".
func TargetName(typed string) (string, error) {
	name := strings.TrimSpace(typed)

	switch {
	case name == "":
		return "", fmt.Errorf("%w: empty", errBadName)
	case strings.ContainsAny(name, `/\`), strings.HasPrefix(name, "."):
		return "", fmt.Errorf("%w: %q", errBadName, name)
	}

	if filepath.Ext(name) == "" {
		name += ".txt"
	}

	return name, nil
}

func (w *Wizard) commit() {
	typed := w.buf.String()

	name, err := TargetName(typed)
	if err != nil {
		w.flash = MsgBadName
		if strings.TrimSpace(typed) == "" {
			w.flash = MsgNameRequired
		}

		w.buf.Reset()
		w.signal.Invalidate(false)

		return
	}

	src := filepath.Join(w.dir, w.files[w.index])
	dst := filepath.Join(w.dir, name)

	if exists, _ := w.fs.Exists(dst); exists {
		w.flash = MsgExists
		w.signal.Invalidate(false)

		return
	}

	switch w.op {
	case OpRename:
		err = w.fs.Rename(src, dst)
		w.flash = MsgRenamed
	case OpCopy:
		err = fs.CopyFile(w.fs, src, dst)
		w.flash = MsgCopied
	}

	if errors.Is(err, fs.ErrTargetExists) {
		w.flash = MsgExists
		w.signal.Invalidate(false)

		return
	}

	if err != nil {
		w.log.Error("file operation failed", "src", src, "dst", dst, "error", err)
		w.flash = MsgFailed
	} else {
		w.log.Info("file changed", "src", src, "dst", dst)
		w.changed(src, dst)
	}

	w.rescan()
	w.toList()
	w.signal.Invalidate(true)
}

func (w *Wizard) remove() {
	path := filepath.Join(w.dir, w.files[w.index])

	if err := w.fs.Remove(path); err != nil {
		w.log.Error("delete failed", "path", path, "error", err)
		w.flash = MsgFailed
	} else {
		w.log.Info("file deleted", "path", path)
		w.flash = MsgDeleted
		w.changed(path)
	}

	w.rescan()
	w.toList()
	w.signal.Invalidate(true)
}

func (w *Wizard) toList() {
	w.kind = List
	w.index = 0
	w.buf.Reset()
	w.keypad.SetMode(keys.ModeFunc)
}

func (w *Wizard) to(k Kind, full bool) {
	w.log.Debug("transition", "from", w.kind, "to", k)
	w.kind = k
	w.signal.Invalidate(full)
}
