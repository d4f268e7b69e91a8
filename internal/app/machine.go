package app

import (
	"fmt"
	"log/slog"

	"github.com/andymcblane/EinkPDA/internal/display"
	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/record"
	"github.com/andymcblane/EinkPDA/internal/store"
)

// Kind names a machine state.
type Kind int

const (
	Browse Kind = iota
	CreateWizard
	Detail
	EditField
)

func (k Kind) String() string {
	switch k {
	case Browse:
		return "browse"
	case CreateWizard:
		return "wizard"
	case Detail:
		return "detail"
	case EditField:
		return "edit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is the machine's position. Step is used by CreateWizard, Index by
// Detail and EditField, Field and Buffer by EditField (Buffer also holds
// the wizard's current text).
type State struct {
	Kind   Kind
	Step   int
	Index  int
	Field  int
	Buffer string
}

// Keypad is the part of the debouncer the machine drives.
type Keypad interface {
	Mode() keys.Mode
	SetMode(m keys.Mode)
	ResetMode()
}

// Flash messages shared by every app.
const (
	MsgSaveFailed = "Save Failed"
	MsgDeleted    = "Deleted"
	MsgCopied     = "Copied"
)

// Machine runs one app. It is driven by a single goroutine; only the
// display signal is shared with the renderer.
type Machine struct {
	profile Profile
	store   *store.Store
	keypad  Keypad
	signal  *display.Signal
	log     *slog.Logger

	kind   Kind
	step   int
	index  int
	action Action
	buf    Buffer
	values []string
	flash  string
}

// New returns a machine in Browse. Call Enter before use.
func New(p Profile, s *store.Store, keypad Keypad, signal *display.Signal, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if signal == nil {
		signal = &display.Signal{}
	}

	if keypad == nil {
		keypad = &keys.Debouncer{}
	}

	return &Machine{
		profile: p,
		store:   s,
		keypad:  keypad,
		signal:  signal,
		log:     logger.With("app", p.Name),
	}
}

// Name returns the profile name.
func (m *Machine) Name() string { return m.profile.Name }

// Store returns the backing store.
func (m *Machine) Store() *store.Store { return m.store }

// State returns the current state.
func (m *Machine) State() State {
	st := State{Kind: m.kind, Step: m.step, Index: m.index}
	if m.kind == CreateWizard || m.kind == EditField {
		st.Buffer = m.buf.String()
	}

	if m.kind == EditField {
		st.Field = m.action.Field
	}

	return st
}

// Flash returns the transient message, if any.
func (m *Machine) Flash() string { return m.flash }

// Enter (re)opens the app: reloads the store and shows the list.
func (m *Machine) Enter() store.LoadReport {
	report := m.store.Reload()
	if !report.Available && !report.Missing {
		m.log.Warn("storage unavailable", "path", m.store.Path())
	}

	m.flash = ""
	m.toBrowse()
	m.signal.Invalidate(true)

	return report
}

// Poll reads one key through d and handles it. It returns true when the
// app exits to the shell.
func (m *Machine) Poll(d *keys.Debouncer, src keys.Source) bool {
	ev, ok := d.Poll(src)
	if !ok {
		return false
	}

	if ev.Key.IsToggle() {
		m.signal.Invalidate(false)

		return false
	}

	return m.HandleKey(ev.Key)
}

// HandleKey applies one accepted key. It returns true when the app exits.
func (m *Machine) HandleKey(k keys.Key) bool {
	if k == keys.KeyNone {
		return false
	}

	hadFlash := m.flash != ""
	m.flash = ""

	var exit bool

	switch m.kind {
	case Browse:
		exit = m.browseKey(k)
	case CreateWizard:
		m.wizardKey(k)
	case Detail:
		m.detailKey(k)
	case EditField:
		m.editKey(k)
	}

	if hadFlash && m.flash == "" {
		m.signal.Invalidate(false)
	}

	// List screens keep digits on the home row whatever was typed.
	if !exit && (m.kind == Browse || m.kind == Detail) {
		m.keypad.SetMode(keys.ModeFunc)
	}

	return exit
}

func (m *Machine) browseKey(k keys.Key) bool {
	p := &m.profile

	switch {
	case k.IsBack():
		m.log.Debug("transition", "from", Browse, "to", "home")
		m.keypad.ResetMode()
		m.signal.Invalidate(true)

		return true

	case p.isNewKey(k) && len(p.Wizard) > 0:
		m.values = m.values[:0]
		m.buf.Reset()
		m.transition(CreateWizard, true)
		m.step = 0
		m.setEntryMode(p.Wizard[0])

	default:
		if p.QuickAdd != nil {
			if r, ok := p.QuickAdd(k); ok {
				m.add(r)

				return false
			}
		}

		i, ok := p.Selection.Index(k)
		if !ok {
			return false
		}

		if !m.store.Valid(i) {
			m.log.Info("selection out of range", "key", k.String(), "index", i, "len", m.store.Len())

			return false
		}

		m.index = i
		m.transition(Detail, true)
	}

	return false
}

func (m *Machine) wizardKey(k keys.Key) {
	field := m.profile.Wizard[m.step]

	switch {
	case k == keys.KeyHome:
		m.log.Debug("wizard cancelled", "step", m.step)
		m.toBrowse()
		m.signal.Invalidate(true)

	case k == keys.KeyEnter:
		value, ok := field.check(m.buf.String())
		if !ok {
			m.log.Info("input rejected", "step", m.step, "input", m.buf.String())
			m.flash = field.Invalid
			m.buf.Reset()
			m.signal.Invalidate(false)

			return
		}

		m.values = append(m.values, value)
		m.buf.Reset()

		if m.step+1 < len(m.profile.Wizard) {
			m.step++
			m.setEntryMode(m.profile.Wizard[m.step])
			m.signal.Invalidate(false)

			return
		}

		m.add(m.profile.Build(m.values))

	default:
		if m.buf.Apply(k) {
			m.signal.Invalidate(false)
		}
	}
}

func (m *Machine) detailKey(k keys.Key) {
	if k.IsBack() {
		m.toBrowse()
		m.signal.Invalidate(true)

		return
	}

	a, ok := m.profile.action(k)
	if !ok {
		return
	}

	switch a.Kind {
	case ActionDelete:
		if err := m.store.DeleteAt(m.index); err != nil {
			m.persistFailed("delete", err)

			return
		}

		m.toBrowse()
		m.flash = MsgDeleted
		m.signal.Invalidate(true)

	case ActionEdit:
		rec, _ := m.store.At(m.index)
		m.action = a
		m.buf = NewBuffer(rec.Field(a.Field))
		m.transition(EditField, false)
		m.setEntryMode(a.Entry)

	case ActionDuplicate:
		rec, _ := m.store.At(m.index)
		if err := m.store.Append(rec); err != nil {
			m.persistFailed("duplicate", err)

			return
		}

		m.toBrowse()
		m.flash = MsgCopied
		m.signal.Invalidate(true)

	case ActionUpdate:
		rec, _ := m.store.At(m.index)
		m.commit(a.Field, a.Update(rec.Field(a.Field)))
	}
}

func (m *Machine) editKey(k keys.Key) {
	switch {
	case k == keys.KeyHome:
		m.buf.Reset()
		m.transition(Detail, false)

	case k == keys.KeyEnter:
		value, ok := m.action.Entry.check(m.buf.String())
		if !ok {
			m.log.Info("input rejected", "field", m.action.Field, "input", m.buf.String())
			m.flash = m.action.Entry.Invalid
			m.buf.Reset()
			m.signal.Invalidate(false)

			return
		}

		m.buf.Reset()
		m.commit(m.action.Field, value)

	default:
		if m.buf.Apply(k) {
			m.signal.Invalidate(false)
		}
	}
}

// commit writes one field of the selected record and shows its detail.
func (m *Machine) commit(field int, value string) {
	i, ok := m.store.EditField(m.index, field, value)
	if !ok {
		m.log.Info("edit rejected", "index", m.index, "field", field)
		m.transition(Detail, false)

		return
	}

	if err := m.store.Rewrite(); err != nil {
		m.persistFailed("edit", err)

		return
	}

	m.index = i
	m.transition(Detail, false)
}

func (m *Machine) add(r record.Record) {
	if err := m.store.Append(r); err != nil {
		m.persistFailed("append", err)

		return
	}

	m.log.Debug("record added", "len", m.store.Len())
	m.toBrowse()
	m.flash = m.profile.Added
	m.signal.Invalidate(true)
}

// persistFailed resyncs memory with the file after a failed write and
// falls back to the list.
func (m *Machine) persistFailed(op string, err error) {
	m.log.Error("save failed", "op", op, "error", err)
	m.store.Reload()
	m.toBrowse()
	m.flash = MsgSaveFailed
	m.signal.Invalidate(true)
}

func (m *Machine) toBrowse() {
	if m.kind != Browse {
		m.log.Debug("transition", "from", m.kind, "to", Browse)
	}

	m.kind = Browse
	m.step = 0
	m.index = 0
	m.buf.Reset()
	m.values = m.values[:0]
	m.keypad.SetMode(keys.ModeFunc)
}

func (m *Machine) transition(to Kind, full bool) {
	m.log.Debug("transition", "from", m.kind, "to", to)
	m.kind = to

	if to == Detail {
		m.keypad.SetMode(keys.ModeFunc)
	}

	m.signal.Invalidate(full)
}

func (m *Machine) setEntryMode(f Field) {
	if f.Numeric {
		m.keypad.SetMode(keys.ModeFunc)

		return
	}

	m.keypad.ResetMode()
}
