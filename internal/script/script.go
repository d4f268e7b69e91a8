// Package script replays recorded key sequences against a shell and checks
// what ends up on screen.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/shell"
)

var (
	// ErrInvalid is returned for scripts that parse but make no sense.
	ErrInvalid = errors.New("invalid script")
	// ErrExpectation is returned when a step's expect block does not hold.
	ErrExpectation = errors.New("expectation failed")
)

// Script is a YAML key script:
//
//	clock: 2025-01-15T14:30:00Z
//	steps:
//	  - keys: "tnBuy milk<enter>20250120<enter>"
//	    expect:
//	      app: tasks
//	      state: browse
//	      flash: New Task Added
//	      contains: [Buy milk]
type Script struct {
	Name  string    `yaml:"name,omitempty"`
	Clock time.Time `yaml:"clock,omitempty"`
	Steps []Step    `yaml:"steps"`
}

// Step is one line of keys and an optional check of the result.
type Step struct {
	Keys   string  `yaml:"keys"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect checks the screen after a step. Empty fields are not checked.
type Expect struct {
	App      string   `yaml:"app,omitempty"`
	State    string   `yaml:"state,omitempty"`
	Flash    *string  `yaml:"flash,omitempty"`
	Contains []string `yaml:"contains,omitempty"`
	Records  *int     `yaml:"records,omitempty"`
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return Parse(data)
}

// Parse decodes a script. Unknown fields are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalid)
	}

	for i, st := range s.Steps {
		if _, err := keys.ParseTokens(st.Keys); err != nil {
			return nil, fmt.Errorf("%w: step %d: %w", ErrInvalid, i+1, err)
		}
	}

	return &s, nil
}

// Run feeds every step into sh. It stops at the first failed expectation.
// after, if set, is called after each step.
func (s *Script) Run(sh *shell.Shell, after func(step int)) error {
	for i, st := range s.Steps {
		ks, err := keys.ParseTokens(st.Keys)
		if err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrInvalid, i+1, err)
		}

		sh.Feed(ks...)

		if after != nil {
			after(i + 1)
		}

		if st.Expect == nil {
			continue
		}

		if err := st.Expect.check(sh); err != nil {
			return fmt.Errorf("step %d (%q): %w", i+1, st.Keys, err)
		}
	}

	return nil
}

// StateName names what the active context is doing: "home", or the
// active app's state such as "browse" or "prompt".
func StateName(sh *shell.Shell) string {
	switch id := sh.Active(); id {
	case shell.Home:
		return "home"
	case shell.Files:
		return sh.Files().State().Kind.String()
	default:
		m, _ := sh.Machine(id)

		return m.State().Kind.String()
	}
}

func (e *Expect) check(sh *shell.Shell) error {
	var problems []string

	if e.App != "" {
		if got := sh.Active().String(); got != e.App {
			problems = append(problems, fmt.Sprintf("app=%s, want=%s", got, e.App))
		}
	}

	if e.State != "" {
		if got := StateName(sh); got != e.State {
			problems = append(problems, fmt.Sprintf("state=%s, want=%s", got, e.State))
		}
	}

	screen := sh.Screen()

	if e.Flash != nil && screen.Flash != *e.Flash {
		problems = append(problems, fmt.Sprintf("flash=%q, want=%q", screen.Flash, *e.Flash))
	}

	for _, want := range e.Contains {
		if !slices.ContainsFunc(screen.Lines, func(l string) bool { return strings.Contains(l, want) }) {
			problems = append(problems, fmt.Sprintf("screen has no line containing %q", want))
		}
	}

	if e.Records != nil {
		st, ok := sh.Store(sh.Active())
		switch {
		case !ok:
			problems = append(problems, "records: active app has no store")
		case st.Len() != *e.Records:
			problems = append(problems, fmt.Sprintf("records=%d, want=%d", st.Len(), *e.Records))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(problems, "; "))
	}

	return nil
}
