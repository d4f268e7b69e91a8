package cli

import (
	"errors"
	"fmt"

	"github.com/andymcblane/EinkPDA/internal/calendar"
	"github.com/andymcblane/EinkPDA/internal/healthlog"
	"github.com/andymcblane/EinkPDA/internal/shell"
	"github.com/andymcblane/EinkPDA/internal/store"
	"github.com/andymcblane/EinkPDA/internal/tasks"
)

var (
	errAppRequired   = errors.New("app is required (tasks|healthlog|calendar)")
	errNotRecordApp  = errors.New("not a record app (tasks|healthlog|calendar)")
	errStoreNotFound = errors.New("no store for app")
)

// recordApp resolves an app name that owns a record file.
func recordApp(name string) (shell.AppID, error) {
	id, ok := shell.ParseApp(name)
	if !ok {
		return shell.Home, fmt.Errorf("%w: %s", errNotRecordApp, name)
	}

	switch id {
	case shell.Tasks, shell.HealthLog, shell.Calendar:
		return id, nil
	default:
		return shell.Home, fmt.Errorf("%w: %s", errNotRecordApp, name)
	}
}

// recordAppNames lists the names recordApp accepts.
func recordAppNames() []string {
	return []string{shell.Tasks.String(), shell.HealthLog.String(), shell.Calendar.String()}
}

func fieldNames(id shell.AppID) []string {
	switch id {
	case shell.Tasks:
		return tasks.FieldNames
	case shell.HealthLog:
		return healthlog.FieldNames
	case shell.Calendar:
		return calendar.FieldNames
	default:
		return nil
	}
}

// loadStore reloads the store of id. Files that exist but cannot be read
// are an error; a missing file is an empty store.
func loadStore(o *IO, sh *shell.Shell, id shell.AppID) (*store.Store, error) {
	st, ok := sh.Store(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errStoreNotFound, id)
	}

	report := st.Reload()
	if !report.Available && !report.Missing {
		return nil, fmt.Errorf("%w: %s", store.ErrUnavailable, st.Path())
	}

	if report.Dropped > 0 {
		o.Warn(fmt.Sprintf("%d malformed line(s) skipped in %s", report.Dropped, st.Path()),
			"they are removed on the next change to this file")
	}

	return st, nil
}
