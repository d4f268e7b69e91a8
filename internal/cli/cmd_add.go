package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/andymcblane/EinkPDA/internal/calendar"
	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/config"
	"github.com/andymcblane/EinkPDA/internal/healthlog"
	"github.com/andymcblane/EinkPDA/internal/record"
	"github.com/andymcblane/EinkPDA/internal/shell"
	"github.com/andymcblane/EinkPDA/internal/tasks"
)

var (
	errFieldCount   = errors.New("wrong number of fields")
	errInvalidField = errors.New("invalid field")
)

// AddCmd returns the add command.
func AddCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "add <app> <field>...",
		Short: "Append a record",
		Long: `Append a record without the keypad. Fields are checked the way the
app's wizard checks them and may not contain '|'.

  add tasks <name> <due YYYYMMDD>
  add healthlog <type 1-7> [note]
  add calendar <name> <date YYYYMMDD> <time HHMM> [minutes] [repeat] [note]`,
		Group: GroupRecords,
		AppExec: func(_ context.Context, o *IO, id shell.AppID, fields []string) error {
			return execAdd(o, cfg, clock.System{}, id, fields)
		},
	}
}

func execAdd(o *IO, cfg *config.Config, c clock.Clock, id shell.AppID, fields []string) error {
	r, err := buildRecord(id, c, fields)
	if err != nil {
		return err
	}

	sess, err := openSession(cfg, sessionOptions{terminal: o.errOut, clock: c})
	if err != nil {
		return err
	}
	defer sess.Close()

	st, err := loadStore(o, sess.shell, id)
	if err != nil {
		return err
	}

	if err := st.Append(r); err != nil {
		return err
	}

	o.Println(st.Schema().Codec.Encode(r))

	return nil
}

func buildRecord(id shell.AppID, c clock.Clock, fields []string) (record.Record, error) {
	switch id {
	case shell.Tasks:
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: tasks takes <name> <due>", errFieldCount)
		}

		if fields[0] == "" {
			return nil, fmt.Errorf("%w: name is empty", errInvalidField)
		}

		if _, ok := tasks.CheckDate(fields[1]); !ok {
			return nil, fmt.Errorf("%w: due date %q", errInvalidField, fields[1])
		}

		return tasks.New(fields[0], fields[1]), nil
	case shell.HealthLog:
		if len(fields) < 1 || len(fields) > 2 {
			return nil, fmt.Errorf("%w: healthlog takes <type> [note]", errFieldCount)
		}

		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: type %q", errInvalidField, fields[0])
		}

		note := ""
		if len(fields) == 2 {
			note = fields[1]
		}

		r, ok := healthlog.New(n, c, note)
		if !ok {
			return nil, fmt.Errorf("%w: type %d (want 1-7)", errInvalidField, n)
		}

		return r, nil
	case shell.Calendar:
		return buildEvent(fields)
	default:
		return nil, fmt.Errorf("%w: %s", errNotRecordApp, id)
	}
}

func buildEvent(fields []string) (record.Record, error) {
	if len(fields) < 3 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: calendar takes <name> <date> <time> [minutes] [repeat] [note]", errFieldCount)
	}

	r := make(record.Record, len(calendar.FieldNames))
	copy(r, fields)

	if r[calendar.FieldName] == "" {
		return nil, fmt.Errorf("%w: name is empty", errInvalidField)
	}

	checks := []struct {
		field int
		check func(string) (string, bool)
	}{
		{calendar.FieldDate, func(s string) (string, bool) { return s, clock.ValidDate(s) }},
		{calendar.FieldTime, calendar.CheckTime},
		{calendar.FieldDuration, calendar.CheckDuration},
		{calendar.FieldRepeat, calendar.CheckRepeat},
	}

	for _, c := range checks {
		v, ok := c.check(r[c.field])
		if !ok {
			return nil, fmt.Errorf("%w: %s %q", errInvalidField, calendar.FieldNames[c.field], r[c.field])
		}

		r[c.field] = v
	}

	return r, nil
}
