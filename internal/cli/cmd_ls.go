package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/andymcblane/EinkPDA/internal/config"
	"github.com/andymcblane/EinkPDA/internal/record"
	"github.com/andymcblane/EinkPDA/internal/shell"
)

var errInvalidFormat = errors.New("invalid format (text|json|yaml)")

// LsCmd returns the ls command.
func LsCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.StringP("format", "f", "text", "Output format: text|json|yaml")

	return &Command{
		Flags: fs,
		Usage: "ls <app> [flags]",
		Short: "List an app's records",
		Long: `List an app's records in stored order.
Text output numbers records from 1, the positions rm takes.`,
		Group: GroupRecords,
		AppExec: func(_ context.Context, o *IO, id shell.AppID, _ []string) error {
			format, _ := fs.GetString("format")

			return execLs(o, cfg, format, id)
		},
	}
}

func execLs(o *IO, cfg *config.Config, format string, id shell.AppID) error {
	if format != "text" && format != "json" && format != "yaml" {
		return fmt.Errorf("%w: %s", errInvalidFormat, format)
	}

	sess, err := openSession(cfg, sessionOptions{terminal: o.errOut})
	if err != nil {
		return err
	}
	defer sess.Close()

	st, err := loadStore(o, sess.shell, id)
	if err != nil {
		return err
	}

	records := st.Records()

	switch format {
	case "json":
		data, err := json.MarshalIndent(asMaps(fieldNames(id), records), "", "  ")
		if err != nil {
			return err
		}

		o.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(asMaps(fieldNames(id), records))
		if err != nil {
			return err
		}

		o.Printf("%s", data)
	default:
		codec := st.Schema().Codec
		for i, r := range records {
			o.Printf("%3d  %s\n", i+1, codec.Encode(r))
		}
	}

	return nil
}

func asMaps(names []string, records []record.Record) []map[string]string {
	out := make([]map[string]string, 0, len(records))

	for _, r := range records {
		m := make(map[string]string, len(names))
		for i, name := range names {
			m[name] = r.Field(i)
		}

		out = append(out, m)
	}

	return out
}
