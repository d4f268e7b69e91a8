// Package store keeps an ordered in-memory list of records mirrored to one
// flat file, one record per line.
//
// Reads are lenient: lines that do not decode are dropped. Writes are strict
// and always rewrite the whole file from memory, so after every structural
// change the file is an exact projection of the in-memory sequence.
//
// A Store is not safe for concurrent use. Each operation holds the backing
// file's lock for its duration.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andymcblane/EinkPDA/internal/fs"
	"github.com/andymcblane/EinkPDA/internal/record"
)

const (
	filePerms = 0o644
	dirPerms  = 0o755
)

var (
	// ErrUnavailable is returned when the backing file exists but cannot be read,
	// so a mutation would risk overwriting data it never saw.
	ErrUnavailable = errors.New("backing file unavailable")
	// ErrInvalidRecord is returned when a record fails codec validation.
	ErrInvalidRecord = errors.New("invalid record")
)

// Schema describes the records of one app.
type Schema struct {
	// Name identifies the app in logs.
	Name string
	// Codec fixes the field count.
	Codec record.Codec
	// Less orders records. Nil keeps file order.
	Less func(a, b record.Record) bool
	// NewFirst puts an appended record ahead of existing records that
	// compare equal to it. By default it goes after them.
	NewFirst bool
}

// LoadReport describes the outcome of [Store.Reload].
type LoadReport struct {
	// Available is false when the backing file could not be opened.
	// The store is then empty.
	Available bool
	// Missing is true when the file does not exist (a fresh device).
	Missing bool
	Loaded  int
	Dropped int
}

// Store is the in-memory mirror of one backing file.
type Store struct {
	fs      fs.FS
	path    string
	schema  Schema
	log     *slog.Logger
	records []record.Record
}

// New returns an empty store for path. Call [Store.Reload] to populate it.
func New(fsys fs.FS, path string, schema Schema, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{
		fs:     fsys,
		path:   path,
		schema: schema,
		log:    logger.With("store", schema.Name),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Schema returns the store's schema.
func (s *Store) Schema() Schema { return s.schema }

// Len returns the number of records in memory.
func (s *Store) Len() int { return len(s.records) }

// Valid reports whether i addresses a record.
func (s *Store) Valid(i int) bool { return i >= 0 && i < len(s.records) }

// At returns a copy of record i.
func (s *Store) At(i int) (record.Record, bool) {
	if !s.Valid(i) {
		return nil, false
	}

	return s.records[i].Clone(), true
}

// Records returns a copy of the in-memory sequence.
func (s *Store) Records() []record.Record {
	out := make([]record.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}

	return out
}

// Clear drops the in-memory records without touching the file.
func (s *Store) Clear() { s.records = nil }

// Reload replaces memory with the parsed, sorted contents of the backing file.
//
// If the file cannot be opened the store is left empty and the report says
// so; this is never an error for the caller.
func (s *Store) Reload() LoadReport {
	lock, err := s.fs.Lock(s.path)
	if err != nil {
		s.records = nil
		s.log.Warn("reload: lock failed, no data", "path", s.path, "error", err)

		return LoadReport{}
	}
	defer lock.Close()

	report, err := s.load()
	if err != nil {
		s.log.Warn("reload: no data", "path", s.path, "error", err)
	}

	return report
}

// Append reloads from disk, inserts r, re-sorts and rewrites the file.
//
// Reloading first keeps edits made by other components (the file manager,
// the CLI) that happened since the last reload.
func (s *Store) Append(r record.Record) error {
	if err := s.schema.Codec.Validate(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	lock, err := s.fs.Lock(s.path)
	if err != nil {
		return fmt.Errorf("append: lock %s: %w", s.path, err)
	}
	defer lock.Close()

	report, err := s.load()
	if !report.Available && !report.Missing {
		return fmt.Errorf("append: %w: %w", ErrUnavailable, err)
	}

	if s.schema.NewFirst {
		s.records = slices.Insert(s.records, 0, r.Clone())
	} else {
		s.records = append(s.records, r.Clone())
	}
	s.sort()

	return s.write()
}

// DeleteAt removes record i and rewrites the file.
// Out-of-range indexes are a no-op and nothing is written.
func (s *Store) DeleteAt(i int) error {
	if !s.Valid(i) {
		s.log.Debug("delete: index out of range", "index", i, "len", len(s.records))

		return nil
	}

	s.records = slices.Delete(s.records, i, i+1)

	return s.Rewrite()
}

// Rewrite replaces the backing file with every in-memory record.
func (s *Store) Rewrite() error {
	lock, err := s.fs.Lock(s.path)
	if err != nil {
		return fmt.Errorf("rewrite: lock %s: %w", s.path, err)
	}
	defer lock.Close()

	return s.write()
}

// EditField replaces one field of record i in memory.
//
// The change is not persisted; call [Store.Rewrite] afterwards. If the field
// takes part in ordering the record may move; the returned index is its new
// position. ok is false (and nothing changes) for an out-of-range record or
// field, or a value the codec could not write back.
func (s *Store) EditField(i, field int, value string) (int, bool) {
	if !s.Valid(i) || field < 0 || field >= len(s.records[i]) {
		return i, false
	}

	edited := s.records[i].Clone()
	edited[field] = value

	if err := s.schema.Codec.Validate(edited); err != nil {
		s.log.Info("edit rejected", "index", i, "field", field, "error", err)

		return i, false
	}

	s.records[i] = edited

	return s.sortTracking(i), true
}

// load reads the file into memory without locking.
func (s *Store) load() (LoadReport, error) {
	s.records = nil

	f, err := s.fs.Open(s.path)
	if err != nil {
		return LoadReport{Missing: errors.Is(err, os.ErrNotExist)}, err
	}
	defer f.Close()

	report := LoadReport{Available: true}
	reader := bufio.NewReader(f)
	lineNo := 0

	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			s.records = nil

			return LoadReport{}, fmt.Errorf("read %s: %w", s.path, readErr)
		}

		if line != "" {
			lineNo++
			s.decodeLine(&report, lineNo, strings.TrimSuffix(line, "\n"))
		}

		if readErr != nil {
			break
		}
	}

	s.sort()
	report.Loaded = len(s.records)

	return report, nil
}

// decodeLine keeps line as a record, or counts it as dropped.
// Blank lines are neither.
func (s *Store) decodeLine(report *LoadReport, lineNo int, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	rec, err := s.schema.Codec.Decode(line)
	if err != nil {
		report.Dropped++
		s.log.Debug("dropping malformed line", "path", s.path, "line", lineNo, "len", len(line), "error", err)

		return
	}

	s.records = append(s.records, rec)
}

// write serializes memory to the backing file without locking.
func (s *Store) write() error {
	var b strings.Builder

	for _, r := range s.records {
		b.WriteString(s.schema.Codec.Encode(r))
		b.WriteByte('\n')
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, dirPerms); err != nil {
			return fmt.Errorf("rewrite %s: %w", s.path, err)
		}
	}

	if err := s.fs.WriteFileAtomic(s.path, []byte(b.String()), filePerms); err != nil {
		return fmt.Errorf("rewrite %s: %w", s.path, err)
	}

	s.log.Debug("rewrote backing file", "path", s.path, "records", len(s.records))

	return nil
}
