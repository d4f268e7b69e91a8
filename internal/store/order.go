package store

import (
	"slices"
	"strings"

	"github.com/andymcblane/EinkPDA/internal/record"
)

// Ascending orders by the given fields, compared as strings, first field first.
func Ascending(fields ...int) func(a, b record.Record) bool {
	return func(a, b record.Record) bool {
		return compareFields(a, b, fields) < 0
	}
}

// Descending orders by the given fields, largest first.
func Descending(fields ...int) func(a, b record.Record) bool {
	return func(a, b record.Record) bool {
		return compareFields(a, b, fields) > 0
	}
}

func compareFields(a, b record.Record, fields []int) int {
	for _, f := range fields {
		if c := strings.Compare(a.Field(f), b.Field(f)); c != 0 {
			return c
		}
	}

	return 0
}

// IsSorted reports whether recs respect less for every adjacent pair.
func IsSorted(recs []record.Record, less func(a, b record.Record) bool) bool {
	for i := 1; i < len(recs); i++ {
		if less(recs[i], recs[i-1]) {
			return false
		}
	}

	return true
}

func (s *Store) sort() {
	if s.schema.Less == nil {
		return
	}

	slices.SortStableFunc(s.records, s.cmp)
}

// sortTracking re-sorts and returns the new position of record i.
func (s *Store) sortTracking(i int) int {
	if s.schema.Less == nil {
		return i
	}

	type tagged struct {
		rec  record.Record
		orig int
	}

	tmp := make([]tagged, len(s.records))
	for j, r := range s.records {
		tmp[j] = tagged{rec: r, orig: j}
	}

	slices.SortStableFunc(tmp, func(a, b tagged) int { return s.cmp(a.rec, b.rec) })

	moved := i

	for j, t := range tmp {
		s.records[j] = t.rec
		if t.orig == i {
			moved = j
		}
	}

	return moved
}

func (s *Store) cmp(a, b record.Record) int {
	switch {
	case s.schema.Less(a, b):
		return -1
	case s.schema.Less(b, a):
		return 1
	default:
		return 0
	}
}
