// Package record encodes fixed-arity records as single delimited text lines.
//
// A line looks like "Buy milk|20250120|0|0". There is no escaping: a field
// must never contain the delimiter. Decode is lenient (the last field keeps
// any extra delimiters), Encode is strict about arity only, and Validate is
// the gate callers use before anything is written.
package record

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates fields on a line.
const Delimiter = '|'

var (
	// ErrMalformed is returned by Decode for lines with too few fields.
	ErrMalformed = errors.New("malformed record line")
	// ErrArity is returned by Validate when the field count is wrong.
	ErrArity = errors.New("wrong number of fields")
	// ErrDelimiter is returned by Validate when a field contains the delimiter.
	ErrDelimiter = errors.New("field contains delimiter")
	// ErrNewline is returned by Validate when a field contains a line break.
	ErrNewline = errors.New("field contains line break")
)

// Record is an ordered list of text fields.
type Record []string

// Clone returns a copy that shares no backing array with r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}

	out := make(Record, len(r))
	copy(out, r)

	return out
}

// Equal reports whether r and other hold the same fields.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}

	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}

	return true
}

// Field returns field i, or "" when i is out of range.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}

	return r[i]
}

// Codec converts between records of a fixed arity and lines.
type Codec struct {
	Arity int
}

// NewCodec returns a codec for records with arity fields.
func NewCodec(arity int) Codec {
	return Codec{Arity: arity}
}

// Decode splits line into exactly Arity fields.
//
// A trailing carriage return is stripped. Lines with fewer than Arity-1
// delimiters are rejected with [ErrMalformed]; any delimiters beyond that
// stay in the last field.
func (c Codec) Decode(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")

	if c.Arity <= 0 {
		return nil, fmt.Errorf("%w: codec arity %d", ErrMalformed, c.Arity)
	}

	parts := strings.SplitN(line, string(Delimiter), c.Arity)
	if len(parts) < c.Arity {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrMalformed, c.Arity, len(parts))
	}

	return Record(parts), nil
}

// Encode joins the fields with the delimiter. It does not check the
// fields; call Validate first.
func (c Codec) Encode(r Record) string {
	return strings.Join(r, string(Delimiter))
}

// Validate checks that r can be encoded and decoded back unchanged.
func (c Codec) Validate(r Record) error {
	if len(r) != c.Arity {
		return fmt.Errorf("%w: want %d, got %d", ErrArity, c.Arity, len(r))
	}

	for i, f := range r {
		if strings.ContainsRune(f, Delimiter) {
			return fmt.Errorf("%w: field %d %q", ErrDelimiter, i, f)
		}

		if strings.ContainsAny(f, "\r\n") {
			return fmt.Errorf("%w: field %d", ErrNewline, i)
		}
	}

	return nil
}

// Sanitize returns value with delimiters and line breaks removed.
func Sanitize(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case Delimiter, '\r', '\n':
			return -1
		}

		return r
	}, value)
}
