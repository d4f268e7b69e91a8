// Package testutil derives deterministic test inputs from fuzz bytes.
package testutil

import "github.com/andymcblane/EinkPDA/internal/keys"

// ByteStream reads bytes sequentially from a byte slice.
//
// When the stream is exhausted every read returns a zero value, so the same
// input always produces the same sequence of values.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over b.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextInt returns a value in [0, maxVal).
func (s *ByteStream) NextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}

	return int(s.NextByte()) % maxVal
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// Percent reports whether the next byte falls under rate percent.
func (s *ByteStream) Percent(rate int) bool {
	return s.NextInt(100) < rate
}

// NextString returns 1..maxLen lowercase letters.
func (s *ByteStream) NextString(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	b := make([]byte, 1+s.NextInt(maxLen))
	for i := range b {
		b[i] = 'a' + s.NextByte()%26
	}

	return string(b)
}

// NextDigits returns exactly n decimal digits.
func (s *ByteStream) NextDigits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0' + s.NextByte()%10
	}

	return string(b)
}

var special = []keys.Key{
	keys.KeyEnter, keys.KeyBackspace, keys.KeyDelete, keys.KeyHome,
	keys.KeyShift, keys.KeyFn, keys.KeyClear, keys.KeySpace, '|',
}

// NextKey returns a key a user could press. Printable bytes are typed as
// themselves; every other byte picks a control key.
func (s *ByteStream) NextKey() keys.Key {
	b := s.NextByte()
	if k := keys.Key(b); k.IsPrintable() {
		return k
	}

	return special[int(b)%len(special)]
}
