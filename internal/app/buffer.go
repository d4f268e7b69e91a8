package app

import (
	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/record"
)

// Buffer is a single-line text entry.
type Buffer struct {
	text []byte
}

// NewBuffer returns a buffer seeded with s.
func NewBuffer(s string) Buffer {
	return Buffer{text: []byte(s)}
}

// Apply edits the buffer for k and reports whether k was an editing key.
//
// Printable keys append, erase keys drop the last character and the clear
// key empties the buffer. The record delimiter is refused so whatever is
// typed can always be stored.
func (b *Buffer) Apply(k keys.Key) bool {
	switch {
	case k == record.Delimiter:
		return true
	case k.IsPrintable():
		b.text = append(b.text, byte(k))
	case k.IsErase():
		if len(b.text) > 0 {
			b.text = b.text[:len(b.text)-1]
		}
	case k == keys.KeyClear:
		b.text = b.text[:0]
	default:
		return false
	}

	return true
}

// Reset empties the buffer.
func (b *Buffer) Reset() { b.text = b.text[:0] }

func (b Buffer) String() string { return string(b.text) }

// Len returns the number of characters.
func (b Buffer) Len() int { return len(b.text) }
