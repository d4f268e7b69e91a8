package keys

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadToken is returned by ParseTokens for an unknown <name>.
var ErrBadToken = errors.New("unknown key token")

var tokenKeys = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+2)
	for k, name := range keyNames {
		m[name] = k
	}

	m["backspace"] = KeyBackspace
	m["space"] = KeySpace
	m["lt"] = '<'

	return m
}()

// ParseTokens turns a line such as "nBuy milk<enter>" into keys.
// Literal characters map to themselves; <name> maps to a control key.
func ParseTokens(s string) ([]Key, error) {
	var out []Key

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '<' {
			out = append(out, Key(c))

			continue
		}

		end := strings.IndexByte(s[i:], '>')
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated %q", ErrBadToken, s[i:])
		}

		name := strings.ToLower(s[i+1 : i+end])

		k, ok := tokenKeys[name]
		if !ok {
			return nil, fmt.Errorf("%w: <%s>", ErrBadToken, name)
		}

		out = append(out, k)
		i += end
	}

	return out, nil
}

// Queue is a [Source] fed from a slice, one key per poll.
type Queue struct {
	keys []Key
}

// NewQueue returns a queue holding ks.
func NewQueue(ks ...Key) *Queue {
	return &Queue{keys: append([]Key(nil), ks...)}
}

// Push appends keys.
func (q *Queue) Push(ks ...Key) { q.keys = append(q.keys, ks...) }

// Len returns the number of pending keys.
func (q *Queue) Len() int { return len(q.keys) }

// Poll pops the next key, or KeyNone when empty.
func (q *Queue) Poll(Mode) Key {
	if len(q.keys) == 0 {
		return KeyNone
	}

	k := q.keys[0]
	q.keys = q.keys[1:]

	return k
}
