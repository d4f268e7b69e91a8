package testutil

import "strings"

// OpKind is a store operation.
type OpKind int

// Store operations.
const (
	OpAppend OpKind = iota
	OpDelete
	OpEdit
	OpReload
	OpRewrite
)

func (k OpKind) String() string {
	switch k {
	case OpAppend:
		return "append"
	case OpDelete:
		return "delete"
	case OpEdit:
		return "edit"
	case OpReload:
		return "reload"
	default:
		return "rewrite"
	}
}

// Op is one generated store operation. Which fields are meaningful
// depends on Kind.
type Op struct {
	Kind   OpKind
	Fields []string // OpAppend
	Index  int      // OpDelete, OpEdit
	Field  int      // OpEdit
	Value  string   // OpEdit
}

// OpGenConfig configures the operation mix. Rates are percentages; what is
// left over after the listed rates goes to rewrites.
type OpGenConfig struct {
	AppendRate int
	DeleteRate int
	EditRate   int
	ReloadRate int

	// InvalidIndexRate is the share of indexes chosen out of range.
	InvalidIndexRate int

	// DelimiterRate is the share of values that contain the field delimiter.
	DelimiterRate int
}

// DefaultOpGenConfig returns a balanced mix.
func DefaultOpGenConfig() OpGenConfig {
	return OpGenConfig{
		AppendRate:       40,
		DeleteRate:       15,
		EditRate:         25,
		ReloadRate:       10,
		InvalidIndexRate: 10,
		DelimiterRate:    5,
	}
}

// OpGenerator turns fuzz bytes into store operations over records with a
// fixed field count.
type OpGenerator struct {
	stream *ByteStream
	config OpGenConfig
	arity  int
}

// NewOpGenerator creates a generator for records of arity fields.
func NewOpGenerator(fuzzBytes []byte, arity int, cfg *OpGenConfig) *OpGenerator {
	return &OpGenerator{
		stream: NewByteStream(fuzzBytes),
		config: *cfg,
		arity:  arity,
	}
}

// HasMore reports whether more operations can be generated.
func (g *OpGenerator) HasMore() bool {
	return g.stream.HasMore()
}

// Next returns an operation against a store currently holding size records.
func (g *OpGenerator) Next(size int) Op {
	roll := g.stream.NextInt(100)
	c := g.config

	switch {
	case roll < c.AppendRate:
		fields := make([]string, g.arity)
		for i := range fields {
			fields[i] = g.value()
		}

		return Op{Kind: OpAppend, Fields: fields}
	case roll < c.AppendRate+c.DeleteRate:
		return Op{Kind: OpDelete, Index: g.index(size)}
	case roll < c.AppendRate+c.DeleteRate+c.EditRate:
		return Op{Kind: OpEdit, Index: g.index(size), Field: g.stream.NextInt(g.arity), Value: g.value()}
	case roll < c.AppendRate+c.DeleteRate+c.EditRate+c.ReloadRate:
		return Op{Kind: OpReload}
	default:
		return Op{Kind: OpRewrite}
	}
}

func (g *OpGenerator) index(size int) int {
	if size == 0 || g.stream.Percent(g.config.InvalidIndexRate) {
		if g.stream.NextBool() {
			return -1 - g.stream.NextInt(3)
		}

		return size + g.stream.NextInt(3)
	}

	return g.stream.NextInt(size)
}

// value is a short field value. Few distinct values so sort keys collide.
func (g *OpGenerator) value() string {
	v := g.stream.NextString(3)
	if g.stream.Percent(g.config.DelimiterRate) {
		return strings.Join([]string{v, v}, "|")
	}

	return v
}
