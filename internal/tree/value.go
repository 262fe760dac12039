package tree

import (
	"fmt"
	"slices"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindSeq
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single node of a configuration tree. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	flag bool
	seq  []Value
	m    *Map
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Seq returns a sequence value holding items.
func Seq(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSeq, seq: items}
}

// Strings returns a sequence of string values.
func Strings(items ...string) Value {
	seq := make([]Value, 0, len(items))
	for _, s := range items {
		seq = append(seq, String(s))
	}
	return Value{kind: KindSeq, seq: seq}
}

// Mapping wraps m as a value. A nil map becomes an empty mapping.
func Mapping(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// IntValue returns the integer held by v.
func (v Value) IntValue() (int64, bool) { return v.num, v.kind == KindInt }

// FloatValue returns the float held by v.
func (v Value) FloatValue() (float64, bool) { return v.flt, v.kind == KindFloat }

// BoolValue returns the boolean held by v.
func (v Value) BoolValue() (bool, bool) { return v.flag, v.kind == KindBool }

// Items returns the items of a sequence. The slice must not be modified.
func (v Value) Items() ([]Value, bool) { return v.seq, v.kind == KindSeq }

// Map returns the mapping held by v.
func (v Value) Map() (*Map, bool) { return v.m, v.kind == KindMap }

// StringItems returns the string items of a sequence, skipping other kinds.
func (v Value) StringItems() []string {
	if v.kind != KindSeq {
		return nil
	}
	out := make([]string, 0, len(v.seq))
	for _, item := range v.seq {
		if s, ok := item.Str(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindSeq:
		seq := make([]Value, len(v.seq))
		for i, item := range v.seq {
			seq[i] = item.Clone()
		}
		return Value{kind: KindSeq, seq: seq}
	case KindMap:
		return Value{kind: KindMap, m: v.m.Clone()}
	case KindNull, KindString, KindInt, KindFloat, KindBool:
		return v
	}
	return v
}

// Equal reports deep equality. Mapping order is significant because it is
// what gets serialized.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt
	case KindBool:
		return v.flag == o.flag
	case KindSeq:
		return slices.EqualFunc(v.seq, o.seq, Value.Equal)
	case KindMap:
		return v.m.Equal(o.m)
	}
	return false
}

// Interface converts v to plain Go values (map[string]any, []any, ...).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.flag
	case KindSeq:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		return v.m.Interface()
	case KindNull:
		return nil
	}
	return nil
}
