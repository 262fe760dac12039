package tree

import "slices"

// Map is an insertion-ordered mapping from string keys to values.
// The zero value is not usable; create maps with NewMap.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position.
func (m *Map) Set(key string, v Value) *Map {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// Delete removes key, reporting whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return true
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Lookup follows a path of nested mapping keys.
func (m *Map) Lookup(path ...string) (Value, bool) {
	cur := Mapping(m)
	for _, key := range path {
		sub, ok := cur.Map()
		if !ok {
			return Value{}, false
		}
		cur, ok = sub.Get(key)
		if !ok {
			return Value{}, false
		}
	}
	return cur, true
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	out.keys = slices.Clone(m.keys)
	for k, v := range m.values {
		out.values[k] = v.Clone()
	}
	return out
}

// Equal reports whether both maps hold equal entries in the same order.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	for i, k := range m.keys {
		if o.keys[i] != k {
			return false
		}
		if !m.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// Interface converts m to a map[string]any.
func (m *Map) Interface() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(k string, v Value) bool {
		out[k] = v.Interface()
		return true
	})
	return out
}
