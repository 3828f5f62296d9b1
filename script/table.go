// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package script

// Table stores entities of one kind by Handle, with an additional
// name-index enforcing that names within an entity kind are globally
// unique within a Script.
//
// A Script is built by a single-threaded, synchronous parser, so this
// carries no mutex and no epoch-based reuse — see DESIGN.md for the
// tradeoff.
type Table[T any, M Marker] struct {
	items  []T
	byName map[string]Handle[M]
}

// NewTable creates an empty table.
func NewTable[T any, M Marker]() *Table[T, M] {
	return &Table[T, M]{byName: make(map[string]Handle[M])}
}

// Insert appends item under name, returning its Handle. ok is false if
// name is already taken, in which case the table is unchanged.
func (t *Table[T, M]) Insert(name string, item T) (Handle[M], bool) {
	if _, exists := t.byName[name]; exists {
		return Handle[M]{}, false
	}
	t.items = append(t.items, item)
	//nolint:gosec // table length is bounded by script size, never near 2^32
	h := newHandle[M](uint32(len(t.items)))
	t.byName[name] = h
	return h, true
}

// Get retrieves an item by Handle.
func (t *Table[T, M]) Get(h Handle[M]) (T, bool) {
	if h.IsZero() || int(h.index) > len(t.items) {
		var zero T
		return zero, false
	}
	return t.items[h.index-1], true
}

// GetMut retrieves a pointer to the item for in-place mutation while its
// declaring block is still open.
func (t *Table[T, M]) GetMut(h Handle[M]) (*T, bool) {
	if h.IsZero() || int(h.index) > len(t.items) {
		return nil, false
	}
	return &t.items[h.index-1], true
}

// Lookup resolves a Handle by declared name.
func (t *Table[T, M]) Lookup(name string) (Handle[M], bool) {
	h, ok := t.byName[name]
	return h, ok
}

// Contains reports whether name has already been declared.
func (t *Table[T, M]) Contains(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Len returns the number of entities in the table.
func (t *Table[T, M]) Len() int { return len(t.items) }

// ForEach iterates entities in declaration order.
func (t *Table[T, M]) ForEach(fn func(Handle[M], *T)) {
	for i := range t.items {
		//nolint:gosec // table length is bounded by script size, never near 2^32
		fn(newHandle[M](uint32(i+1)), &t.items[i])
	}
}

// All returns a slice of all entities in declaration order. The slice
// shares storage with the table and must not be retained past further
// mutation.
func (t *Table[T, M]) All() []T { return t.items }
