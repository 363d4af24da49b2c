package core

import (
	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/weave/core/invariant"
)

// digest is a fixed-size dedup key for an interned string. Using a blake2b-256
// digest instead of the raw string as the map key bounds memory for long
// dialogue lines while keeping collisions astronomically unlikely.
type digest [32]byte

// StringTable is a growable, ordered sequence of strings indexed by StringId.
// New insertions return a fresh id; duplicate source strings are deduplicated
// so repeated text (the same choice text reused across sections, the same
// variable name referenced a thousand times) costs one id. Ids are stable:
// once handed out, a StringId always resolves to the same string for the
// lifetime of the table.
type StringTable struct {
	values []string
	byHash map[digest]StringId
}

// NewStringTable creates an empty string table.
func NewStringTable() *StringTable {
	return &StringTable{
		byHash: make(map[digest]StringId),
	}
}

// Intern returns the StringId for s, reusing an existing id if s was already
// interned.
func (t *StringTable) Intern(s string) StringId {
	h := blake2b.Sum256([]byte(s))
	if id, ok := t.byHash[h]; ok {
		invariant.Invariant(t.values[id] == s, "digest collision interning %q", s)
		return id
	}
	id := StringId(len(t.values))
	t.values = append(t.values, s)
	t.byHash[h] = id
	return id
}

// Lookup returns the string for id. Panics if id is out of range: a valid
// Database never holds a StringId it did not itself intern.
func (t *StringTable) Lookup(id StringId) string {
	invariant.InRange(int(id), 0, len(t.values)-1, "StringId")
	return t.values[id]
}

// Len returns the number of distinct interned strings.
func (t *StringTable) Len() int {
	return len(t.values)
}

// Strings returns the table's contents in id order. The caller must not
// mutate the returned slice.
func (t *StringTable) Strings() []string {
	return t.values
}
