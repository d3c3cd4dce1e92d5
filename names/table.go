// Package names provides best-effort recovery of human-readable names for
// the 32-bit hash keys of a parameter archive.
//
// A Table holds an exact hash-to-name mapping populated from a bundled
// stock dictionary, from string values observed during decoding, and from
// keys seen in the text form. When the exact table misses, Guess derives
// candidate names from the enclosing container's name and the key's
// sibling index, falling back to a dictionary of numbered name templates.
//
// A Table is safe for concurrent use; all accesses are serialized by an
// internal mutex. Later lookups observe earlier additions.
package names

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/arloliu/parc/internal/hash"
)

//go:embed data/stock_names.txt
var stockNames string

//go:embed data/numbered_names.txt
var numberedNames string

// Table is an exact hash-to-name registry plus the heuristic name guesser.
type Table struct {
	mu    sync.Mutex
	names map[uint32]string
}

// NewTable creates a name table. When includeStock is true the table is
// seeded with the bundled stock dictionary.
func NewTable(includeStock bool) *Table {
	t := &Table{names: make(map[uint32]string)}
	if includeStock {
		for _, name := range strings.Split(stockNames, "\n") {
			if name == "" {
				continue
			}
			t.names[hash.ID(name)] = name
		}
	}

	return t
}

var defaultTable = sync.OnceValue(func() *Table {
	return NewTable(true)
})

// Default returns the shared stock-seeded table. The table is built on
// first use and is shared by every caller that does not construct its own.
func Default() *Table {
	return defaultTable()
}

// Add computes the hash of name and records the pair in the exact table.
// Adding an existing hash overwrites its name.
func (t *Table) Add(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.names[hash.ID(name)] = name
}

// Lookup returns the exact-table name for the given hash. A miss is an
// ordinary result, not an error.
func (t *Table) Lookup(key uint32) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name, ok := t.names[key]

	return name, ok
}

// Len returns the number of entries in the exact table.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.names)
}
