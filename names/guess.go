package names

import (
	"fmt"
	"strings"

	"github.com/arloliu/parc/internal/hash"
)

// suffixes tried when the parent name looks like a plural or a list
// container: the suffix is stripped and the remainder used as the child
// base name, e.g. "Lists" -> "List3".
var childSuffixes = []string{"s", "es", "List"}

// Guess tries to reconstruct the name behind key given the hash of its
// enclosing container and its sibling index. It is used only after Lookup
// misses.
//
// The result is a pure function of (key, parentKey, index, current table
// contents); Add calls made afterwards can change future results.
//
// The search order is:
//  1. resolve the parent name and try "{parent}{i}" style candidates for
//     i in {index, index+1} (the indexing convention of hand-authored
//     archives is inconsistent, so both are tried),
//  2. if the parent is "Children", retry with base "Child",
//  3. if the parent ends in "s", "es" or "List", retry with that suffix
//     stripped,
//  4. scan the numbered-name template dictionary across indices
//     0..index+1.
func (t *Table) Guess(key, parentKey uint32, index int) (string, bool) {
	t.mu.Lock()
	parent, ok := t.names[parentKey]
	t.mu.Unlock()

	if ok {
		if name, found := matchIndexed(key, parent, index); found {
			return name, true
		}
		if parent == "Children" {
			if name, found := matchIndexed(key, "Child", index); found {
				return name, true
			}
		}
		for _, suffix := range childSuffixes {
			if strings.HasSuffix(parent, suffix) {
				base := parent[:len(parent)-len(suffix)]
				if name, found := matchIndexed(key, base, index); found {
					return name, true
				}
			}
		}
	}

	return guessNumbered(key, index)
}

// matchIndexed hashes the six "{base}{i}" candidate spellings for
// i in {index, index+1} and returns the first that matches key.
func matchIndexed(key uint32, base string, index int) (string, bool) {
	for i := index; i <= index+1; i++ {
		for _, name := range indexedCandidates(base, i) {
			if hash.ID(name) == key {
				return name, true
			}
		}
	}

	return "", false
}

func indexedCandidates(base string, i int) [6]string {
	return [6]string{
		fmt.Sprintf("%s%d", base, i),
		fmt.Sprintf("%s_%d", base, i),
		fmt.Sprintf("%s%02d", base, i),
		fmt.Sprintf("%s_%02d", base, i),
		fmt.Sprintf("%s%03d", base, i),
		fmt.Sprintf("%s_%03d", base, i),
	}
}

// guessNumbered scans the numbered-name template dictionary, substituting
// indices 0..index+1 into each template's placeholder, and returns the
// first spelling whose hash matches key.
func guessNumbered(key uint32, index int) (string, bool) {
	for _, tmpl := range strings.Split(numberedNames, "\n") {
		if tmpl == "" {
			continue
		}
		for i := 0; i <= index+1; i++ {
			name := expandTemplate(tmpl, i)
			if hash.ID(name) == key {
				return name, true
			}
		}
	}

	return "", false
}

// expandTemplate substitutes i into a template's placeholders: "{}" for
// unpadded, "{:02}"/"{:03}"/"{:04}" for zero-padded widths.
func expandTemplate(tmpl string, i int) string {
	name := tmpl
	name = strings.ReplaceAll(name, "{}", fmt.Sprintf("%d", i))
	name = strings.ReplaceAll(name, "{:02}", fmt.Sprintf("%02d", i))
	name = strings.ReplaceAll(name, "{:03}", fmt.Sprintf("%03d", i))
	name = strings.ReplaceAll(name, "{:04}", fmt.Sprintf("%04d", i))

	return name
}
