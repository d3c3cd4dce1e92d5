// Package pio defines the in-memory document model of a parameter
// archive: a tree of lists, objects and typed leaf parameters keyed by
// 32-bit name hashes.
//
// The binary form never stores names, only their CRC-32 digests, so every
// key in this model is a hash. Insertion order of every mapping is
// preserved and is significant: both the canonical binary layout and the
// text form follow it.
//
// A tree exclusively owns its descendants. Decoders allocate one tree per
// call; trees built by hand are mutated only through the Set* methods on
// their mappings.
package pio

import (
	"github.com/arloliu/parc/internal/hash"
)

// RootKey is the hash of "param_root", the well-known key of the synthetic
// root list that wraps every document's top-level contents in the binary
// form.
const RootKey uint32 = 0xA4F6CB6C

// Object is an ordered set of named parameters.
type Object struct {
	Params OrderedMap[Parameter]
}

// Param returns the parameter stored under the hash of name.
func (o *Object) Param(name string) (Parameter, bool) {
	return o.Params.Get(hash.ID(name))
}

// SetParam inserts or replaces the parameter stored under the hash of name.
func (o *Object) SetParam(name string, p Parameter) {
	o.Params.Set(hash.ID(name), p)
}

// Equal reports whether two objects hold equal parameters under the same
// keys in the same order.
func (o *Object) Equal(other *Object) bool {
	if o.Params.Len() != other.Params.Len() {
		return false
	}
	for i := 0; i < o.Params.Len(); i++ {
		k1, v1 := o.Params.At(i)
		k2, v2 := other.Params.At(i)
		if k1 != k2 || !v1.Equal(v2) {
			return false
		}
	}

	return true
}

// List is an ordered set of named child lists and named child objects.
type List struct {
	Lists   OrderedMap[List]
	Objects OrderedMap[Object]
}

// List returns the child list stored under the hash of name.
func (l *List) List(name string) (List, bool) {
	return l.Lists.Get(hash.ID(name))
}

// Object returns the child object stored under the hash of name.
func (l *List) Object(name string) (Object, bool) {
	return l.Objects.Get(hash.ID(name))
}

// SetList inserts or replaces the child list stored under the hash of name.
func (l *List) SetList(name string, child List) {
	l.Lists.Set(hash.ID(name), child)
}

// SetObject inserts or replaces the child object stored under the hash of name.
func (l *List) SetObject(name string, obj Object) {
	l.Objects.Set(hash.ID(name), obj)
}

// Equal reports whether two lists hold equal children under the same keys
// in the same order.
func (l *List) Equal(other *List) bool {
	if l.Lists.Len() != other.Lists.Len() || l.Objects.Len() != other.Objects.Len() {
		return false
	}
	for i := 0; i < l.Objects.Len(); i++ {
		k1, v1 := l.Objects.At(i)
		k2, v2 := other.Objects.At(i)
		if k1 != k2 || !v1.Equal(&v2) {
			return false
		}
	}
	for i := 0; i < l.Lists.Len(); i++ {
		k1, v1 := l.Lists.At(i)
		k2, v2 := other.Lists.At(i)
		if k1 != k2 || !v1.Equal(&v2) {
			return false
		}
	}

	return true
}

// ParameterIO is the root container of a parameter archive document:
// format metadata plus the contents of the implicit root list.
type ParameterIO struct {
	// Version is the document version carried in the header. It is
	// informational and has no effect on layout.
	Version uint32
	// Type is the free-form document type string, e.g. "xml".
	Type string
	// Root holds the top-level lists and objects. In the binary form they
	// are always wrapped in one synthetic root list keyed by RootKey.
	Root List
}

// List returns the top-level list stored under the hash of name.
func (p *ParameterIO) List(name string) (List, bool) {
	return p.Root.List(name)
}

// Object returns the top-level object stored under the hash of name.
func (p *ParameterIO) Object(name string) (Object, bool) {
	return p.Root.Object(name)
}

// Equal reports whether two documents have identical metadata and
// content-equal trees.
func (p *ParameterIO) Equal(other *ParameterIO) bool {
	return p.Version == other.Version &&
		p.Type == other.Type &&
		p.Root.Equal(&other.Root)
}
