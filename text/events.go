// Package text implements the tag-typed text codec of parameter archives:
// a constrained YAML-like notation that round-trips losslessly with the
// pio document model.
//
// Only the subset grammar of this format is supported; general YAML
// compliance is not a goal. The decoder flattens the parsed node tree
// into a stream of structural events drained by an explicit state
// machine, so that the intrinsically ambiguous mapping-end event is
// always disambiguated from a typed context stack.
package text

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/parc/errs"
)

type eventKind uint8

const (
	eventScalar eventKind = iota
	eventMappingStart
	eventMappingEnd
	eventSequenceStart
	eventSequenceEnd
)

func (k eventKind) String() string {
	switch k {
	case eventScalar:
		return "scalar"
	case eventMappingStart:
		return "mapping start"
	case eventMappingEnd:
		return "mapping end"
	case eventSequenceStart:
		return "sequence start"
	case eventSequenceEnd:
		return "sequence end"
	default:
		return "unknown"
	}
}

// event is one structural event of the text form. Tags are either
// explicit ("!io", "!list", "!obj", "!u", ...) or the resolver's implicit
// tags ("!!int", "!!float", "!!bool", "!!str", "!!null") for untagged
// scalars.
type event struct {
	kind   eventKind
	tag    string
	value  string
	quoted bool
	line   int
	column int
}

// flattenDocument converts a parsed document node into the flat event
// stream consumed by the decoder's state machine.
func flattenDocument(doc *yaml.Node) ([]event, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%w: expected a single document", errs.ErrTextSyntax)
	}

	return flattenNode(doc.Content[0], nil)
}

func flattenNode(n *yaml.Node, evs []event) ([]event, error) {
	switch n.Kind {
	case yaml.MappingNode:
		evs = append(evs, event{
			kind: eventMappingStart, tag: explicitTag(n),
			line: n.Line, column: n.Column,
		})
		for _, child := range n.Content {
			var err error
			evs, err = flattenNode(child, evs)
			if err != nil {
				return nil, err
			}
		}
		evs = append(evs, event{kind: eventMappingEnd, line: n.Line, column: n.Column})

		return evs, nil

	case yaml.SequenceNode:
		evs = append(evs, event{
			kind: eventSequenceStart, tag: explicitTag(n),
			line: n.Line, column: n.Column,
		})
		for _, child := range n.Content {
			var err error
			evs, err = flattenNode(child, evs)
			if err != nil {
				return nil, err
			}
		}
		evs = append(evs, event{kind: eventSequenceEnd, line: n.Line, column: n.Column})

		return evs, nil

	case yaml.ScalarNode:
		evs = append(evs, event{
			kind:   eventScalar,
			tag:    n.Tag,
			value:  n.Value,
			quoted: n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0,
			line:   n.Line,
			column: n.Column,
		})

		return evs, nil

	default:
		return nil, fmt.Errorf("%w: unsupported node kind at line %d, column %d", errs.ErrTextSyntax, n.Line, n.Column)
	}
}

// explicitTag returns the node's tag if it is an application tag ("!x"),
// and the empty string for implicit collection tags ("!!map", "!!seq").
func explicitTag(n *yaml.Node) string {
	if len(n.Tag) >= 2 && n.Tag[0] == '!' && n.Tag[1] != '!' {
		return n.Tag
	}

	return ""
}
