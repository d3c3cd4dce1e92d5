package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/parc/format"
	"github.com/arloliu/parc/names"
	"github.com/arloliu/parc/pio"
)

// Encode renders a document tree in the tag-typed text form. A nil table
// selects the shared stock table.
//
// Keys are rendered by hash resolution: an exact table hit wins, then a
// contextual guess from the enclosing key and sibling index, and as a
// last resort the raw hash is written as an unquoted decimal literal.
// Resolved names made up entirely of digits are double-quoted so they
// re-read as names rather than as raw hashes.
func Encode(doc *pio.ParameterIO, table *names.Table) ([]byte, error) {
	if table == nil {
		table = names.Default()
	}

	e := &encoder{table: table}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!io"}
	appendPair(root,
		plainKey("version"),
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(uint64(doc.Version), 10)})
	appendPair(root,
		plainKey("type"),
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: doc.Type})
	appendPair(root, plainKey("param_root"), e.listNode(&doc.Root, pio.RootKey))

	var out yaml.Node
	out.Kind = yaml.DocumentNode
	out.Content = []*yaml.Node{root}

	return yaml.Marshal(&out)
}

type encoder struct {
	table *names.Table
}

func (e *encoder) listNode(list *pio.List, key uint32) *yaml.Node {
	objects := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < list.Objects.Len(); i++ {
		childKey, _ := list.Objects.At(i)
		appendPair(objects, e.keyNode(childKey, key, i), e.objectNode(list.Objects.ValueAt(i), childKey))
	}

	lists := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < list.Lists.Len(); i++ {
		childKey, _ := list.Lists.At(i)
		appendPair(lists, e.keyNode(childKey, key, i), e.listNode(list.Lists.ValueAt(i), childKey))
	}

	// Empty maps render as {} so both sections are always present.
	if len(objects.Content) == 0 {
		objects.Style = yaml.FlowStyle
	}
	if len(lists.Content) == 0 {
		lists.Style = yaml.FlowStyle
	}

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!list"}
	appendPair(node, plainKey("objects"), objects)
	appendPair(node, plainKey("lists"), lists)

	return node
}

func (e *encoder) objectNode(obj *pio.Object, key uint32) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!obj"}
	if obj.Params.Len() == 0 {
		node.Style = yaml.FlowStyle
	}

	for i := 0; i < obj.Params.Len(); i++ {
		paramKey, param := obj.Params.At(i)
		appendPair(node, e.keyNode(paramKey, key, i), paramNode(param))
	}

	return node
}

// keyNode renders an object, list, or parameter key: table lookup first,
// then a guess from the enclosing container's key and sibling index, then
// the raw hash as a decimal literal. Guessed names are recorded so later
// siblings can build on them.
func (e *encoder) keyNode(key, parentKey uint32, index int) *yaml.Node {
	if name, ok := e.table.Lookup(key); ok {
		return nameKey(name)
	}

	if name, ok := e.table.Guess(key, parentKey, index); ok {
		e.table.Add(name)

		return nameKey(name)
	}

	return hashKey(key)
}

func paramNode(p pio.Parameter) *yaml.Node {
	switch p.Type() {
	case format.TypeBool:
		v := "false"
		if p.Bool() {
			v = "true"
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}

	case format.TypeF32:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatF32(p.F32())}

	case format.TypeInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(p.Int()), 10)}

	case format.TypeU32:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!u", Value: fmt.Sprintf("0x%X", p.U32())}

	case format.TypeVec2, format.TypeVec3, format.TypeVec4, format.TypeColor, format.TypeQuat:
		node := flowSeq(vecTag(p.Type()))
		for _, f := range p.Vec() {
			node.Content = append(node.Content, floatNode(f))
		}

		return node

	case format.TypeString32:
		return stringNode("!str32", p.Str())
	case format.TypeString64:
		return stringNode("!str64", p.Str())
	case format.TypeString256:
		return stringNode("!str256", p.Str())
	case format.TypeStringRef:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Str()}

	case format.TypeCurve1, format.TypeCurve2, format.TypeCurve3, format.TypeCurve4:
		node := flowSeq("!curve")
		for _, c := range p.Curves() {
			node.Content = append(node.Content, u32Node(c.A), u32Node(c.B))
			for _, f := range c.Floats {
				node.Content = append(node.Content, floatNode(f))
			}
		}

		return node

	case format.TypeBufferInt:
		node := flowSeq("!buffer_int")
		for _, v := range p.IntBuffer() {
			node.Content = append(node.Content, &yaml.Node{
				Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v), 10),
			})
		}

		return node

	case format.TypeBufferF32:
		node := flowSeq("!buffer_f32")
		for _, v := range p.F32Buffer() {
			node.Content = append(node.Content, floatNode(v))
		}

		return node

	case format.TypeBufferU32:
		node := flowSeq("!buffer_u32")
		for _, v := range p.U32Buffer() {
			node.Content = append(node.Content, hexNode(v))
		}

		return node

	default: // format.TypeBufferBinary
		node := flowSeq("!buffer_binary")
		for _, v := range p.Binary() {
			node.Content = append(node.Content, hexNode(uint32(v)))
		}

		return node
	}
}

func vecTag(t format.Type) string {
	switch t {
	case format.TypeVec2:
		return "!vec2"
	case format.TypeVec3:
		return "!vec3"
	case format.TypeVec4:
		return "!vec4"
	case format.TypeColor:
		return "!color"
	default:
		return "!quat"
	}
}

func appendPair(m *yaml.Node, key, value *yaml.Node) {
	m.Content = append(m.Content, key, value)
}

func plainKey(name string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
}

// nameKey renders a resolved key name. All-digit names are double-quoted;
// unquoted they would re-read as raw hash literals.
func nameKey(name string) *yaml.Node {
	n := plainKey(name)
	if name != "" && strings.IndexFunc(name, notDigit) < 0 {
		n.Style = yaml.DoubleQuotedStyle
	}

	return n
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}

// hashKey renders an unresolved key as its raw hash, an unquoted decimal
// integer scalar.
func hashKey(key uint32) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(uint64(key), 10)}
}

func stringNode(tag, s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s, Style: yaml.DoubleQuotedStyle}
}

func flowSeq(tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: tag, Style: yaml.FlowStyle}
}

func floatNode(f float32) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatF32(f)}
}

func u32Node(v uint32) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(uint64(v), 10)}
}

func hexNode(v uint32) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "0x" + strconv.FormatUint(uint64(v), 16)}
}

// formatF32 renders a float32 with the shortest decimal spelling that
// parses back to the same bits, forcing a decimal point onto integral
// values so they stay floats on re-read.
func formatF32(f float32) string {
	if math.IsInf(float64(f), 1) {
		return ".inf"
	}
	if math.IsInf(float64(f), -1) {
		return "-.inf"
	}
	if f != f {
		return ".nan"
	}

	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}
