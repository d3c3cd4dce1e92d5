package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/parc/errs"
	"github.com/arloliu/parc/format"
	"github.com/arloliu/parc/internal/hash"
	"github.com/arloliu/parc/names"
	"github.com/arloliu/parc/pio"
)

// Decode parses the text form of a parameter archive into a document
// tree. A nil table selects the shared stock table.
//
// Every string scalar and every non-numeric key encountered is added to
// the name table, since its hash is then known with certainty. On any
// grammar violation no partial tree is returned; the error carries the
// offending line and column.
func Decode(src []byte, table *names.Table) (*pio.ParameterIO, error) {
	if table == nil {
		table = names.Default()
	}

	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTextSyntax, err)
	}

	evs, err := flattenDocument(&root)
	if err != nil {
		return nil, err
	}

	m := &machine{table: table}
	for i := range evs {
		if err := m.handle(&evs[i]); err != nil {
			return nil, err
		}
	}

	return m.finish()
}

// ctxKind identifies what grammatical construct the top of the context
// stack is inside of. The mapping-end event is ambiguous on its own; the
// stack top decides which construct it closes.
type ctxKind uint8

const (
	ctxDocument   ctxKind = iota // inside the top-level !io mapping
	ctxListNode                  // inside a !list mapping
	ctxObjectsMap                // inside a list's objects mapping
	ctxListsMap                  // inside a list's lists mapping
	ctxObjectBody                // inside a !obj mapping
)

// Document-level field progression inside the !io mapping.
const (
	docWantVersionKey = iota
	docWantVersionValue
	docWantTypeKey
	docWantTypeValue
	docWantRootKey
	docWantRootValue
	docDone
)

type frame struct {
	kind ctxKind
	// key is the hash under which the completed node is inserted into its
	// parent once this frame closes.
	key uint32
	// list and obj hold the node under construction.
	list *pio.List
	obj  *pio.Object
	// section tracking for ctxListNode: which child map a pending
	// "objects"/"lists" key announced, and which have been completed.
	pendingSection string
	seenObjects    bool
	seenLists      bool
}

// seqState buffers the scalar items of an open tagged flow sequence.
type seqState struct {
	tag  string
	vals []string
	line int
	col  int
}

type machine struct {
	table *names.Table
	stack []frame

	pendingKey uint32
	hasPending bool

	seq *seqState

	docStage int
	version  uint32
	pioType  string
	doc      *pio.ParameterIO
}

func (m *machine) top() *frame {
	if len(m.stack) == 0 {
		return nil
	}

	return &m.stack[len(m.stack)-1]
}

func (m *machine) push(f frame) {
	m.stack = append(m.stack, f)
}

func (m *machine) pop() frame {
	f := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	return f
}

func syntaxErr(ev *event, msg string) error {
	return fmt.Errorf("%w: %s at line %d, column %d", errs.ErrTextSyntax, msg, ev.line, ev.column)
}

func (m *machine) handle(ev *event) error {
	// An open tagged sequence consumes scalars until its end event;
	// nothing else may appear inside it.
	if m.seq != nil {
		switch ev.kind {
		case eventScalar:
			m.seq.vals = append(m.seq.vals, ev.value)
			return nil
		case eventSequenceEnd:
			return m.closeSequence(ev)
		default:
			return syntaxErr(ev, fmt.Sprintf("%s inside flow sequence", ev.kind))
		}
	}

	switch ev.kind {
	case eventMappingStart:
		return m.mappingStart(ev)
	case eventMappingEnd:
		return m.mappingEnd(ev)
	case eventSequenceStart:
		return m.sequenceStart(ev)
	case eventSequenceEnd:
		return syntaxErr(ev, "sequence end without sequence start")
	default:
		return m.scalar(ev)
	}
}

func (m *machine) mappingStart(ev *event) error {
	top := m.top()

	switch {
	case top == nil:
		if ev.tag != "!io" {
			return syntaxErr(ev, fmt.Sprintf("document must be tagged !io, got %q", ev.tag))
		}
		m.push(frame{kind: ctxDocument})
		m.docStage = docWantVersionKey

		return nil

	case top.kind == ctxDocument:
		if m.docStage != docWantRootValue {
			return syntaxErr(ev, "unexpected mapping in document header")
		}
		if ev.tag != "!list" {
			return syntaxErr(ev, fmt.Sprintf("param_root must be tagged !list, got %q", ev.tag))
		}
		m.push(frame{kind: ctxListNode, key: pio.RootKey, list: &pio.List{}})

		return nil

	case top.kind == ctxListNode:
		if top.pendingSection == "" {
			return syntaxErr(ev, "mapping without objects/lists key")
		}
		if ev.tag != "" {
			return syntaxErr(ev, fmt.Sprintf("unexpected tag %q on %s map", ev.tag, top.pendingSection))
		}
		section := top.pendingSection
		top.pendingSection = ""
		if section == "objects" {
			m.push(frame{kind: ctxObjectsMap})
		} else {
			m.push(frame{kind: ctxListsMap})
		}

		return nil

	case top.kind == ctxObjectsMap:
		if !m.hasPending {
			return syntaxErr(ev, "object node without key")
		}
		if ev.tag != "!obj" {
			return syntaxErr(ev, fmt.Sprintf("object must be tagged !obj, got %q", ev.tag))
		}
		m.hasPending = false
		m.push(frame{kind: ctxObjectBody, key: m.pendingKey, obj: &pio.Object{}})

		return nil

	case top.kind == ctxListsMap:
		if !m.hasPending {
			return syntaxErr(ev, "list node without key")
		}
		if ev.tag != "!list" {
			return syntaxErr(ev, fmt.Sprintf("list must be tagged !list, got %q", ev.tag))
		}
		m.hasPending = false
		m.push(frame{kind: ctxListNode, key: m.pendingKey, list: &pio.List{}})

		return nil

	default:
		return syntaxErr(ev, "unexpected mapping in object body")
	}
}

func (m *machine) mappingEnd(ev *event) error {
	top := m.top()
	if top == nil {
		return syntaxErr(ev, "mapping end without mapping start")
	}

	switch top.kind {
	case ctxObjectBody:
		f := m.pop()
		if m.hasPending {
			return syntaxErr(ev, "parameter key without value")
		}
		parent := m.parentList(ev)
		if parent == nil {
			return syntaxErr(ev, "object outside a list")
		}
		parent.Objects.Set(f.key, *f.obj)

		return nil

	case ctxObjectsMap:
		m.pop()
		m.top().seenObjects = true

		return nil

	case ctxListsMap:
		m.pop()
		m.top().seenLists = true

		return nil

	case ctxListNode:
		f := m.pop()
		if !f.seenObjects || !f.seenLists {
			return syntaxErr(ev, "list node must carry both objects and lists maps")
		}

		parentTop := m.top()
		switch parentTop.kind {
		case ctxListsMap:
			parent := m.parentList(ev)
			if parent == nil {
				return syntaxErr(ev, "list outside a list")
			}
			parent.Lists.Set(f.key, *f.list)
		case ctxDocument:
			m.doc = &pio.ParameterIO{
				Version: m.version,
				Type:    m.pioType,
				Root:    *f.list,
			}
			m.docStage = docDone
		default:
			return syntaxErr(ev, "misplaced list node")
		}

		return nil

	default: // ctxDocument
		if m.docStage != docDone {
			return syntaxErr(ev, "incomplete document")
		}
		m.pop()

		return nil
	}
}

// parentList returns the list node that directly encloses the current
// objects-map or lists-map frame.
func (m *machine) parentList(ev *event) *pio.List {
	if len(m.stack) < 2 {
		return nil
	}

	parent := &m.stack[len(m.stack)-2]
	if parent.kind != ctxListNode {
		return nil
	}

	return parent.list
}

func (m *machine) sequenceStart(ev *event) error {
	top := m.top()
	if top == nil || top.kind != ctxObjectBody || !m.hasPending {
		return syntaxErr(ev, "sequence outside a parameter value position")
	}

	switch ev.tag {
	case "!vec2", "!vec3", "!vec4", "!color", "!quat", "!curve",
		"!buffer_int", "!buffer_f32", "!buffer_u32", "!buffer_binary":
	case "":
		return syntaxErr(ev, "sequence is missing a type tag")
	default:
		return fmt.Errorf("%w: %q at line %d, column %d", errs.ErrUnknownTag, ev.tag, ev.line, ev.column)
	}

	m.seq = &seqState{tag: ev.tag, line: ev.line, col: ev.column}

	return nil
}

func (m *machine) closeSequence(ev *event) error {
	seq := m.seq
	m.seq = nil

	param, err := buildSequenceParam(seq)
	if err != nil {
		return err
	}

	top := m.top()
	top.obj.Params.Set(m.pendingKey, param)
	m.hasPending = false

	return nil
}

func (m *machine) scalar(ev *event) error {
	top := m.top()
	if top == nil {
		return syntaxErr(ev, "scalar outside document")
	}

	switch top.kind {
	case ctxDocument:
		return m.docScalar(ev)

	case ctxListNode:
		if ev.value != "objects" && ev.value != "lists" {
			return syntaxErr(ev, fmt.Sprintf("unexpected key %q in list node", ev.value))
		}
		if top.pendingSection != "" {
			return syntaxErr(ev, fmt.Sprintf("%s key without map value", top.pendingSection))
		}
		top.pendingSection = ev.value

		return nil

	case ctxObjectsMap, ctxListsMap:
		if m.hasPending {
			return syntaxErr(ev, "key without node value")
		}
		m.pendingKey = m.resolveKey(ev)
		m.hasPending = true

		return nil

	case ctxObjectBody:
		if !m.hasPending {
			m.pendingKey = m.resolveKey(ev)
			m.hasPending = true

			return nil
		}

		param, err := m.classifyScalar(ev)
		if err != nil {
			return err
		}
		top.obj.Params.Set(m.pendingKey, param)
		m.hasPending = false

		return nil

	default:
		return syntaxErr(ev, "unexpected scalar")
	}
}

func (m *machine) docScalar(ev *event) error {
	switch m.docStage {
	case docWantVersionKey:
		if ev.value != "version" {
			return syntaxErr(ev, fmt.Sprintf("expected version key, got %q", ev.value))
		}
		m.docStage = docWantVersionValue
	case docWantVersionValue:
		v, err := strconv.ParseUint(ev.value, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: version %q at line %d, column %d", errs.ErrBadScalar, ev.value, ev.line, ev.column)
		}
		m.version = uint32(v)
		m.docStage = docWantTypeKey
	case docWantTypeKey:
		if ev.value != "type" {
			return syntaxErr(ev, fmt.Sprintf("expected type key, got %q", ev.value))
		}
		m.docStage = docWantTypeValue
	case docWantTypeValue:
		m.pioType = ev.value
		m.docStage = docWantRootKey
	case docWantRootKey:
		if ev.value != "param_root" {
			return syntaxErr(ev, fmt.Sprintf("expected param_root key, got %q", ev.value))
		}
		m.docStage = docWantRootValue
	default:
		return syntaxErr(ev, fmt.Sprintf("unexpected scalar %q in document", ev.value))
	}

	return nil
}

// resolveKey maps a key scalar to its 32-bit hash. An unquoted scalar
// that parses as a decimal u32 is the raw hash itself; anything else is a
// name, which is hashed and recorded in the table. Quoting protects
// all-digit names from being read as raw hashes.
func (m *machine) resolveKey(ev *event) uint32 {
	if !ev.quoted {
		if h, err := strconv.ParseUint(ev.value, 10, 32); err == nil {
			return uint32(h)
		}
	}

	m.table.Add(ev.value)

	return hash.ID(ev.value)
}

// classifyScalar builds a parameter from a scalar value event. Tagged
// scalars dispatch on the tag; untagged scalars follow the implicit
// resolution (integer, then float, then bool, else a string reference).
func (m *machine) classifyScalar(ev *event) (pio.Parameter, error) {
	switch ev.tag {
	case "!str32", "!str64", "!str256":
		m.table.Add(ev.value)
		kind := format.TypeString32
		if ev.tag == "!str64" {
			kind = format.TypeString64
		} else if ev.tag == "!str256" {
			kind = format.TypeString256
		}

		return pio.NewString(kind, ev.value), nil

	case "!u":
		v, err := strconv.ParseUint(ev.value, 0, 32)
		if err != nil {
			return pio.Parameter{}, fmt.Errorf("%w: %q at line %d, column %d", errs.ErrBadScalar, ev.value, ev.line, ev.column)
		}

		return pio.NewU32(uint32(v)), nil

	case "!!int":
		v, err := strconv.ParseInt(ev.value, 0, 32)
		if err != nil {
			return pio.Parameter{}, fmt.Errorf("%w: %q at line %d, column %d", errs.ErrBadScalar, ev.value, ev.line, ev.column)
		}

		return pio.NewInt(int32(v)), nil

	case "!!float":
		f, err := parseF32(ev.value)
		if err != nil {
			return pio.Parameter{}, fmt.Errorf("%w: %q at line %d, column %d", errs.ErrBadScalar, ev.value, ev.line, ev.column)
		}

		return pio.NewF32(f), nil

	case "!!bool":
		// The resolver also hands over spellings like TRUE and False.
		return pio.NewBool(strings.EqualFold(ev.value, "true")), nil

	case "!!null":
		return pio.NewStringRef(""), nil

	case "!!str":
		m.table.Add(ev.value)

		return pio.NewStringRef(ev.value), nil

	default:
		return pio.Parameter{}, fmt.Errorf("%w: %q at line %d, column %d", errs.ErrUnknownTag, ev.tag, ev.line, ev.column)
	}
}

func (m *machine) finish() (*pio.ParameterIO, error) {
	if m.doc == nil || len(m.stack) != 0 {
		return nil, fmt.Errorf("%w: incomplete document", errs.ErrTextSyntax)
	}

	return m.doc, nil
}

// buildSequenceParam converts a completed tagged flow sequence into the
// parameter variant its tag selects.
func buildSequenceParam(seq *seqState) (pio.Parameter, error) {
	switch seq.tag {
	case "!vec2", "!vec3", "!vec4", "!color", "!quat":
		return buildVecParam(seq)
	case "!curve":
		return buildCurveParam(seq)
	case "!buffer_int":
		buf := make([]int32, len(seq.vals))
		for i, v := range seq.vals {
			n, err := strconv.ParseInt(v, 0, 32)
			if err != nil {
				return pio.Parameter{}, seqScalarErr(seq, v)
			}
			buf[i] = int32(n)
		}

		return pio.NewBufferInt(buf), nil

	case "!buffer_f32":
		buf := make([]float32, len(seq.vals))
		for i, v := range seq.vals {
			f, err := parseF32(v)
			if err != nil {
				return pio.Parameter{}, seqScalarErr(seq, v)
			}
			buf[i] = f
		}

		return pio.NewBufferF32(buf), nil

	case "!buffer_u32":
		buf := make([]uint32, len(seq.vals))
		for i, v := range seq.vals {
			n, err := strconv.ParseUint(v, 0, 32)
			if err != nil {
				return pio.Parameter{}, seqScalarErr(seq, v)
			}
			buf[i] = uint32(n)
		}

		return pio.NewBufferU32(buf), nil

	default: // !buffer_binary
		buf := make([]byte, len(seq.vals))
		for i, v := range seq.vals {
			n, err := strconv.ParseUint(v, 0, 8)
			if err != nil {
				return pio.Parameter{}, seqScalarErr(seq, v)
			}
			buf[i] = byte(n)
		}

		return pio.NewBufferBinary(buf), nil
	}
}

func buildVecParam(seq *seqState) (pio.Parameter, error) {
	want := 4
	if seq.tag == "!vec2" {
		want = 2
	} else if seq.tag == "!vec3" {
		want = 3
	}

	if len(seq.vals) != want {
		return pio.Parameter{}, fmt.Errorf("%w: %s needs %d values, got %d at line %d, column %d",
			errs.ErrBadSequenceLen, seq.tag, want, len(seq.vals), seq.line, seq.col)
	}

	var f [4]float32
	for i, v := range seq.vals {
		parsed, err := parseF32(v)
		if err != nil {
			return pio.Parameter{}, seqScalarErr(seq, v)
		}
		f[i] = parsed
	}

	switch seq.tag {
	case "!vec2":
		return pio.NewVec2(f[0], f[1]), nil
	case "!vec3":
		return pio.NewVec3(f[0], f[1], f[2]), nil
	case "!vec4":
		return pio.NewVec4(f[0], f[1], f[2], f[3]), nil
	case "!color":
		return pio.NewColor(f[0], f[1], f[2], f[3]), nil
	default:
		return pio.NewQuat(f[0], f[1], f[2], f[3]), nil
	}
}

// buildCurveParam slices a flattened curve sequence into 32-element
// windows of (a, b, 30 floats) and selects Curve1..Curve4 by the window
// count.
func buildCurveParam(seq *seqState) (pio.Parameter, error) {
	const window = 2 + pio.CurveFloats

	n := len(seq.vals) / window
	if n < 1 || n > 4 || len(seq.vals)%window != 0 {
		return pio.Parameter{}, fmt.Errorf("%w: curve sequence of %d values at line %d, column %d",
			errs.ErrBadSequenceLen, len(seq.vals), seq.line, seq.col)
	}

	curves := make([]pio.Curve, n)
	for i := range curves {
		base := i * window

		a, err := strconv.ParseUint(seq.vals[base], 0, 32)
		if err != nil {
			return pio.Parameter{}, seqScalarErr(seq, seq.vals[base])
		}

		b, err := strconv.ParseUint(seq.vals[base+1], 0, 32)
		if err != nil {
			return pio.Parameter{}, seqScalarErr(seq, seq.vals[base+1])
		}

		curves[i].A = uint32(a)
		curves[i].B = uint32(b)
		for j := 0; j < pio.CurveFloats; j++ {
			f, err := parseF32(seq.vals[base+2+j])
			if err != nil {
				return pio.Parameter{}, seqScalarErr(seq, seq.vals[base+2+j])
			}
			curves[i].Floats[j] = f
		}
	}

	param, ok := pio.NewCurves(curves)
	if !ok {
		return pio.Parameter{}, fmt.Errorf("%w: %d curves", errs.ErrBadSequenceLen, n)
	}

	return param, nil
}

func seqScalarErr(seq *seqState, val string) error {
	return fmt.Errorf("%w: %q in %s sequence at line %d, column %d", errs.ErrBadScalar, val, seq.tag, seq.line, seq.col)
}

// parseF32 parses a float scalar, accepting the YAML spellings of the
// non-finite values.
func parseF32(s string) (float32, error) {
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return float32(math.Inf(1)), nil
	case "-.inf":
		return float32(math.Inf(-1)), nil
	case ".nan":
		return float32(math.NaN()), nil
	}

	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}

	return float32(f), nil
}
