package metadata

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kind is the JSON type held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON document. Objects keep their members in the order
// they appeared in the source text. The zero Value is JSON null.
type Value struct {
	kind Kind
	b    bool
	n    json.Number
	s    string
	arr  []Value
	obj  []Member
	idx  map[string]int
}

// EmptyObject returns the document {}.
func EmptyObject() Value {
	return Value{kind: Object}
}

// Parse decodes exactly one JSON document from data.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec, 0)
	if err != nil {
		return Value{}, errors.Wrap(err, "failed to parse metadata document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("failed to parse metadata document: trailing data")
	}
	return v, nil
}

// Decode turns a raw metadata blob into a document. Invalid UTF-8 sequences
// are replaced with U+FFFD before parsing, and anything that still fails to
// parse becomes {}. The second result reports whether {} was substituted.
func Decode(raw []byte) (Value, bool) {
	if raw == nil {
		return EmptyObject(), true
	}
	if !utf8.Valid(raw) {
		raw = replaceInvalidUTF8(raw)
	}
	v, err := Parse(raw)
	if err != nil {
		return EmptyObject(), true
	}
	return v, false
}

// MaxDepth is the deepest nesting of arrays and objects Parse accepts.
const MaxDepth = 128

var errTooDeep = errors.Errorf("document nested deeper than %d levels", MaxDepth)

func parseValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxDepth {
			return Value{}, errTooDeep
		}
		switch t {
		case '{':
			return parseObject(dec, depth+1)
		case '[':
			return parseArray(dec, depth+1)
		}
		return Value{}, errors.Errorf("unexpected delimiter %q", rune(t))
	case string:
		return Value{kind: String, s: t}, nil
	case json.Number:
		return Value{kind: Number, n: t}, nil
	case bool:
		return Value{kind: Bool, b: t}, nil
	case nil:
		return Value{}, nil
	}
	return Value{}, errors.Errorf("unexpected token %v", tok)
}

func parseObject(dec *json.Decoder, depth int) (Value, error) {
	v := Value{kind: Object}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, errors.Errorf("object key is %T, not string", tok)
		}
		member, err := parseValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		v.set(key, member)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return v, nil
}

func parseArray(dec *json.Decoder, depth int) (Value, error) {
	v := Value{kind: Array}
	for dec.More() {
		elem, err := parseValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		v.arr = append(v.arr, elem)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// replaceInvalidUTF8 substitutes U+FFFD for every maximal ill-formed
// subsequence of b: a truncated multi-byte sequence becomes one replacement
// character, every other bad byte its own.
func replaceInvalidUTF8(b []byte) []byte {
	out := make([]byte, 0, len(b)+8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError || size > 1 {
			out = append(out, b[:size]...)
			b = b[size:]
			continue
		}
		out = utf8.AppendRune(out, utf8.RuneError)
		b = b[illFormedPrefix(b):]
	}
	return out
}

// illFormedPrefix returns how many bytes at the start of b form the longest
// prefix of some valid encoding, at least 1.
func illFormedPrefix(b []byte) int {
	lo, hi := byte(0x80), byte(0xBF)
	var need int
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		need, lo = 2, 0xA0
	case c == 0xED:
		need, hi = 2, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		need, lo = 3, 0x90
	case c == 0xF4:
		need, hi = 3, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	default:
		return 1
	}

	n := 1
	for ; n <= need && n < len(b); n++ {
		if b[n] < lo || b[n] > hi {
			break
		}
		lo, hi = 0x80, 0xBF
	}
	return n
}

// set keeps the position of the first occurrence of a duplicate key and the
// value of the last one.
func (v *Value) set(key string, member Value) {
	if i, ok := v.idx[key]; ok {
		v.obj[i].Value = member
		return
	}
	if v.idx == nil {
		v.idx = make(map[string]int)
	}
	v.idx[key] = len(v.obj)
	v.obj = append(v.obj, Member{Key: key, Value: member})
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsObject reports whether v is a JSON object.
func (v Value) IsObject() bool {
	return v.kind == Object
}

// Get returns the member stored under key. It reports false when v is not an
// object or has no such member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	i, ok := v.idx[key]
	if !ok {
		return Value{}, false
	}
	return v.obj[i].Value, true
}

// Lookup follows keys through nested objects. Any step that is missing or
// lands on a non-object yields false.
func (v Value) Lookup(keys ...string) (Value, bool) {
	cur := v
	for _, key := range keys {
		next, ok := cur.Get(key)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Members returns the members of an object in source order.
func (v Value) Members() ([]Member, bool) {
	if v.kind != Object {
		return nil, false
	}
	return v.obj, true
}

// Elements returns the elements of an array.
func (v Value) Elements() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	return v.arr, true
}

// Len returns the number of members or elements, or 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case Object:
		return len(v.obj)
	case Array:
		return len(v.arr)
	}
	return 0
}

func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

func (v Value) AsNumber() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	f, err := v.n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// String renders v as compact JSON.
func (v Value) String() string {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.String()
}

// MarshalJSON renders v with object members in source order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.Bytes(), nil
}

// UnmarshalJSON parses data into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encode(buf *bytes.Buffer) {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		buf.WriteString(v.n.String())
	case String:
		writeJSONString(buf, v.s)
	case Array:
		buf.WriteByte('[')
		for i, elem := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			elem.encode(buf)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, m.Key)
			buf.WriteByte(':')
			m.Value.encode(buf)
		}
		buf.WriteByte('}')
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encode cannot fail for a string.
	_ = enc.Encode(s)
	// Encoder appends a newline.
	buf.Truncate(buf.Len() - 1)
}

// MarshalYAML keeps object members in source order.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.yamlNode(), nil
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case Number:
		tag := "!!float"
		if _, err := v.n.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.n.String()}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v.arr {
			n.Content = append(n.Content, elem.yamlNode())
		}
		return n
	case Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.obj {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				m.Value.yamlNode())
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
