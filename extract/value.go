// Package extract locates the JSON embedded in video pages and reads typed
// facts out of it without ever failing on unexpected shapes.
package extract

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// Absent is the zero Kind, produced by any failed lookup.
	Absent Kind = iota
	Null
	Mapping
	Sequence
	String
	Number
	Bool
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is a read-only view over a decoded JSON tree. The zero Value is Absent.
type Value struct {
	kind Kind
	raw  any
}

// Wrap tags a value produced by encoding/json decoding into any.
func Wrap(raw any) Value {
	switch raw.(type) {
	case nil:
		return Value{kind: Null}
	case map[string]any:
		return Value{kind: Mapping, raw: raw}
	case []any:
		return Value{kind: Sequence, raw: raw}
	case string:
		return Value{kind: String, raw: raw}
	case json.Number, float64:
		return Value{kind: Number, raw: raw}
	case bool:
		return Value{kind: Bool, raw: raw}
	default:
		return Value{}
	}
}

// Decode parses a JSON document into a Value.
func Decode(data []byte) (Value, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, false
	}
	// Trailing tokens mean the span was not a single document.
	if dec.More() {
		return Value{}, false
	}
	return Wrap(raw), true
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Exists reports whether v holds anything other than Absent.
func (v Value) Exists() bool { return v.kind != Absent }

// Get walks keys from v. String keys index mappings and int keys index
// sequences; anything else yields Absent.
func (v Value) Get(keys ...any) Value {
	return Lookup(v, Value{}, keys...)
}

// Lookup walks keys from v and returns def as soon as a step does not apply.
// The path is consumed entirely or not at all.
func Lookup(v Value, def Value, keys ...any) Value {
	cur := v
	for _, key := range keys {
		switch k := key.(type) {
		case string:
			m, ok := cur.raw.(map[string]any)
			if cur.kind != Mapping || !ok {
				return def
			}
			next, ok := m[k]
			if !ok {
				return def
			}
			cur = Wrap(next)
		case int:
			s, ok := cur.raw.([]any)
			if cur.kind != Sequence || !ok || k < 0 || k >= len(s) {
				return def
			}
			cur = Wrap(s[k])
		default:
			return def
		}
		if cur.kind == Absent {
			return def
		}
	}
	return cur
}

// Len returns the number of elements of a sequence or mapping, 0 otherwise.
func (v Value) Len() int {
	switch raw := v.raw.(type) {
	case []any:
		return len(raw)
	case map[string]any:
		return len(raw)
	}
	return 0
}

// Each calls fn for every element of a sequence. Non-sequences are skipped.
func (v Value) Each(fn func(i int, item Value)) {
	s, ok := v.raw.([]any)
	if !ok {
		return
	}
	for i, item := range s {
		fn(i, Wrap(item))
	}
}

// String returns the string held by v, or def. Numbers and booleans are
// rendered in their JSON text form.
func (v Value) String(def string) string {
	switch raw := v.raw.(type) {
	case string:
		return raw
	case json.Number:
		return raw.String()
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(raw)
	}
	return def
}

// Int returns v as an integer. Numeric strings are accepted since the
// embedded data often quotes its counters.
func (v Value) Int(def int64) int64 {
	switch raw := v.raw.(type) {
	case json.Number:
		if n, err := raw.Int64(); err == nil {
			return n
		}
	case float64:
		return int64(raw)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the boolean held by v, or def.
func (v Value) Bool(def bool) bool {
	if b, ok := v.raw.(bool); ok {
		return b
	}
	return def
}

// Text reads a display-text node: either {"simpleText": "..."} or
// {"runs": [{"text": "..."}, ...]}. Missing nodes yield "".
func Text(v Value) string {
	if simple := v.Get("simpleText"); simple.Kind() == String {
		return simple.String("")
	}
	var b strings.Builder
	v.Get("runs").Each(func(_ int, run Value) {
		b.WriteString(run.Get("text").String(""))
	})
	if b.Len() > 0 {
		return b.String()
	}
	if v.Kind() == String {
		return v.String("")
	}
	return ""
}
