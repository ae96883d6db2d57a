package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Object is a JSON object that remembers key insertion order. Design
// records render field by field in the order the document lists them,
// which a plain map loses, so the store decodes design documents into
// this type. Nested objects decode to *Object as well; arrays decode to
// []any.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject builds an ordered object from key/value pairs, mainly for
// tests.
func NewObject(pairs ...any) *Object {
	o := &Object{values: map[string]any{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1])
	}
	return o
}

// Set appends or replaces a key.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = map[string]any{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value for key, or nil.
func (o *Object) Get(key string) any {
	if o == nil {
		return nil
	}
	return o.values[key]
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// UnmarshalJSON decodes a JSON object preserving key order via the
// token stream.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	o.keys = nil
	o.values = map[string]any{}
	return decodeObjectBody(dec, o)
}

func decodeObjectBody(dec *json.Decoder, o *Object) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return err
		}
		o.Set(key, val)
	}
	// consume closing '}'
	_, err := dec.Token()
	return err
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			child := &Object{values: map[string]any{}}
			if err := decodeObjectBody(dec, child); err != nil {
				return nil, err
			}
			return child, nil
		case '[':
			var arr []any
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, nil
		}
		return t.String(), nil
	default:
		return tok, nil
	}
}

// MarshalJSON encodes the object with keys in insertion order, so an
// Object round-trips through JSON without reshuffling fields.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// entry is a key/value pair yielded in deterministic order.
type entry struct {
	key   string
	value any
}

// objectEntries flattens any object-like value into ordered entries.
// *Object keeps its insertion order; a plain map is sorted by key so
// that repeated renders of the same input are identical.
func objectEntries(v any) ([]entry, bool) {
	switch m := v.(type) {
	case *Object:
		if m == nil {
			return nil, false
		}
		out := make([]entry, 0, len(m.keys))
		for _, k := range m.keys {
			out = append(out, entry{key: k, value: m.values[k]})
		}
		return out, true
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			out = append(out, entry{key: k, value: m[k]})
		}
		return out, true
	default:
		return nil, false
	}
}

// objectGet looks up a key on either object representation.
func objectGet(v any, key string) (any, bool) {
	switch m := v.(type) {
	case *Object:
		if m == nil || !m.Has(key) {
			return nil, false
		}
		return m.Get(key), true
	case map[string]any:
		val, ok := m[key]
		return val, ok
	default:
		return nil, false
	}
}

func isObject(v any) bool {
	switch m := v.(type) {
	case *Object:
		return m != nil
	case map[string]any:
		return true
	default:
		return false
	}
}
