package validate

import (
	"encoding/json"
	"errors"
	"io"
)

// Pair is one member of a JSON object.
type Pair struct {
	Name string
	Raw  json.RawMessage
}

// Fields is a JSON object whose members keep the order they were submitted
// in. A repeated key keeps its first position and its last value.
type Fields []Pair

var ErrNotObject = errors.New("request body is not a JSON object")

// DecodeFields reads a single JSON object from r.
func DecodeFields(r io.Reader) (Fields, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	var out Fields
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, ErrNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if i, seen := index[key]; seen {
			out[i].Raw = raw
			continue
		}
		index[key] = len(out)
		out = append(out, Pair{Name: key, Raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the raw value of a member.
func (f Fields) Get(name string) (json.RawMessage, bool) {
	for _, p := range f {
		if p.Name == name {
			return p.Raw, true
		}
	}
	return nil, false
}

// Has reports whether every name is present.
func (f Fields) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := f.Get(n); !ok {
			return false
		}
	}
	return true
}
