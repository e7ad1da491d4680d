// Package patch rewrites a template IDL with a program's declared identifier.
package patch

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"idlkit/internal/idlerr"
)

type member struct {
	key string
	raw json.RawMessage
}

// Template is a JSON object kept as an ordered member list. Values that are
// never touched are carried as raw bytes, so number text such as 1e400 or
// 12345678901234567890 survives a round trip.
type Template struct {
	members []member
}

// ParseTemplate parses data as a single JSON object.
func ParseTemplate(data []byte) (*Template, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, malformed(fmt.Errorf("top-level value is %s, not an object", describe(tok)))
	}

	t := &Template{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, malformed(fmt.Errorf("object key is %s", describe(tok)))
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, malformed(fmt.Errorf("member %q: %w", key, err))
		}
		// повторный ключ: последнее значение на месте первого
		if i, dup := index[key]; dup {
			t.members[i].raw = raw
			continue
		}
		index[key] = len(t.members)
		t.members = append(t.members, member{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformed(errors.New("trailing data after object"))
	}
	return t, nil
}

func malformed(err error) error {
	return &idlerr.Error{Kind: idlerr.MalformedTemplate, Err: err}
}

func describe(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		return fmt.Sprintf("%q", string(v))
	case string:
		return "a string"
	case json.Number, float64:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", tok)
}

// Keys returns the member names in document order.
func (t *Template) Keys() []string {
	keys := make([]string, len(t.members))
	for i, m := range t.members {
		keys[i] = m.key
	}
	return keys
}

// Raw returns the raw bytes of a member.
func (t *Template) Raw(key string) (json.RawMessage, bool) {
	for _, m := range t.members {
		if m.key == key {
			return m.raw, true
		}
	}
	return nil, false
}

func (t *Template) set(key string, raw json.RawMessage) {
	for i := range t.members {
		if t.members[i].key == key {
			t.members[i].raw = raw
			return
		}
	}
	t.members = append(t.members, member{key: key, raw: raw})
}

// Name returns the top-level string "name" member. metadata.name is not
// consulted.
func (t *Template) Name() (string, error) {
	raw, ok := t.Raw("name")
	if !ok {
		return "", &idlerr.Error{Kind: idlerr.MissingProgramName, Field: "name"}
	}
	var name *string
	if err := json.Unmarshal(raw, &name); err != nil || name == nil {
		return "", &idlerr.Error{Kind: idlerr.MissingProgramName, Field: "name", Err: errors.New("not a string")}
	}
	return *name, nil
}

// SetAddress stores id in the "address" member, keeping its position, or
// appends it when absent.
func (t *Template) SetAddress(id string) error {
	raw, err := json.MarshalNoEscape(id)
	if err != nil {
		return &idlerr.Error{Kind: idlerr.SerializationFailure, Field: "address", Err: err}
	}
	t.set("address", raw)
	return nil
}

// MarshalIndent renders the template with two-space indentation and a
// trailing newline. Raw member values are re-indented, never re-encoded.
// goccy's Indent range-checks numbers as float64, so the stdlib scanner
// does the layout here: it copies number and string text unchanged.
func (t *Template) MarshalIndent() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, m := range t.members {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := json.MarshalNoEscape(m.key)
		if err != nil {
			return nil, &idlerr.Error{Kind: idlerr.SerializationFailure, Err: err}
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(m.raw)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := stdjson.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, &idlerr.Error{Kind: idlerr.SerializationFailure, Err: err}
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
