package idl

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"
	json "github.com/goccy/go-json"
)

// DecodeType decodes a JSON type expression. A JSON null or empty input yields
// a nil Type. Unrecognised but well-formed forms decode to Unknown.
func DecodeType(data []byte) (Type, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil, err
		}
		if IsScalar(name) {
			return Scalar(name), nil
		}
		return Unknown{Raw: cloneRaw(data)}, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		if len(obj) != 1 {
			return Unknown{Raw: cloneRaw(data)}, nil
		}
		for key, val := range obj {
			switch key {
			case "option":
				inner, err := decodeInner(key, val)
				if err != nil {
					return nil, err
				}
				return Option{Inner: inner}, nil
			case "coption":
				inner, err := decodeInner(key, val)
				if err != nil {
					return nil, err
				}
				return COption{Inner: inner}, nil
			case "vec":
				inner, err := decodeInner(key, val)
				if err != nil {
					return nil, err
				}
				return Vec{Inner: inner}, nil
			case "array":
				return decodeArray(val)
			case "defined":
				return decodeDefined(val)
			case "generic":
				var name string
				if err := json.Unmarshal(val, &name); err != nil {
					return nil, fmt.Errorf("generic: %w", err)
				}
				return Generic{Name: name}, nil
			}
		}
		return Unknown{Raw: cloneRaw(data)}, nil
	}
	return nil, fmt.Errorf("unexpected type expression %s", truncateRaw(data))
}

func decodeInner(key string, data json.RawMessage) (Type, error) {
	inner, err := DecodeType(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if inner == nil {
		return nil, fmt.Errorf("%s: missing inner type", key)
	}
	return inner, nil
}

func decodeArray(data json.RawMessage) (Type, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("array: %w", err)
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("array: expected [type, len], got %d elements", len(parts))
	}
	elem, err := decodeInner("array", parts[0])
	if err != nil {
		return nil, err
	}
	lenRaw := bytes.TrimSpace(parts[1])
	if len(lenRaw) > 0 && lenRaw[0] == '{' {
		var g struct {
			Generic string `json:"generic"`
		}
		if err := json.Unmarshal(lenRaw, &g); err != nil {
			return nil, fmt.Errorf("array len: %w", err)
		}
		if g.Generic == "" {
			return nil, fmt.Errorf("array len: empty generic name")
		}
		return Array{Elem: elem, Len: ArrayLen{Generic: g.Generic}}, nil
	}
	var n json.Number
	if err := json.Unmarshal(lenRaw, &n); err != nil {
		return nil, fmt.Errorf("array len: %w", err)
	}
	v, err := n.Int64()
	if err != nil {
		return nil, fmt.Errorf("array len: %w", err)
	}
	size, err := safecast.Conv[int](v)
	if err != nil || size < 0 {
		return nil, fmt.Errorf("array len: %d out of range", v)
	}
	return Array{Elem: elem, Len: ArrayLen{Value: size}}, nil
}

func decodeDefined(data json.RawMessage) (Type, error) {
	data = bytes.TrimSpace(data)
	// старый вид: {"defined": "Name"}
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil, fmt.Errorf("defined: %w", err)
		}
		return Defined{Name: name}, nil
	}
	var raw struct {
		Name     string            `json:"name"`
		Generics []json.RawMessage `json:"generics"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("defined: %w", err)
	}
	def := Defined{Name: raw.Name}
	for i, g := range raw.Generics {
		arg, err := decodeGenericArg(g)
		if err != nil {
			return nil, fmt.Errorf("defined %s: generic %d: %w", raw.Name, i, err)
		}
		def.Generics = append(def.Generics, arg)
	}
	return def, nil
}

func decodeGenericArg(data json.RawMessage) (GenericArg, error) {
	var raw struct {
		Kind  string          `json:"kind"`
		Type  json.RawMessage `json:"type"`
		Value string          `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return GenericArg{}, err
	}
	switch raw.Kind {
	case "type":
		t, err := decodeInner("type", raw.Type)
		if err != nil {
			return GenericArg{}, err
		}
		return GenericArg{Type: t}, nil
	case "const":
		return GenericArg{Value: raw.Value}, nil
	default:
		return GenericArg{}, fmt.Errorf("unknown generic argument kind %q", raw.Kind)
	}
}

func (s Scalar) MarshalJSON() ([]byte, error) { return json.Marshal(string(s)) }

func (o Option) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Option Type `json:"option"`
	}{o.Inner})
}

func (o COption) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		COption Type `json:"coption"`
	}{o.Inner})
}

func (v Vec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Vec Type `json:"vec"`
	}{v.Inner})
}

func (a Array) MarshalJSON() ([]byte, error) {
	var n any = a.Len.Value
	if a.Len.IsGeneric() {
		n = struct {
			Generic string `json:"generic"`
		}{a.Len.Generic}
	}
	return json.Marshal(struct {
		Array [2]any `json:"array"`
	}{[2]any{a.Elem, n}})
}

func (d Defined) MarshalJSON() ([]byte, error) {
	type definedJSON struct {
		Name     string       `json:"name"`
		Generics []GenericArg `json:"generics,omitempty"`
	}
	return json.Marshal(struct {
		Defined definedJSON `json:"defined"`
	}{definedJSON{Name: d.Name, Generics: d.Generics}})
}

func (g GenericArg) MarshalJSON() ([]byte, error) {
	if g.IsConst() {
		return json.Marshal(struct {
			Kind  string `json:"kind"`
			Value string `json:"value"`
		}{"const", g.Value})
	}
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Type Type   `json:"type"`
	}{"type", g.Type})
}

func (g Generic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Generic string `json:"generic"`
	}{g.Name})
}

func (u Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte("null"), nil
	}
	return u.Raw, nil
}

func cloneRaw(data []byte) json.RawMessage {
	out := make(json.RawMessage, len(data))
	copy(out, data)
	return out
}

func truncateRaw(data []byte) string {
	const limit = 32
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
