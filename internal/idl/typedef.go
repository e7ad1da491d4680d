package idl

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// TypeDef declares a user type (struct, enum or alias).
type TypeDef struct {
	Name          string           `json:"name"`
	Docs          []string         `json:"docs,omitempty"`
	Serialization string           `json:"serialization,omitempty"`
	Repr          json.RawMessage  `json:"repr,omitempty"`
	Generics      []TypeDefGeneric `json:"generics,omitempty"`
	Type          TypeDefBody      `json:"type"`
}

// TypeDefGeneric is a declared generic parameter. Kind is "type" or "const";
// const parameters carry their scalar Type spelling.
type TypeDefGeneric struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// TypeDefKind is the body kind of a TypeDef.
type TypeDefKind string

const (
	KindStruct TypeDefKind = "struct"
	KindEnum   TypeDefKind = "enum"
	KindAlias  TypeDefKind = "type"
)

// TypeDefBody is the layout of a TypeDef. Fields applies to structs, Variants
// to enums and Alias to type aliases.
type TypeDefBody struct {
	Kind     TypeDefKind
	Fields   *DefinedFields
	Variants []EnumVariant
	Alias    Type
}

// EnumVariant is one enum variant; Fields is nil for unit variants.
type EnumVariant struct {
	Name   string         `json:"name"`
	Fields *DefinedFields `json:"fields,omitempty"`
}

// DefinedFields is either a list of named fields or a tuple of types.
type DefinedFields struct {
	Named []Field
	Tuple []Type
}

// Len returns the number of fields regardless of shape.
func (f *DefinedFields) Len() int {
	if f == nil {
		return 0
	}
	if f.Tuple != nil {
		return len(f.Tuple)
	}
	return len(f.Named)
}

func (b TypeDefBody) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case KindStruct:
		return json.Marshal(struct {
			Kind   TypeDefKind    `json:"kind"`
			Fields *DefinedFields `json:"fields,omitempty"`
		}{b.Kind, b.Fields})
	case KindEnum:
		variants := b.Variants
		if variants == nil {
			variants = []EnumVariant{}
		}
		return json.Marshal(struct {
			Kind     TypeDefKind   `json:"kind"`
			Variants []EnumVariant `json:"variants"`
		}{b.Kind, variants})
	case KindAlias:
		return json.Marshal(struct {
			Kind  TypeDefKind `json:"kind"`
			Alias Type        `json:"alias"`
		}{b.Kind, b.Alias})
	}
	return nil, fmt.Errorf("unknown type definition kind %q", b.Kind)
}

func (b *TypeDefBody) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind     TypeDefKind     `json:"kind"`
		Fields   *DefinedFields  `json:"fields"`
		Variants []EnumVariant   `json:"variants"`
		Alias    json.RawMessage `json:"alias"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	body := TypeDefBody{Kind: raw.Kind}
	switch raw.Kind {
	case KindStruct:
		body.Fields = raw.Fields
	case KindEnum:
		body.Variants = raw.Variants
	case KindAlias:
		alias, err := decodeInner("alias", raw.Alias)
		if err != nil {
			return err
		}
		body.Alias = alias
	default:
		return fmt.Errorf("unknown type definition kind %q", raw.Kind)
	}
	*b = body
	return nil
}

func (f DefinedFields) MarshalJSON() ([]byte, error) {
	if f.Tuple != nil {
		return json.Marshal(f.Tuple)
	}
	named := f.Named
	if named == nil {
		named = []Field{}
	}
	return json.Marshal(named)
}

func (f *DefinedFields) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		*f = DefinedFields{Named: []Field{}}
		return nil
	}
	// именованные поля: объекты с "name", кортеж: просто типы
	first := bytes.TrimSpace(raw[0])
	named := false
	if len(first) > 0 && first[0] == '{' {
		var probe struct {
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(first, &probe); err != nil {
			return err
		}
		named = probe.Name != nil
	}
	if named {
		fields := make([]Field, 0, len(raw))
		for _, r := range raw {
			var fd Field
			if err := json.Unmarshal(r, &fd); err != nil {
				return err
			}
			fields = append(fields, fd)
		}
		*f = DefinedFields{Named: fields}
		return nil
	}
	tuple := make([]Type, 0, len(raw))
	for i, r := range raw {
		t, err := decodeInner(fmt.Sprintf("tuple field %d", i), r)
		if err != nil {
			return err
		}
		tuple = append(tuple, t)
	}
	*f = DefinedFields{Tuple: tuple}
	return nil
}
