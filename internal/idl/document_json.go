package idl

import json "github.com/goccy/go-json"

// Interface-typed members need explicit decoding; encoding goes through the
// MarshalJSON methods of the concrete variants.

func (f *Field) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Docs []string        `json:"docs"`
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := decodeInner("field "+raw.Name, raw.Type)
	if err != nil {
		return err
	}
	*f = Field{Name: raw.Name, Docs: raw.Docs, Type: t}
	return nil
}

func (c *Const) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Docs  []string        `json:"docs"`
		Type  json.RawMessage `json:"type"`
		Value string          `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := decodeInner("const "+raw.Name, raw.Type)
	if err != nil {
		return err
	}
	*c = Const{Name: raw.Name, Docs: raw.Docs, Type: t, Value: raw.Value}
	return nil
}

func (ix *Instruction) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name          string          `json:"name"`
		Docs          []string        `json:"docs"`
		Discriminator Bytes           `json:"discriminator"`
		Accounts      AccountItems    `json:"accounts"`
		Args          []Field         `json:"args"`
		Returns       json.RawMessage `json:"returns"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	returns, err := DecodeType(raw.Returns)
	if err != nil {
		return err
	}
	*ix = Instruction{
		Name:          raw.Name,
		Docs:          raw.Docs,
		Discriminator: raw.Discriminator,
		Accounts:      raw.Accounts,
		Args:          raw.Args,
		Returns:       returns,
	}
	return nil
}

// MarshalJSON writes missing accounts and args as empty arrays.
func (ix Instruction) MarshalJSON() ([]byte, error) {
	type plain Instruction
	p := plain(ix)
	if p.Accounts == nil {
		p.Accounts = AccountItems{}
	}
	if p.Args == nil {
		p.Args = []Field{}
	}
	return json.Marshal(p)
}

// MarshalJSON writes a missing instruction list as an empty array.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	p := plain(d)
	if p.Instructions == nil {
		p.Instructions = []Instruction{}
	}
	return json.Marshal(p)
}
