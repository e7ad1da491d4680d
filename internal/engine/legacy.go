package engine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"fortio.org/safecast"
	"github.com/gagliardetto/solana-go"
	json "github.com/goccy/go-json"

	"idlkit/internal/idl"
)

// legacyDoc is the pre-0.30 IDL layout: name and version at the top level,
// address under metadata, camelCase instructions and isMut/isSigner flags.
type legacyDoc struct {
	Version      string              `json:"version"`
	Name         string              `json:"name"`
	Docs         []string            `json:"docs"`
	Constants    []legacyConst       `json:"constants"`
	Instructions []legacyInstruction `json:"instructions"`
	Accounts     []legacyTypeDef     `json:"accounts"`
	Types        []legacyTypeDef     `json:"types"`
	Events       []legacyEvent       `json:"events"`
	Errors       []idl.ErrorCode     `json:"errors"`
	Metadata     struct {
		Address string `json:"address"`
	} `json:"metadata"`
}

type legacyConst struct {
	Name  string          `json:"name"`
	Type  json.RawMessage `json:"type"`
	Value string          `json:"value"`
}

type legacyInstruction struct {
	Name     string            `json:"name"`
	Docs     []string          `json:"docs"`
	Accounts []json.RawMessage `json:"accounts"`
	Args     []legacyField     `json:"args"`
	Returns  json.RawMessage   `json:"returns"`
}

type legacyAccount struct {
	Name       string            `json:"name"`
	Docs       []string          `json:"docs"`
	IsMut      bool              `json:"isMut"`
	IsSigner   bool              `json:"isSigner"`
	IsOptional bool              `json:"isOptional"`
	PDA        *legacyPDA        `json:"pda"`
	Relations  []string          `json:"relations"`
	Accounts   []json.RawMessage `json:"accounts"`
}

type legacyPDA struct {
	Seeds     []legacySeed `json:"seeds"`
	ProgramID *legacySeed  `json:"programId"`
}

type legacySeed struct {
	Kind    string          `json:"kind"`
	Type    json.RawMessage `json:"type"`
	Value   json.RawMessage `json:"value"`
	Path    string          `json:"path"`
	Account string          `json:"account"`
}

type legacyField struct {
	Name string          `json:"name"`
	Docs []string        `json:"docs"`
	Type json.RawMessage `json:"type"`
}

type legacyTypeDef struct {
	Name string   `json:"name"`
	Docs []string `json:"docs"`
	Type struct {
		Kind     string          `json:"kind"`
		Fields   []legacyField   `json:"fields"`
		Variants []legacyVariant `json:"variants"`
		Value    json.RawMessage `json:"value"`
	} `json:"type"`
}

type legacyVariant struct {
	Name   string          `json:"name"`
	Fields json.RawMessage `json:"fields"`
}

type legacyEvent struct {
	Name   string        `json:"name"`
	Fields []legacyField `json:"fields"`
}

func parseLegacy(raw []byte) (*legacyDoc, error) {
	var doc legacyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid IDL JSON: %w", err)
	}
	if doc.Name == "" {
		return nil, errors.New("legacy IDL has no name")
	}
	return &doc, nil
}

func (l *legacyDoc) convert() (*idl.Document, error) {
	doc := &idl.Document{
		Address: l.Metadata.Address,
		Metadata: idl.Metadata{
			Name:    SnakeCase(l.Name),
			Version: l.Version,
			Spec:    SpecVersion,
		},
		Docs:         l.Docs,
		Instructions: make([]idl.Instruction, 0, len(l.Instructions)),
		Errors:       l.Errors,
	}

	for _, lix := range l.Instructions {
		ix, err := convertInstruction(lix)
		if err != nil {
			return nil, fmt.Errorf("instruction %q: %w", lix.Name, err)
		}
		doc.Instructions = append(doc.Instructions, ix)
	}

	seen := make(map[string]bool)
	addType := func(td idl.TypeDef) {
		if seen[td.Name] {
			return
		}
		seen[td.Name] = true
		doc.Types = append(doc.Types, td)
	}

	for _, acc := range l.Accounts {
		doc.Accounts = append(doc.Accounts, idl.AccountDef{Name: acc.Name, Discriminator: Discriminator(nsAccount, acc.Name)})
		td, err := convertTypeDef(acc)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", acc.Name, err)
		}
		addType(td)
	}
	for _, ev := range l.Events {
		doc.Events = append(doc.Events, idl.EventDef{Name: ev.Name, Discriminator: Discriminator(nsEvent, ev.Name)})
		fields, err := convertFields(ev.Fields)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", ev.Name, err)
		}
		addType(idl.TypeDef{Name: ev.Name, Type: idl.TypeDefBody{Kind: idl.KindStruct, Fields: &idl.DefinedFields{Named: fields}}})
	}
	for _, lt := range l.Types {
		td, err := convertTypeDef(lt)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", lt.Name, err)
		}
		addType(td)
	}

	for _, c := range l.Constants {
		ty, err := convertType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("constant %q: %w", c.Name, err)
		}
		doc.Constants = append(doc.Constants, idl.Const{Name: c.Name, Type: ty, Value: c.Value})
	}
	return doc, nil
}

func convertInstruction(lix legacyInstruction) (idl.Instruction, error) {
	name := SnakeCase(lix.Name)
	ix := idl.Instruction{
		Name:          name,
		Docs:          lix.Docs,
		Discriminator: Discriminator(nsInstruction, name),
	}
	accounts, err := convertAccountItems(lix.Accounts)
	if err != nil {
		return ix, err
	}
	ix.Accounts = accounts
	args, err := convertFields(lix.Args)
	if err != nil {
		return ix, err
	}
	ix.Args = args
	if len(lix.Returns) > 0 && !bytes.Equal(bytes.TrimSpace(lix.Returns), []byte("null")) {
		ret, err := convertType(lix.Returns)
		if err != nil {
			return ix, fmt.Errorf("returns: %w", err)
		}
		ix.Returns = ret
	}
	return ix, nil
}

func convertAccountItems(raw []json.RawMessage) (idl.AccountItems, error) {
	items := make(idl.AccountItems, 0, len(raw))
	for i, r := range raw {
		var la legacyAccount
		if err := json.Unmarshal(r, &la); err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		if la.Accounts != nil {
			nested, err := convertAccountItems(la.Accounts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", la.Name, err)
			}
			items = append(items, &idl.Composite{Name: SnakeCase(la.Name), Accounts: nested})
			continue
		}
		acc := &idl.Account{
			Name:      SnakeCase(la.Name),
			Docs:      la.Docs,
			Writable:  la.IsMut,
			Signer:    la.IsSigner,
			Optional:  la.IsOptional,
			Relations: la.Relations,
		}
		if la.PDA != nil {
			pda, err := convertPDA(la.PDA)
			if err != nil {
				return nil, fmt.Errorf("%s: pda: %w", la.Name, err)
			}
			acc.PDA = pda
		}
		items = append(items, acc)
	}
	return items, nil
}

func convertPDA(lp *legacyPDA) (*idl.PDA, error) {
	pda := &idl.PDA{Seeds: make([]idl.Seed, 0, len(lp.Seeds))}
	for i, ls := range lp.Seeds {
		s, err := convertSeed(ls)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
		pda.Seeds = append(pda.Seeds, s)
	}
	if lp.ProgramID != nil {
		s, err := convertSeed(*lp.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("program: %w", err)
		}
		pda.Program = &s
	}
	return pda, nil
}

func convertSeed(ls legacySeed) (idl.Seed, error) {
	switch ls.Kind {
	case "const":
		value, err := constSeedBytes(ls.Type, ls.Value)
		if err != nil {
			return idl.Seed{}, err
		}
		return idl.Seed{Kind: "const", Value: value}, nil
	case "arg":
		return idl.Seed{Kind: "arg", Path: ls.Path}, nil
	case "account":
		return idl.Seed{Kind: "account", Path: ls.Path, Account: ls.Account}, nil
	}
	return idl.Seed{}, fmt.Errorf("unknown seed kind %q", ls.Kind)
}

// constSeedBytes renders a legacy const seed value as the bytes it hashes to.
func constSeedBytes(typ, value json.RawMessage) (idl.Bytes, error) {
	var typeName string
	_ = json.Unmarshal(typ, &typeName)

	var s string
	if json.Unmarshal(value, &s) == nil {
		if typeName == "publicKey" || typeName == "pubkey" {
			pk, err := solana.PublicKeyFromBase58(s)
			if err != nil {
				return nil, fmt.Errorf("const seed %q: %w", s, err)
			}
			return idl.Bytes(pk.Bytes()), nil
		}
		return idl.Bytes(s), nil
	}

	var list idl.Bytes
	if json.Unmarshal(value, &list) == nil {
		return list, nil
	}

	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return nil, fmt.Errorf("unsupported const seed value %s", value)
	}
	return intSeedBytes(typeName, n)
}

func intSeedBytes(typeName string, n json.Number) (idl.Bytes, error) {
	width := map[string]int{"u8": 1, "i8": 1, "u16": 2, "i16": 2, "u32": 4, "i32": 4, "u64": 8, "i64": 8}[typeName]
	if width == 0 {
		return nil, fmt.Errorf("unsupported const seed type %q", typeName)
	}
	var u uint64
	if typeName[0] == 'i' {
		v, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return nil, err
		}
		u = uint64(v)
	} else {
		v, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return nil, err
		}
		u = v
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	return idl.Bytes(append([]byte(nil), buf[:width]...)), nil
}

func convertFields(fields []legacyField) ([]idl.Field, error) {
	out := make([]idl.Field, 0, len(fields))
	for _, f := range fields {
		ty, err := convertType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out = append(out, idl.Field{Name: SnakeCase(f.Name), Docs: f.Docs, Type: ty})
	}
	return out, nil
}

func convertTypeDef(lt legacyTypeDef) (idl.TypeDef, error) {
	td := idl.TypeDef{Name: lt.Name, Docs: lt.Docs}
	switch lt.Type.Kind {
	case "struct":
		fields, err := convertFields(lt.Type.Fields)
		if err != nil {
			return td, err
		}
		td.Type = idl.TypeDefBody{Kind: idl.KindStruct}
		if len(fields) > 0 {
			td.Type.Fields = &idl.DefinedFields{Named: fields}
		}
	case "enum":
		td.Type = idl.TypeDefBody{Kind: idl.KindEnum, Variants: make([]idl.EnumVariant, 0, len(lt.Type.Variants))}
		for _, v := range lt.Type.Variants {
			fields, err := convertVariantFields(v.Fields)
			if err != nil {
				return td, fmt.Errorf("variant %q: %w", v.Name, err)
			}
			td.Type.Variants = append(td.Type.Variants, idl.EnumVariant{Name: v.Name, Fields: fields})
		}
	case "alias":
		ty, err := convertType(lt.Type.Value)
		if err != nil {
			return td, err
		}
		td.Type = idl.TypeDefBody{Kind: idl.KindAlias, Alias: ty}
	default:
		return td, fmt.Errorf("unknown type kind %q", lt.Type.Kind)
	}
	return td, nil
}

// convertVariantFields handles both named ([{name,type}]) and tuple ([type])
// variant payloads.
func convertVariantFields(raw json.RawMessage) (*idl.DefinedFields, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	var probe struct {
		Name *string `json:"name"`
	}
	if json.Unmarshal(items[0], &probe) == nil && probe.Name != nil {
		var named []legacyField
		if err := json.Unmarshal(raw, &named); err != nil {
			return nil, err
		}
		fields, err := convertFields(named)
		if err != nil {
			return nil, err
		}
		return &idl.DefinedFields{Named: fields}, nil
	}
	tuple := make([]idl.Type, 0, len(items))
	for _, it := range items {
		ty, err := convertType(it)
		if err != nil {
			return nil, err
		}
		tuple = append(tuple, ty)
	}
	return &idl.DefinedFields{Tuple: tuple}, nil
}

// convertType maps a legacy type expression to the current model. Forms the
// converter does not know are kept as idl.Unknown.
func convertType(raw json.RawMessage) (idl.Type, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("missing type")
	}

	var name string
	if json.Unmarshal(raw, &name) == nil {
		switch {
		case name == "publicKey":
			return idl.ScalarPubkey, nil
		case idl.IsScalar(name):
			return idl.Scalar(name), nil
		}
		return idl.Unknown{Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("invalid type %s: %w", raw, err)
	}
	if len(obj) != 1 {
		return idl.Unknown{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
	for key, val := range obj {
		switch key {
		case "defined":
			var n string
			if err := json.Unmarshal(val, &n); err != nil {
				return nil, fmt.Errorf("defined: %w", err)
			}
			return idl.Defined{Name: n}, nil
		case "option", "coption", "vec":
			inner, err := convertType(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			switch key {
			case "option":
				return idl.Option{Inner: inner}, nil
			case "coption":
				return idl.COption{Inner: inner}, nil
			}
			return idl.Vec{Inner: inner}, nil
		case "array":
			return convertArray(val)
		case "generic":
			var n string
			if err := json.Unmarshal(val, &n); err != nil {
				return nil, fmt.Errorf("generic: %w", err)
			}
			return idl.Generic{Name: n}, nil
		case "definedWithTypeArgs":
			return convertDefinedWithArgs(val)
		}
	}
	return idl.Unknown{Raw: append(json.RawMessage(nil), raw...)}, nil
}

func convertArray(val json.RawMessage) (idl.Type, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(val, &pair); err != nil || len(pair) != 2 {
		return nil, fmt.Errorf("array: expected [type, len], got %s", val)
	}
	elem, err := convertType(pair[0])
	if err != nil {
		return nil, fmt.Errorf("array: %w", err)
	}
	var n json.Number
	if json.Unmarshal(pair[1], &n) == nil {
		v, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("array length: %w", err)
		}
		length, err := safecast.Conv[int](v)
		if err != nil {
			return nil, fmt.Errorf("array length: %w", err)
		}
		return idl.Array{Elem: elem, Len: idl.ArrayLen{Value: length}}, nil
	}
	// {"array": ["u8", {"generic": "N"}]} или ["u8", "N"]
	var g struct {
		Generic string `json:"generic"`
	}
	if json.Unmarshal(pair[1], &g) == nil && g.Generic != "" {
		return idl.Array{Elem: elem, Len: idl.ArrayLen{Generic: g.Generic}}, nil
	}
	var s string
	if json.Unmarshal(pair[1], &s) == nil && s != "" {
		return idl.Array{Elem: elem, Len: idl.ArrayLen{Generic: s}}, nil
	}
	return nil, fmt.Errorf("array length: unsupported %s", pair[1])
}

func convertDefinedWithArgs(val json.RawMessage) (idl.Type, error) {
	var d struct {
		Name string `json:"name"`
		Args []struct {
			Type  json.RawMessage `json:"type"`
			Value *string         `json:"value"`
		} `json:"args"`
	}
	if err := json.Unmarshal(val, &d); err != nil {
		return nil, fmt.Errorf("definedWithTypeArgs: %w", err)
	}
	out := idl.Defined{Name: d.Name}
	for _, a := range d.Args {
		if a.Value != nil {
			out.Generics = append(out.Generics, idl.GenericArg{Value: *a.Value})
			continue
		}
		ty, err := convertType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("definedWithTypeArgs %s: %w", d.Name, err)
		}
		out.Generics = append(out.Generics, idl.GenericArg{Type: ty})
	}
	return out, nil
}
