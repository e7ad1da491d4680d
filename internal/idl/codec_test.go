package idl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadVault(t *testing.T) *Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "vault.json"))
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseDocument(t *testing.T) {
	doc := loadVault(t)

	if doc.Address != "Vau1t11111111111111111111111111111111111111" {
		t.Fatalf("Address = %q", doc.Address)
	}
	if doc.Metadata.Name != "vault" || doc.Metadata.Version != "0.1.0" {
		t.Fatalf("Metadata = %+v", doc.Metadata)
	}
	if len(doc.Instructions) != 2 {
		t.Fatalf("len(Instructions) = %d, want 2", len(doc.Instructions))
	}
	deposit := doc.Instructions[0]
	if len(deposit.Discriminator) != 8 || deposit.Discriminator[0] != 242 {
		t.Fatalf("Discriminator = %v", deposit.Discriminator)
	}
	if deposit.Returns != nil {
		t.Fatalf("deposit.Returns = %#v, want nil", deposit.Returns)
	}
	if got := deposit.Args[1].Type; got != (Option{Inner: Vec{Inner: ScalarPubkey}}) {
		t.Fatalf("memo type = %#v", got)
	}
	if len(doc.Types) != 4 {
		t.Fatalf("len(Types) = %d, want 4", len(doc.Types))
	}
}

func TestParseNestedAccounts(t *testing.T) {
	doc := loadVault(t)
	accounts := doc.Instructions[0].Accounts

	group, ok := accounts[0].(*Composite)
	if !ok {
		t.Fatalf("accounts[0] = %T, want *Composite", accounts[0])
	}
	if group.Name != "authority_group" || len(group.Accounts) != 2 {
		t.Fatalf("group = %+v", group)
	}
	payer, ok := group.Accounts[0].(*Account)
	if !ok || !payer.Writable || !payer.Signer || payer.Optional {
		t.Fatalf("payer = %+v", group.Accounts[0])
	}
	state, ok := accounts[1].(*Account)
	if !ok || state.PDA == nil || len(state.PDA.Seeds) != 2 {
		t.Fatalf("state = %+v", accounts[1])
	}
	if string(state.PDA.Seeds[0].Value) != "state" {
		t.Fatalf("seed value = %q, want %q", state.PDA.Seeds[0].Value, "state")
	}

	var names []string
	WalkAccounts(accounts, func(item AccountItem, depth int) {
		names = append(names, strings.Repeat(">", depth)+item.ItemName())
	})
	want := "authority_group,>payer,>vault,state,system_program"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("walk = %q, want %q", got, want)
	}
}

func TestParseTypeDefinitions(t *testing.T) {
	doc := loadVault(t)

	ring, ok := doc.TypeByName("Ring")
	if !ok {
		t.Fatalf("Ring not found")
	}
	arr, ok := ring.Type.Fields.Named[0].Type.(Array)
	if !ok || !arr.Len.IsGeneric() || arr.Len.Generic != "N" {
		t.Fatalf("Ring.items = %#v", ring.Type.Fields.Named[0].Type)
	}
	deposited, _ := doc.TypeByName("Deposited")
	if deposited.Type.Fields.Tuple == nil || deposited.Type.Fields.Len() != 2 {
		t.Fatalf("Deposited fields = %+v", deposited.Type.Fields)
	}
	side, _ := doc.TypeByName("Side")
	if side.Type.Kind != KindEnum || len(side.Type.Variants) != 2 || side.Type.Variants[0].Fields != nil {
		t.Fatalf("Side = %+v", side.Type)
	}

	ret, ok := doc.Instructions[1].Returns.(Defined)
	if !ok || ret.Name != "Ring" || len(ret.Generics) != 2 {
		t.Fatalf("snapshot returns = %#v", doc.Instructions[1].Returns)
	}
	if !ret.Generics[1].IsConst() || ret.Generics[1].Value != "4" {
		t.Fatalf("const generic = %#v", ret.Generics[1])
	}
}

func TestDecodeTypeUnknownIsPreserved(t *testing.T) {
	raw := `{"hashMap":["string","u64"]}`
	ty, err := DecodeType([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeType: %v", err)
	}
	u, ok := ty.(Unknown)
	if !ok {
		t.Fatalf("DecodeType = %#v, want Unknown", ty)
	}
	out, err := u.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(out) != raw {
		t.Fatalf("MarshalJSON = %s, want %s", out, raw)
	}
}

func TestDecodeTypeErrors(t *testing.T) {
	cases := []string{
		`{"array":["u8"]}`,
		`{"vec":null}`,
		`{"defined":{"name":"X","generics":[{"kind":"lifetime"}]}}`,
		`42`,
	}
	for _, raw := range cases {
		if _, err := DecodeType([]byte(raw)); err == nil {
			t.Fatalf("DecodeType(%s) succeeded, want error", raw)
		}
	}
}

func TestDiscriminatorOutOfRange(t *testing.T) {
	var b Bytes
	if err := b.UnmarshalJSON([]byte(`[1, 256]`)); err == nil {
		t.Fatalf("expected out of range error")
	}
	if err := b.UnmarshalJSON([]byte(`[0, 255]`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	out, err := b.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(out) != "[0,255]" {
		t.Fatalf("MarshalJSON = %s, want [0,255]", out)
	}
}

func TestMarshalIndentReparses(t *testing.T) {
	doc := loadVault(t)
	out, err := MarshalIndent(doc)
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if !strings.Contains(string(out), `"discriminator": [`) {
		t.Fatalf("discriminator must be emitted as an array:\n%s", out)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(MarshalIndent): %v", err)
	}
	if _, ok := again.Instructions[0].Accounts[0].(*Composite); !ok {
		t.Fatalf("composite lost after re-encode")
	}
	if again.Instructions[1].Returns == nil {
		t.Fatalf("returns lost after re-encode")
	}
}

func TestMarshalFillsEmptyLists(t *testing.T) {
	doc := &Document{
		Address:      "11111111111111111111111111111111",
		Metadata:     Metadata{Name: "bare", Version: "0.1.0", Spec: "0.1.0"},
		Instructions: []Instruction{{Name: "noop", Discriminator: Bytes{1, 2, 3, 4, 5, 6, 7, 8}}},
	}
	out, err := MarshalIndent(doc)
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	text := string(out)
	for _, want := range []string{`"accounts": []`, `"args": []`} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %s:\n%s", want, text)
		}
	}
	if strings.Contains(text, "null") {
		t.Fatalf("output contains null:\n%s", text)
	}

	empty, err := MarshalIndent(&Document{})
	if err != nil {
		t.Fatalf("MarshalIndent(empty): %v", err)
	}
	if !strings.Contains(string(empty), `"instructions": []`) {
		t.Fatalf("empty document:\n%s", empty)
	}
}

func TestLooksCurrent(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`{"address":"x","metadata":{"name":"a","version":"1","spec":"0.1.0"}}`, true},
		{`{"metadata":{"spec":"0.1.0"}}`, true},
		{`{"version":"0.1.0","name":"legacy","instructions":[]}`, false},
		{`{"version":"0.1.0","name":"legacy","address":"x"}`, false},
		{`not json`, false},
	}
	for _, tc := range cases {
		if got := LooksCurrent([]byte(tc.raw)); got != tc.want {
			t.Fatalf("LooksCurrent(%s) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
