package idlcheck

import (
	"errors"
	"testing"

	"idlkit/internal/idl"
	"idlkit/internal/idlerr"
)

func minimalDoc() *idl.Document {
	return &idl.Document{
		Address:  "Prog1111111111111111111111111111111111111111",
		Metadata: idl.Metadata{Name: "demo", Version: "0.1.0", Spec: "0.1.0"},
		Instructions: []idl.Instruction{
			{Name: "initialize", Discriminator: idl.Bytes{175, 175, 109, 31, 13, 152, 155, 237}},
		},
		Accounts: []idl.AccountDef{{Name: "Config", Discriminator: idl.Bytes{155, 12, 170, 224, 30, 250, 204, 130}}},
		Events:   []idl.EventDef{{Name: "Initialized", Discriminator: idl.Bytes{208, 213, 115, 98, 115, 82, 201, 209}}},
		Types:    []idl.TypeDef{{Name: "Config", Type: idl.TypeDefBody{Kind: idl.KindStruct}}},
	}
}

func TestValidateMinimalDocument(t *testing.T) {
	v, err := Validate(minimalDoc())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := Verdict{Program: "demo", Version: "0.1.0", Accounts: 1, Instructions: 1, Events: 1, Types: 1}
	if v != want {
		t.Fatalf("Validate = %+v, want %+v", v, want)
	}
}

func TestValidateAddressCheckedFirst(t *testing.T) {
	doc := minimalDoc()
	doc.Address = ""
	doc.Metadata.Name = ""
	doc.Metadata.Version = ""
	_, err := Validate(doc)
	if !errors.Is(err, idlerr.MissingAddress) {
		t.Fatalf("Validate = %v, want MissingAddress", err)
	}
}

func TestValidateOrder(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*idl.Document)
		want   idlerr.Kind
	}{
		{"name before version", func(d *idl.Document) { d.Metadata.Name = ""; d.Metadata.Version = "" }, idlerr.MissingName},
		{"version", func(d *idl.Document) { d.Metadata.Version = "" }, idlerr.MissingVersion},
		{
			"version before discriminators",
			func(d *idl.Document) { d.Metadata.Version = ""; d.Accounts[0].Discriminator = nil },
			idlerr.MissingVersion,
		},
		{
			"accounts before instructions",
			func(d *idl.Document) { d.Instructions[0].Discriminator = nil; d.Accounts[0].Discriminator = idl.Bytes{} },
			idlerr.EmptyDiscriminator,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := minimalDoc()
			tc.mutate(doc)
			_, err := Validate(doc)
			if got := idlerr.KindOf(err); got != tc.want {
				t.Fatalf("Validate kind = %v (%v), want %v", got, err, tc.want)
			}
		})
	}
}

func TestValidateNamesFirstEmptyDiscriminator(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*idl.Document)
		subject idlerr.Subject
		item    string
	}{
		{
			"account",
			func(d *idl.Document) {
				d.Accounts = append(d.Accounts, idl.AccountDef{Name: "Vault"}, idl.AccountDef{Name: "Later"})
				d.Instructions[0].Discriminator = nil
			},
			idlerr.SubjectAccount, "Vault",
		},
		{
			"instruction",
			func(d *idl.Document) {
				d.Instructions = append(d.Instructions, idl.Instruction{Name: "withdraw"})
				d.Events[0].Discriminator = nil
			},
			idlerr.SubjectInstruction, "withdraw",
		},
		{
			"event",
			func(d *idl.Document) { d.Events = append(d.Events, idl.EventDef{Name: "Closed"}) },
			idlerr.SubjectEvent, "Closed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := minimalDoc()
			tc.mutate(doc)
			_, err := Validate(doc)
			var e *idlerr.Error
			if !errors.As(err, &e) || e.Kind != idlerr.EmptyDiscriminator {
				t.Fatalf("Validate = %v, want EmptyDiscriminator", err)
			}
			if e.Subject != tc.subject || e.Name != tc.item {
				t.Fatalf("subject/name = %s/%s, want %s/%s", e.Subject, e.Name, tc.subject, tc.item)
			}
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	doc := minimalDoc()
	before := len(doc.Instructions[0].Discriminator)
	if _, err := Validate(doc); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(doc.Instructions[0].Discriminator) != before || doc.Address == "" {
		t.Fatalf("document mutated")
	}
}
