package idlfmt

import (
	"bytes"
	"testing"

	"idlkit/internal/idl"
)

func TestRenderAccountsComposite(t *testing.T) {
	items := []idl.AccountItem{
		&idl.Composite{
			Name: "authority_group",
			Accounts: idl.AccountItems{
				&idl.Account{Name: "payer", Writable: true, Signer: true},
				&idl.Account{Name: "vault", Writable: true},
			},
		},
	}
	var buf bytes.Buffer
	if err := RenderAccounts(&buf, items, 0); err != nil {
		t.Fatalf("RenderAccounts: %v", err)
	}
	want := "" +
		"    authority_group:\n" +
		"      payer (writable, signer)\n" +
		"      vault (writable)\n"
	if got := buf.String(); got != want {
		t.Fatalf("RenderAccounts =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderAccountsAttributesAndPDA(t *testing.T) {
	items := []idl.AccountItem{
		&idl.Account{Name: "plain"},
		&idl.Account{Name: "all", Writable: true, Signer: true, Optional: true},
		&idl.Account{Name: "opt_signer", Signer: true, Optional: true},
		&idl.Account{Name: "state", PDA: &idl.PDA{Seeds: []idl.Seed{{Kind: "const"}, {Kind: "arg"}}}},
	}
	var buf bytes.Buffer
	if err := RenderAccounts(&buf, items, 1); err != nil {
		t.Fatalf("RenderAccounts: %v", err)
	}
	want := "" +
		"      plain\n" +
		"      all (writable, signer, optional)\n" +
		"      opt_signer (signer, optional)\n" +
		"      state\n" +
		"        PDA with 2 seeds\n"
	if got := buf.String(); got != want {
		t.Fatalf("RenderAccounts =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderAccountsDeepNesting(t *testing.T) {
	items := []idl.AccountItem{
		&idl.Composite{Name: "a", Accounts: idl.AccountItems{
			&idl.Composite{Name: "b", Accounts: idl.AccountItems{
				&idl.Account{Name: "leaf", Signer: true},
			}},
			&idl.Account{Name: "sibling"},
		}},
		&idl.Account{Name: "top"},
	}
	var buf bytes.Buffer
	if err := RenderAccounts(&buf, items, 0); err != nil {
		t.Fatalf("RenderAccounts: %v", err)
	}
	want := "" +
		"    a:\n" +
		"      b:\n" +
		"        leaf (signer)\n" +
		"      sibling\n" +
		"    top\n"
	if got := buf.String(); got != want {
		t.Fatalf("RenderAccounts =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderAccountsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderAccounts(&buf, nil, 0); err != nil {
		t.Fatalf("RenderAccounts: %v", err)
	}
	if got := buf.String(); got != "    None\n" {
		t.Fatalf("RenderAccounts(nil) = %q", got)
	}
}
