package idlfmt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idlkit/internal/idl"
)

func loadVault(t *testing.T) *idl.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "idl", "testdata", "vault.json"))
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}
	doc, err := idl.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestInstructionsFullReport(t *testing.T) {
	doc := loadVault(t)
	var buf bytes.Buffer
	if err := Instructions(&buf, doc, ReportOpts{}); err != nil {
		t.Fatalf("Instructions: %v", err)
	}
	want := `
Program: vault (v0.1.0)
Address: Vau1t11111111111111111111111111111111111111

Instructions (2):

1. deposit
   Description:
     Moves lamports into the vault.
   Arguments:
     amount (u64)
       Lamports to move.
     memo (Option<Vec<pubkey>>)
   Accounts:
      authority_group:
        payer (writable, signer)
        vault (writable)
      state
        PDA with 2 seeds
      system_program

2. snapshot
   Arguments: None
   Accounts:
     None
   Returns: Ring<u64, 4>
`
	if got := buf.String(); got != want {
		t.Fatalf("Instructions =\n%s\nwant\n%s", got, want)
	}
}

func TestInstructionsNamesOnly(t *testing.T) {
	doc := loadVault(t)
	var buf bytes.Buffer
	if err := Instructions(&buf, doc, ReportOpts{NamesOnly: true}); err != nil {
		t.Fatalf("Instructions: %v", err)
	}
	out := buf.String()
	for _, banned := range []string{"Arguments", "Accounts:", "Description", "Returns"} {
		if strings.Contains(out, banned) {
			t.Fatalf("names-only output contains %q:\n%s", banned, out)
		}
	}
	first := strings.Index(out, "1. deposit")
	second := strings.Index(out, "2. snapshot")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("names out of order:\n%s", out)
	}
}

func TestInstructionsColor(t *testing.T) {
	doc := &idl.Document{Address: "A", Metadata: idl.Metadata{Name: "p", Version: "1"}}
	var plain, colored bytes.Buffer
	if err := Instructions(&plain, doc, ReportOpts{}); err != nil {
		t.Fatalf("Instructions: %v", err)
	}
	if err := Instructions(&colored, doc, ReportOpts{Color: true}); err != nil {
		t.Fatalf("Instructions: %v", err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escape codes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escape codes: %q", colored.String())
	}
}
