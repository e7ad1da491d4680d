package idlerr

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorMatchesKindThroughWrapping(t *testing.T) {
	base := &Error{Kind: MacroNotFound, Op: "extract", Path: "src/lib.rs"}
	wrapped := fmt.Errorf("failed to extract program ID: %w", base)

	if !errors.Is(wrapped, MacroNotFound) {
		t.Fatalf("errors.Is(wrapped, MacroNotFound) = false")
	}
	if errors.Is(wrapped, MalformedLiteral) {
		t.Fatalf("errors.Is(wrapped, MalformedLiteral) = true")
	}
	if got := KindOf(wrapped); got != MacroNotFound {
		t.Fatalf("KindOf = %v, want %v", got, MacroNotFound)
	}
}

func TestErrorKeepsCause(t *testing.T) {
	err := Wrap(IoFailure, "patch", "/tmp/out.json", os.ErrPermission)
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("cause lost: %v", err)
	}
	want := "patch: /tmp/out.json: I/O failure: permission denied"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestEmptyDiscriminatorMessage(t *testing.T) {
	cases := []struct {
		subject Subject
		name    string
		want    string
	}{
		{SubjectAccount, "Vault", "Account 'Vault' has an empty discriminator"},
		{SubjectInstruction, "initialize", "Instruction 'initialize' has an empty discriminator"},
		{SubjectEvent, "Deposited", "Event 'Deposited' has an empty discriminator"},
	}
	for _, tc := range cases {
		err := &Error{Kind: EmptyDiscriminator, Subject: tc.subject, Name: tc.name}
		if got := err.Error(); got != tc.want {
			t.Fatalf("Error() = %q, want %q", got, tc.want)
		}
	}
}

func TestKindID(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{MacroNotFound, "SRC1002"},
		{TemplateParseError, "TPL2001"},
		{MissingVersion, "IDL3003"},
		{IoFailure, "IO4001"},
		{EngineConvertFailure, "ENG5002"},
		{Unknown, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.kind.ID(); got != tc.want {
			t.Fatalf("%v.ID() = %q, want %q", tc.kind, got, tc.want)
		}
	}
	if MalformedTemplate != TemplateParseError {
		t.Fatalf("MalformedTemplate must alias TemplateParseError")
	}
}
