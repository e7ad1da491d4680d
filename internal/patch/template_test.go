package patch

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"idlkit/internal/idlerr"
)

func mustParse(t *testing.T, src string) *Template {
	t.Helper()
	tpl, err := ParseTemplate([]byte(src))
	if err != nil {
		t.Fatalf("ParseTemplate(%q): %v", src, err)
	}
	return tpl
}

func TestSetAddressKeepsPosition(t *testing.T) {
	tpl := mustParse(t, `{"name":"demo","address":"old","version":"0.1.0"}`)
	if err := tpl.SetAddress("NewId111"); err != nil {
		t.Fatal(err)
	}
	got, err := tpl.MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"name\": \"demo\",\n  \"address\": \"NewId111\",\n  \"version\": \"0.1.0\"\n}\n"
	if string(got) != want {
		t.Fatalf("MarshalIndent =\n%s\nwant\n%s", got, want)
	}
}

func TestSetAddressAppendsWhenAbsent(t *testing.T) {
	tpl := mustParse(t, `{"version":"0.1.0","name":"demo"}`)
	if err := tpl.SetAddress("Id"); err != nil {
		t.Fatal(err)
	}
	keys := strings.Join(tpl.Keys(), ",")
	if keys != "version,name,address" {
		t.Fatalf("Keys = %s", keys)
	}
}

func TestSetAddressIdempotent(t *testing.T) {
	const src = `{"name":"demo","instructions":[{"name":"init","args":[]}]}`
	once := mustParse(t, src)
	twice := mustParse(t, src)
	for _, tpl := range []*Template{once, twice} {
		if err := tpl.SetAddress("Same"); err != nil {
			t.Fatal(err)
		}
	}
	if err := twice.SetAddress("Same"); err != nil {
		t.Fatal(err)
	}
	a, _ := once.MarshalIndent()
	b, _ := twice.MarshalIndent()
	if !bytes.Equal(a, b) {
		t.Fatalf("SetAddress twice differs:\n%s\nvs\n%s", a, b)
	}
}

func TestMarshalPreservesRawNumbers(t *testing.T) {
	tpl := mustParse(t, `{"name":"demo","big":12345678901234567890,"huge":1e400,"nested":{"z":1,"a":0.10},"esc":"caf\u00e9"}`)
	if err := tpl.SetAddress("Id"); err != nil {
		t.Fatal(err)
	}
	out, err := tpl.MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	for _, want := range []string{"12345678901234567890", "1e400", "0.10", `"caf\u00e9"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("output lost %s:\n%s", want, text)
		}
	}
	if strings.Index(text, `"z"`) > strings.Index(text, `"a"`) {
		t.Fatalf("nested member order changed:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Fatalf("missing trailing newline")
	}
}

func TestMarshalIndentKeepsNumberText(t *testing.T) {
	tpl := mustParse(t, `{"name":"demo","huge":1e400,"tiny":-2.5E-400,"list":[1e400,0.10]}`)
	if err := tpl.SetAddress("Id"); err != nil {
		t.Fatal(err)
	}
	got, err := tpl.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	want := "{\n  \"name\": \"demo\",\n  \"huge\": 1e400,\n  \"tiny\": -2.5E-400,\n  \"list\": [\n    1e400,\n    0.10\n  ],\n  \"address\": \"Id\"\n}\n"
	if string(got) != want {
		t.Fatalf("MarshalIndent =\n%s\nwant\n%s", got, want)
	}
}

func TestParseTemplateRejects(t *testing.T) {
	for _, src := range []string{"", "[]", `"name"`, "42", `{"name":`, `{"name":"a"} {}`, "not json"} {
		if _, err := ParseTemplate([]byte(src)); !errors.Is(err, idlerr.MalformedTemplate) {
			t.Fatalf("ParseTemplate(%q) = %v, want MalformedTemplate", src, err)
		}
	}
}

func TestParseTemplateDuplicateKeyLastWins(t *testing.T) {
	tpl := mustParse(t, `{"name":"first","version":"1","name":"second"}`)
	name, err := tpl.Name()
	if err != nil || name != "second" {
		t.Fatalf("Name = %q, %v; want second", name, err)
	}
	if keys := strings.Join(tpl.Keys(), ","); keys != "name,version" {
		t.Fatalf("Keys = %s", keys)
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		src  string
		want string
		kind idlerr.Kind
	}{
		{`{"name":"vault"}`, "vault", idlerr.Unknown},
		{`{"metadata":{"name":"vault","version":"0.1.0"}}`, "", idlerr.MissingProgramName},
		{`{"name":"legacy","metadata":{"name":"other"}}`, "legacy", idlerr.Unknown},
		{`{"name":7}`, "", idlerr.MissingProgramName},
		{`{"name":null}`, "", idlerr.MissingProgramName},
		{`{"version":"0.1.0"}`, "", idlerr.MissingProgramName},
	}
	for _, tc := range cases {
		got, err := mustParse(t, tc.src).Name()
		if idlerr.KindOf(err) != tc.kind {
			t.Fatalf("Name(%s) err = %v, want kind %v", tc.src, err, tc.kind)
		}
		if got != tc.want {
			t.Fatalf("Name(%s) = %q, want %q", tc.src, got, tc.want)
		}
	}
}
