package idlfmt

import (
	"testing"

	json "github.com/goccy/go-json"

	"idlkit/internal/idl"
)

func TestFormatType(t *testing.T) {
	cases := []struct {
		name string
		ty   idl.Type
		want string
	}{
		{"bool", idl.ScalarBool, "bool"},
		{"u8", idl.ScalarU8, "u8"},
		{"i256", idl.ScalarI256, "i256"},
		{"pubkey", idl.ScalarPubkey, "pubkey"},
		{"bytes", idl.ScalarBytes, "bytes"},
		{"string", idl.ScalarString, "string"},
		{"array literal", idl.Array{Elem: idl.ScalarU8, Len: idl.ArrayLen{Value: 32}}, "[u8; 32]"},
		{"array generic", idl.Array{Elem: idl.Generic{Name: "T"}, Len: idl.ArrayLen{Generic: "N"}}, "[T; N]"},
		{"defined plain", idl.Defined{Name: "Foo"}, "Foo"},
		{"defined generic", idl.Defined{Name: "Foo", Generics: []idl.GenericArg{{Type: idl.ScalarU64}}}, "Foo<u64>"},
		{
			"defined const",
			idl.Defined{Name: "Ring", Generics: []idl.GenericArg{{Type: idl.Vec{Inner: idl.ScalarU8}}, {Value: "16"}}},
			"Ring<Vec<u8>, 16>",
		},
		{"option vec", idl.Option{Inner: idl.Vec{Inner: idl.ScalarPubkey}}, "Option<Vec<pubkey>>"},
		{"generic", idl.Generic{Name: "T"}, "T"},
		{"coption", idl.COption{Inner: idl.ScalarU64}, UnknownType},
		{"unknown", idl.Unknown{Raw: json.RawMessage(`{"hashMap":[]}`)}, UnknownType},
		{"nil", nil, UnknownType},
		{"nested unknown", idl.Vec{Inner: idl.Unknown{}}, "Vec<" + UnknownType + ">"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatType(tc.ty); got != tc.want {
				t.Fatalf("FormatType(%#v) = %q, want %q", tc.ty, got, tc.want)
			}
		})
	}
}
