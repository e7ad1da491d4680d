package idlfmt

import (
	"strconv"
	"strings"

	"idlkit/internal/idl"
)

// UnknownType is rendered for type forms the formatter does not recognise.
const UnknownType = "<unknown type>"

// FormatType renders t as it would be spelled in program source:
// "u8", "Option<Vec<pubkey>>", "[u8; 32]", "Ring<u64, 4>".
// Unrecognised forms (COption, Unknown, nil) render as UnknownType; this never
// fails.
func FormatType(t idl.Type) string {
	var sb strings.Builder
	writeType(&sb, t)
	return sb.String()
}

func writeType(sb *strings.Builder, t idl.Type) {
	switch ty := t.(type) {
	case idl.Scalar:
		sb.WriteString(string(ty))
	case idl.Option:
		sb.WriteString("Option<")
		writeType(sb, ty.Inner)
		sb.WriteByte('>')
	case idl.Vec:
		sb.WriteString("Vec<")
		writeType(sb, ty.Inner)
		sb.WriteByte('>')
	case idl.Array:
		sb.WriteByte('[')
		writeType(sb, ty.Elem)
		sb.WriteString("; ")
		if ty.Len.IsGeneric() {
			sb.WriteString(ty.Len.Generic)
		} else {
			sb.WriteString(strconv.Itoa(ty.Len.Value))
		}
		sb.WriteByte(']')
	case idl.Defined:
		sb.WriteString(ty.Name)
		if len(ty.Generics) == 0 {
			return
		}
		sb.WriteByte('<')
		for i, g := range ty.Generics {
			if i > 0 {
				sb.WriteString(", ")
			}
			if g.IsConst() {
				sb.WriteString(g.Value)
			} else {
				writeType(sb, g.Type)
			}
		}
		sb.WriteByte('>')
	case idl.Generic:
		sb.WriteString(ty.Name)
	default:
		sb.WriteString(UnknownType)
	}
}
