package engine

import (
	"crypto/sha256"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"idlkit/internal/idl"
)

// Discriminator namespaces.
const (
	nsInstruction = "global:"
	nsAccount     = "account:"
	nsEvent       = "event:"
)

// Discriminator returns the first eight bytes of sha256(namespace + name).
func Discriminator(namespace, name string) idl.Bytes {
	sum := sha256.Sum256([]byte(namespace + name))
	return idl.Bytes(append([]byte(nil), sum[:8]...))
}

// SnakeCase converts camelCase, PascalCase and kebab-case identifiers to
// snake_case. Input is NFC-normalized first.
func SnakeCase(s string) string {
	runes := []rune(norm.NFC.String(s))
	var b strings.Builder
	b.Grow(len(runes) + 4)
	sep := func() {
		out := b.String()
		if len(out) > 0 && out[len(out)-1] != '_' {
			b.WriteByte('_')
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			sep()
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sep()
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}
