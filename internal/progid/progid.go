// Package progid locates the program identifier declared in an Anchor
// program's source.
package progid

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gagliardetto/solana-go"

	"idlkit/internal/idlerr"
)

// MacroToken prefixes the declaration line.
const MacroToken = "declare_id!"

// SourceFile is the program entry file, relative to the program root.
var SourceFile = filepath.Join("src", "lib.rs")

// Extract returns the quoted literal of the first line whose trimmed content
// starts with declare_id!. The literal is not validated; "" is a valid result.
func Extract(src string) (string, error) {
	for i, line := range strings.Split(src, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), MacroToken) {
			continue
		}
		start := strings.IndexByte(line, '"')
		if start < 0 {
			return "", malformedLiteral(i+1, "no opening quote")
		}
		end := strings.IndexByte(line[start+1:], '"')
		if end < 0 {
			return "", malformedLiteral(i+1, "unterminated literal")
		}
		return line[start+1 : start+1+end], nil
	}
	return "", &idlerr.Error{Kind: idlerr.MacroNotFound}
}

func malformedLiteral(line int, what string) error {
	return &idlerr.Error{Kind: idlerr.MalformedLiteral, Field: "declare_id", Err: fmt.Errorf("line %d: %s", line, what)}
}

// ExtractFile reads <programRoot>/src/lib.rs and extracts the identifier.
func ExtractFile(programRoot string) (string, error) {
	path := filepath.Join(programRoot, SourceFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &idlerr.Error{Kind: idlerr.SourceNotFound, Path: path, Err: err}
		}
		return "", idlerr.Wrap(idlerr.IoFailure, "read", path, err)
	}
	id, err := Extract(string(data))
	if err != nil {
		var e *idlerr.Error
		if errors.As(err, &e) {
			e.Path = path
		}
		return "", err
	}
	return id, nil
}

// VerifyPubkey reports whether id decodes as a 32-byte base58 public key.
func VerifyPubkey(id string) error {
	if _, err := solana.PublicKeyFromBase58(id); err != nil {
		return &idlerr.Error{Kind: idlerr.MalformedLiteral, Field: "declare_id", Err: fmt.Errorf("%q is not a public key: %w", id, err)}
	}
	return nil
}
