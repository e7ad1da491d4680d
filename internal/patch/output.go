package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"idlkit/internal/idlerr"
)

// ResolveOutputPath returns explicit when set, otherwise
// <programRoot>/target/idl/<name>.json. The name must stay inside that
// directory: separators and dot names are rejected.
func ResolveOutputPath(programRoot, explicit, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", &idlerr.Error{Kind: idlerr.InvalidProgramName, Field: "name", Err: fmt.Errorf("%q", name)}
	}
	return filepath.Join(programRoot, "target", "idl", name+".json"), nil
}

// WriteFile writes data to path through a temp file in the same directory,
// creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return idlerr.Wrap(idlerr.IoFailure, "write", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return idlerr.Wrap(idlerr.IoFailure, "write", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return idlerr.Wrap(idlerr.IoFailure, "write", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return idlerr.Wrap(idlerr.IoFailure, "write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return idlerr.Wrap(idlerr.IoFailure, "write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return idlerr.Wrap(idlerr.IoFailure, "write", path, err)
	}
	return nil
}
