package engine

import (
	"fmt"

	"idlkit/internal/idl"
	"idlkit/internal/idlerr"
)

// SpecVersion is written to metadata.spec of converted documents.
const SpecVersion = "0.1.0"

// Convert parses raw as a current-format document, or converts it from the
// legacy layout when it does not look current.
func (n *Native) Convert(raw []byte) (*idl.Document, error) {
	return Convert(raw)
}

// Convert is the engine-independent conversion used by Native.
func Convert(raw []byte) (*idl.Document, error) {
	if idl.LooksCurrent(raw) {
		doc, err := idl.Parse(raw)
		if err != nil {
			return nil, idlerr.Wrap(idlerr.EngineConvertFailure, "convert", "", err)
		}
		return doc, nil
	}
	legacy, err := parseLegacy(raw)
	if err != nil {
		return nil, idlerr.Wrap(idlerr.EngineConvertFailure, "convert", "", err)
	}
	doc, err := legacy.convert()
	if err != nil {
		return nil, idlerr.Wrap(idlerr.EngineConvertFailure, "convert", "", fmt.Errorf("legacy IDL %q: %w", legacy.Name, err))
	}
	return doc, nil
}
