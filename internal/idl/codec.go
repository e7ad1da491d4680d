package idl

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Parse decodes a current-format IDL document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid IDL JSON: %w", err)
	}
	return &doc, nil
}

// MarshalIndent renders doc as two-space indented JSON with a trailing
// newline.
func MarshalIndent(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// LooksCurrent reports whether data is shaped like a current-format document.
// metadata.spec decides; otherwise a top-level name marks the legacy layout
// and a top-level address the current one.
func LooksCurrent(data []byte) bool {
	var probe struct {
		Address  *string `json:"address"`
		Name     *string `json:"name"`
		Metadata *struct {
			Spec *string `json:"spec"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &probe); err != nil {
		return false
	}
	if probe.Metadata != nil && probe.Metadata.Spec != nil {
		return true
	}
	if probe.Name != nil {
		return false
	}
	return probe.Address != nil
}
