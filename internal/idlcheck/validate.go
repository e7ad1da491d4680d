// Package idlcheck validates the structural invariants of a parsed IDL.
package idlcheck

import (
	"idlkit/internal/idl"
	"idlkit/internal/idlerr"
)

// Verdict summarises a valid document.
type Verdict struct {
	Program      string
	Version      string
	Accounts     int
	Instructions int
	Events       int
	Types        int
	Errors       int
}

// Validate checks, in order: address, metadata.name, metadata.version, then
// account, instruction and event discriminators in document order. The first
// violation is returned; nothing is aggregated.
func Validate(doc *idl.Document) (Verdict, error) {
	if doc.Address == "" {
		return Verdict{}, &idlerr.Error{Kind: idlerr.MissingAddress, Field: "address"}
	}
	if doc.Metadata.Name == "" {
		return Verdict{}, &idlerr.Error{Kind: idlerr.MissingName, Field: "metadata.name"}
	}
	if doc.Metadata.Version == "" {
		return Verdict{}, &idlerr.Error{Kind: idlerr.MissingVersion, Field: "metadata.version"}
	}
	for _, acc := range doc.Accounts {
		if len(acc.Discriminator) == 0 {
			return Verdict{}, emptyDiscriminator(idlerr.SubjectAccount, acc.Name)
		}
	}
	for i := range doc.Instructions {
		if len(doc.Instructions[i].Discriminator) == 0 {
			return Verdict{}, emptyDiscriminator(idlerr.SubjectInstruction, doc.Instructions[i].Name)
		}
	}
	for _, ev := range doc.Events {
		if len(ev.Discriminator) == 0 {
			return Verdict{}, emptyDiscriminator(idlerr.SubjectEvent, ev.Name)
		}
	}
	return Verdict{
		Program:      doc.Metadata.Name,
		Version:      doc.Metadata.Version,
		Accounts:     len(doc.Accounts),
		Instructions: len(doc.Instructions),
		Events:       len(doc.Events),
		Types:        len(doc.Types),
		Errors:       len(doc.Errors),
	}, nil
}

func emptyDiscriminator(subject idlerr.Subject, name string) error {
	return &idlerr.Error{
		Kind:    idlerr.EmptyDiscriminator,
		Field:   string(subject) + "s",
		Subject: subject,
		Name:    name,
	}
}
