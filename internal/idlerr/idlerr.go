// Package idlerr defines the error kinds shared by the extractor, patcher,
// validator and engine.
//
// Every failure surfaced by idlkit is an *Error carrying a Kind. Kind itself
// implements error, so callers can match with errors.Is:
//
//	if errors.Is(err, idlerr.MacroNotFound) { ... }
//
// Context (operation, file, field) is attached once at the boundary that knows
// it; further layers wrap with fmt.Errorf("...: %w", err).
package idlerr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind uint16

const (
	Unknown Kind = 0

	// исходники программы
	SourceNotFound   Kind = 1001
	MacroNotFound    Kind = 1002
	MalformedLiteral Kind = 1003

	// шаблон
	TemplateParseError Kind = 2001
	MissingProgramName Kind = 2002
	InvalidProgramName Kind = 2003

	// валидация документа
	MissingAddress     Kind = 3001
	MissingName        Kind = 3002
	MissingVersion     Kind = 3003
	EmptyDiscriminator Kind = 3004

	IoFailure            Kind = 4001
	SerializationFailure Kind = 4002

	EngineBuildFailure   Kind = 5001
	EngineConvertFailure Kind = 5002
)

// MalformedTemplate is the patcher-facing name of TemplateParseError.
const MalformedTemplate = TemplateParseError

var kindTitle = map[Kind]string{
	Unknown:              "unknown error",
	SourceNotFound:       "program source not found",
	MacroNotFound:        "could not find declare_id! in source code",
	MalformedLiteral:     "invalid declare_id! format",
	TemplateParseError:   "template is not a valid JSON object",
	MissingProgramName:   "program name not found in template IDL",
	InvalidProgramName:   "program name is not a valid file name",
	MissingAddress:       "IDL is missing program address",
	MissingName:          "IDL is missing program name",
	MissingVersion:       "IDL is missing version",
	EmptyDiscriminator:   "empty discriminator",
	IoFailure:            "I/O failure",
	SerializationFailure: "failed to serialize IDL",
	EngineBuildFailure:   "failed to build IDL",
	EngineConvertFailure: "failed to convert IDL",
}

// ID returns a stable short identifier such as "SRC1002".
func (k Kind) ID() string {
	ik := int(k)
	switch {
	case ik >= 1000 && ik < 2000:
		return fmt.Sprintf("SRC%04d", ik)
	case ik >= 2000 && ik < 3000:
		return fmt.Sprintf("TPL%04d", ik)
	case ik >= 3000 && ik < 4000:
		return fmt.Sprintf("IDL%04d", ik)
	case ik >= 4000 && ik < 5000:
		return fmt.Sprintf("IO%04d", ik)
	case ik >= 5000 && ik < 6000:
		return fmt.Sprintf("ENG%04d", ik)
	}
	return "E0000"
}

func (k Kind) Title() string {
	if t, ok := kindTitle[k]; ok {
		return t
	}
	return kindTitle[Unknown]
}

// Error makes Kind usable as an errors.Is target.
func (k Kind) Error() string { return k.Title() }

// Subject names the kind of item whose discriminator is checked.
type Subject string

const (
	SubjectAccount     Subject = "account"
	SubjectInstruction Subject = "instruction"
	SubjectEvent       Subject = "event"
)

// Error is the concrete error value. Only Kind is required.
type Error struct {
	Kind    Kind
	Op      string // e.g. "patch", "validate"
	Path    string // file involved, if any
	Field   string // document field involved, if any
	Subject Subject
	Name    string // item name for EmptyDiscriminator
	Err     error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 4)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	parts = append(parts, e.detail())
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) detail() string {
	switch e.Kind {
	case EmptyDiscriminator:
		subject := string(e.Subject)
		if subject != "" {
			subject = strings.ToUpper(subject[:1]) + subject[1:]
		}
		return fmt.Sprintf("%s '%s' has an empty discriminator", subject, e.Name)
	case MissingProgramName, InvalidProgramName, MalformedLiteral:
		if e.Field != "" {
			return fmt.Sprintf("%s (field %q)", e.Kind.Title(), e.Field)
		}
	}
	return e.Kind.Title()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap builds an *Error of the given kind around cause.
func Wrap(kind Kind, op, path string, cause error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: cause}
}

// KindOf reports the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return Unknown
}
