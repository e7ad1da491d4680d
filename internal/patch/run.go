package patch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"idlkit/internal/idlerr"
	"idlkit/internal/progid"
	"idlkit/internal/trace"
)

// Options configures one extract-and-patch run.
type Options struct {
	ProgramPath  string // program root containing src/lib.rs
	TemplatePath string
	OutputPath   string // empty: <ProgramPath>/target/idl/<name>.json
	VerifyID     bool   // reject identifiers that are not base58 public keys
}

// Result describes a completed run.
type Result struct {
	ProgramID  string
	Name       string
	OutputPath string
}

// Run reads the template, stamps it with the program's declared identifier
// and writes the result. Nothing is written unless every step succeeds.
func Run(ctx context.Context, opts Options) (Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeStage, "patch")

	res, err := run(ctx, opts)
	if err != nil {
		trace.Failure(ctx, trace.ScopeStage, "patch", err)
		span.End("failed")
		return Result{}, err
	}
	span.Set("program_id", res.ProgramID).Set("output", res.OutputPath).End("ok")
	return res, nil
}

func run(ctx context.Context, opts Options) (Result, error) {
	data, err := os.ReadFile(opts.TemplatePath)
	if err != nil {
		kind := idlerr.IoFailure
		if errors.Is(err, fs.ErrNotExist) {
			kind = idlerr.SourceNotFound
		}
		return Result{}, idlerr.Wrap(kind, "read template", opts.TemplatePath, err)
	}
	tpl, err := ParseTemplate(data)
	if err != nil {
		return Result{}, withPath(err, opts.TemplatePath)
	}
	name, err := tpl.Name()
	if err != nil {
		return Result{}, withPath(err, opts.TemplatePath)
	}
	trace.Note(ctx, trace.ScopeItem, "template", fmt.Sprintf("name=%s members=%d", name, len(tpl.members)))

	id, err := progid.ExtractFile(opts.ProgramPath)
	if err != nil {
		return Result{}, err
	}
	if opts.VerifyID {
		if err := progid.VerifyPubkey(id); err != nil {
			return Result{}, err
		}
	}
	trace.Note(ctx, trace.ScopeItem, "program id", id)

	if err := tpl.SetAddress(id); err != nil {
		return Result{}, err
	}
	out, err := tpl.MarshalIndent()
	if err != nil {
		return Result{}, err
	}
	path, err := ResolveOutputPath(opts.ProgramPath, opts.OutputPath, name)
	if err != nil {
		return Result{}, withPath(err, opts.TemplatePath)
	}
	if err := WriteFile(path, out); err != nil {
		return Result{}, err
	}
	return Result{ProgramID: id, Name: name, OutputPath: path}, nil
}

func withPath(err error, path string) error {
	var e *idlerr.Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}
