package engine

import (
	"bufio"
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"idlkit/internal/idl"
	"idlkit/internal/idlerr"
	"idlkit/internal/trace"
)

// CommandRunner runs name with args in dir and returns its stdout.
type CommandRunner func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)

// ExecRunner runs the command through os/exec. Stderr is folded into the
// returned error when the command fails.
func ExecRunner(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.Bytes(), err
		}
		return stdout.Bytes(), fmt.Errorf("%w\n%s", err, msg)
	}
	return stdout.Bytes(), nil
}

// cargoArgs is the test invocation that makes an idl-build program print its IDL.
var cargoArgs = []string{
	"test", "__anchor_private_print_idl",
	"--features", "idl-build",
	"--", "--show-output", "--quiet",
}

// Build compiles the program at opts.ProgramRoot and returns its IDL.
func (n *Native) Build(ctx context.Context, opts BuildOptions) (*idl.Document, error) {
	root, err := filepath.Abs(opts.ProgramRoot)
	if err != nil {
		return nil, idlerr.Wrap(idlerr.EngineBuildFailure, "build", opts.ProgramRoot, err)
	}
	ctx, span := trace.Start(ctx, trace.ScopeStage, "build:"+filepath.Base(root))

	doc, cached, err := n.build(ctx, root, opts)
	if err != nil {
		trace.Failure(ctx, trace.ScopeStage, "build", err)
		span.End("failed")
		return nil, err
	}
	span.Set("cached", fmt.Sprint(cached)).End(doc.Metadata.Name)
	return doc, nil
}

func (n *Native) build(ctx context.Context, root string, opts BuildOptions) (*idl.Document, bool, error) {
	if _, err := os.Stat(filepath.Join(root, "Cargo.toml")); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, &idlerr.Error{Kind: idlerr.EngineBuildFailure, Op: "build", Path: root, Err: errors.New("no Cargo.toml in program root")}
		}
		return nil, false, idlerr.Wrap(idlerr.EngineBuildFailure, "build", root, err)
	}

	var key Digest
	useCache := n.Cache != nil && !opts.NoCache
	if useCache {
		k, err := BuildKey(root, opts)
		if err != nil {
			useCache = false
			trace.Note(ctx, trace.ScopeItem, "cache", "key: "+err.Error())
		} else {
			key = k
			if doc, ok := n.Cache.Load(key); ok {
				trace.Note(ctx, trace.ScopeItem, "cache", "hit "+key.Short())
				if opts.OnCached != nil {
					opts.OnCached()
				}
				return doc, true, nil
			}
			trace.Note(ctx, trace.ScopeItem, "cache", "miss "+key.Short())
		}
	}

	env, err := buildEnv(root, opts)
	if err != nil {
		return nil, false, idlerr.Wrap(idlerr.EngineBuildFailure, "build", root, err)
	}
	run := n.Run
	if run == nil {
		run = ExecRunner
	}
	cargo := n.Cargo
	if cargo == "" {
		cargo = "cargo"
	}
	trace.Note(ctx, trace.ScopeItem, "cargo", strings.Join(append([]string{cargo}, cargoArgs...), " "))
	out, err := run(ctx, root, env, cargo, cargoArgs...)
	if err != nil {
		return nil, false, idlerr.Wrap(idlerr.EngineBuildFailure, "build", root, err)
	}
	doc, err := ParseBuildOutput(out)
	if err != nil {
		return nil, false, idlerr.Wrap(idlerr.EngineBuildFailure, "build", root, err)
	}

	if useCache {
		if err := n.Cache.Store(key, doc); err != nil {
			trace.Note(ctx, trace.ScopeItem, "cache", "store: "+err.Error())
		}
	}
	return doc, false, nil
}

// buildEnv layers the process environment, <root>/.env and the idl-build
// switches, later entries winning.
func buildEnv(root string, opts BuildOptions) ([]string, error) {
	env := os.Environ()
	dotenv, err := godotenv.Read(filepath.Join(root, ".env"))
	switch {
	case err == nil:
		for k, v := range dotenv {
			env = append(env, k+"="+v)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return append(env,
		"ANCHOR_IDL_BUILD_NO_DOCS="+flag(opts.SkipDocs),
		"ANCHOR_IDL_BUILD_SKIP_LINT="+flag(opts.SkipLint),
		"ANCHOR_IDL_BUILD_RESOLUTION="+flag(opts.ResolveAccounts),
		"ANCHOR_IDL_BUILD_PROGRAM_PATH="+root,
	), nil
}

func flag(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

const (
	blockBegin = "--- IDL begin "
	blockEnd   = "--- IDL end "
	blockTail  = " ---"
)

type outputBlock struct {
	name string
	body []byte
}

// ParseBuildOutput collects the "--- IDL begin <name> ---" blocks printed by
// the idl-build test and assembles the document. The "program" block is
// required. An "address" block overrides the address; "event", "errors" and
// "const" blocks fill events, errors and constants. Event types are merged
// into types by name, program types win, and the result is sorted by name.
func ParseBuildOutput(out []byte) (*idl.Document, error) {
	blocks, err := scanBlocks(out)
	if err != nil {
		return nil, err
	}

	var (
		doc        *idl.Document
		address    *string
		events     []idl.EventDef
		errorCodes []idl.ErrorCode
		constants  []idl.Const
		eventTypes []idl.TypeDef
	)
	for _, b := range blocks {
		switch b.name {
		case "program":
			if doc, err = idl.Parse(b.body); err != nil {
				return nil, err
			}
		case "address":
			var s string
			if err := json.Unmarshal(bytes.TrimSpace(b.body), &s); err != nil {
				return nil, fmt.Errorf("address block: %w", err)
			}
			address = &s
		case "event":
			var ev struct {
				Event idl.EventDef  `json:"event"`
				Types []idl.TypeDef `json:"types"`
			}
			if err := json.Unmarshal(b.body, &ev); err != nil {
				return nil, fmt.Errorf("event block: %w", err)
			}
			events = append(events, ev.Event)
			eventTypes = append(eventTypes, ev.Types...)
		case "errors":
			var codes []idl.ErrorCode
			if err := json.Unmarshal(b.body, &codes); err != nil {
				return nil, fmt.Errorf("errors block: %w", err)
			}
			errorCodes = codes
		case "const":
			var c idl.Const
			if err := json.Unmarshal(b.body, &c); err != nil {
				return nil, fmt.Errorf("const block: %w", err)
			}
			constants = append(constants, c)
		}
	}
	if doc == nil {
		return nil, errors.New("build output has no IDL program block")
	}

	if address != nil {
		doc.Address = *address
	}
	if len(events) > 0 {
		doc.Events = events
	}
	if errorCodes != nil {
		doc.Errors = errorCodes
	}
	if len(constants) > 0 {
		doc.Constants = constants
	}
	if len(eventTypes) > 0 {
		doc.Types = mergeTypes(eventTypes, doc.Types)
	}
	return doc, nil
}

func scanBlocks(out []byte) ([]outputBlock, error) {
	var blocks []outputBlock
	var current *bytes.Buffer
	var name string
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(line, blockBegin) && strings.HasSuffix(line, blockTail):
			name = strings.TrimSuffix(strings.TrimPrefix(line, blockBegin), blockTail)
			current = &bytes.Buffer{}
		case strings.HasPrefix(line, blockEnd) && strings.HasSuffix(line, blockTail):
			if current != nil {
				blocks = append(blocks, outputBlock{name: name, body: current.Bytes()})
			}
			current = nil
		case current != nil:
			current.WriteString(line)
			current.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read build output: %w", err)
	}
	return blocks, nil
}

// mergeTypes unions two type lists by name; entries of later lists replace
// earlier ones. The result is sorted by name.
func mergeTypes(lists ...[]idl.TypeDef) []idl.TypeDef {
	byName := make(map[string]idl.TypeDef)
	for _, list := range lists {
		for _, td := range list {
			byName[td.Name] = td
		}
	}
	merged := make([]idl.TypeDef, 0, len(byName))
	for _, td := range byName {
		merged = append(merged, td)
	}
	slices.SortFunc(merged, func(a, b idl.TypeDef) int { return cmp.Compare(a.Name, b.Name) })
	return merged
}
