package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"idlkit/internal/engine"
	"idlkit/internal/idl"
	"idlkit/internal/observ"
	"idlkit/internal/trace"
	"idlkit/internal/ui"
	"idlkit/internal/workspace"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the IDL of an Anchor program from its sources",
	Long: `Build runs the program's idl-build test through cargo and writes the
resulting IDL. With --all every program of the surrounding Anchor workspace
is built into target/idl/<name>.json.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("path", "p", ".", "program root (or any directory inside the workspace with --all)")
	buildCmd.Flags().StringP("output", "o", "", "output file (default <name>.json); output directory with --all")
	buildCmd.Flags().Bool("skip-lint", false, "skip the idl-build safety checks")
	buildCmd.Flags().Bool("no-docs", false, "omit doc comments from the IDL")
	buildCmd.Flags().Bool("no-resolution", false, "do not resolve account addresses (PDAs, relations)")
	buildCmd.Flags().Bool("no-cache", false, "always run cargo, ignoring cached builds")
	buildCmd.Flags().Bool("all", false, "build every program of the Anchor workspace")
	buildCmd.Flags().IntP("jobs", "j", 0, "programs built in parallel with --all (0 = GOMAXPROCS)")
	buildCmd.Flags().String("ui", "auto", "progress UI for --all (auto|on|off)")
}

type buildFlags struct {
	path         string
	output       string
	skipLint     bool
	noDocs       bool
	noResolution bool
	noCache      bool
	all          bool
	jobs         int
	ui           tristate
}

func readBuildFlags(cmd *cobra.Command) (buildFlags, error) {
	var bf buildFlags
	var err error
	flags := cmd.Flags()
	if bf.path, err = flags.GetString("path"); err != nil {
		return bf, err
	}
	if bf.output, err = flags.GetString("output"); err != nil {
		return bf, err
	}
	if bf.skipLint, err = flags.GetBool("skip-lint"); err != nil {
		return bf, err
	}
	if bf.noDocs, err = flags.GetBool("no-docs"); err != nil {
		return bf, err
	}
	if bf.noResolution, err = flags.GetBool("no-resolution"); err != nil {
		return bf, err
	}
	if bf.noCache, err = flags.GetBool("no-cache"); err != nil {
		return bf, err
	}
	if bf.all, err = flags.GetBool("all"); err != nil {
		return bf, err
	}
	if bf.jobs, err = flags.GetInt("jobs"); err != nil {
		return bf, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return bf, err
	}
	if bf.ui, err = parseTristate("ui", uiValue); err != nil {
		return bf, err
	}
	return bf, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	bf, err := readBuildFlags(cmd)
	if err != nil {
		return err
	}
	if bf.all {
		return runWorkspaceBuild(cmd, bf)
	}

	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	opts := engine.BuildOptions{
		ProgramRoot:     bf.path,
		ResolveAccounts: !bf.noResolution,
		SkipLint:        bf.skipLint,
		SkipDocs:        bf.noDocs,
		NoCache:         bf.noCache,
	}
	var doc *idl.Document
	err = timer.Time("build", func() error {
		trace.Note(cmd.Context(), trace.ScopeStage, "building IDL", bf.path)
		var err error
		doc, err = newEngine().Build(cmd.Context(), opts)
		return err
	})
	if err != nil {
		return err
	}

	path := buildOutputPath(doc, bf.output)
	if err := timer.Time("write", func() error { return writeDocument(path, doc) }); err != nil {
		return err
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully built IDL and saved to %s\n", path)
	}
	return nil
}

// buildOutputPath returns explicit when set, otherwise <metadata.name>.json.
func buildOutputPath(doc *idl.Document, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return doc.Metadata.Name + ".json"
}

type programOutcome struct {
	program workspace.Program
	path    string
	cached  bool
	err     error
}

func runWorkspaceBuild(cmd *cobra.Command, bf buildFlags) error {
	ws, err := workspace.Load(bf.path)
	if err != nil {
		return err
	}
	programs, err := ws.Programs()
	if err != nil {
		return err
	}
	if len(programs) == 0 {
		return fmt.Errorf("%s: no programs found in workspace", ws.Path)
	}

	outDir := bf.output
	if outDir == "" {
		outDir = filepath.Join(ws.Root, "target", "idl")
	}
	base := engine.BuildOptions{
		ResolveAccounts: !bf.noResolution && ws.Resolution(),
		SkipLint:        bf.skipLint || ws.Config.Features.SkipLint,
		SkipDocs:        bf.noDocs,
		NoCache:         bf.noCache,
	}

	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	build := func(ctx context.Context, sink ui.Sink) []programOutcome {
		return buildPrograms(ctx, newEngine(), programs, base, outDir, bf.jobs, timer, sink)
	}

	var outcomes []programOutcome
	if shouldUseTUI(bf.ui, isQuiet(cmd)) {
		names := make([]string, len(programs))
		for i, p := range programs {
			names[i] = p.Name
		}
		title := fmt.Sprintf("Building %d programs (%s)", len(programs), ws.Cluster())
		outcomes, err = runWorkspaceWithUI(cmd.Context(), title, names, build)
		if err != nil {
			return err
		}
	} else {
		outcomes = build(cmd.Context(), ui.NopSink{})
	}
	return reportWorkspaceBuild(cmd.OutOrStdout(), cmd.ErrOrStderr(), outcomes, isQuiet(cmd))
}

// buildPrograms builds every program with at most jobs in flight. Outcomes
// keep the order of programs; one failure does not stop the others.
func buildPrograms(ctx context.Context, eng engine.Engine, programs []workspace.Program, base engine.BuildOptions, outDir string, jobs int, timer *observ.Timer, sink ui.Sink) []programOutcome {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	outcomes := make([]programOutcome, len(programs))
	for _, p := range programs {
		sink.Report(ui.Event{Program: p.Name, Status: ui.StatusQueued})
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, p := range programs {
		g.Go(func() error {
			out := &outcomes[i]
			out.program = p
			idx := timer.Begin("build:" + p.Name)
			defer func() {
				note := ""
				if out.err != nil {
					note = "failed"
				}
				timer.End(idx, note)
			}()

			if err := ctx.Err(); err != nil {
				out.err = err
				sink.Report(ui.Event{Program: p.Name, Status: ui.StatusError, Note: "canceled"})
				return nil
			}
			sink.Report(ui.Event{Program: p.Name, Status: ui.StatusBuilding})
			trace.Note(ctx, trace.ScopeItem, "building IDL", p.Dir)

			opts := base
			opts.ProgramRoot = p.Dir
			opts.OnCached = func() { out.cached = true }
			doc, err := eng.Build(ctx, opts)
			if err != nil {
				out.err = fmt.Errorf("%s: %w", p.Name, err)
				sink.Report(ui.Event{Program: p.Name, Status: ui.StatusError, Note: firstLine(err.Error())})
				return nil
			}
			if p.Address != "" && doc.Address != p.Address {
				trace.Note(ctx, trace.ScopeItem, "address mismatch", p.Name+": "+doc.Address+" != "+p.Address)
			}

			sink.Report(ui.Event{Program: p.Name, Status: ui.StatusWriting})
			out.path = filepath.Join(outDir, p.Name+".json")
			if err := writeDocument(out.path, doc); err != nil {
				out.err = fmt.Errorf("%s: %w", p.Name, err)
				sink.Report(ui.Event{Program: p.Name, Status: ui.StatusError, Note: firstLine(err.Error())})
				return nil
			}
			status := ui.StatusDone
			if out.cached {
				status = ui.StatusCached
			}
			sink.Report(ui.Event{Program: p.Name, Status: status, Note: out.path})
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func reportWorkspaceBuild(out, errOut io.Writer, outcomes []programOutcome, quiet bool) error {
	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			if len(outcomes) > 1 {
				fmt.Fprintf(errOut, "%s %v\n", bad.Sprint("FAIL"), o.err)
			}
			continue
		}
		if quiet {
			continue
		}
		note := ""
		if o.cached {
			note = " (cached)"
		}
		fmt.Fprintf(out, "%s %s -> %s%s\n", ok.Sprint("OK"), o.program.Name, o.path, note)
	}
	switch {
	case failed == 0:
		return nil
	case len(outcomes) == 1:
		return outcomes[0].err
	}
	return fmt.Errorf("%d of %d programs failed to build", failed, len(outcomes))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
