package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idlkit/internal/trace"
)

var (
	activeTracer  trace.Tracer = trace.Nop
	commandSpan   *trace.Span
	tracingClosed bool
)

// setupTracing reads the trace flags, attaches a tracer to the command
// context and opens the command span.
func setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}

	level, err := traceLevel(levelStr, output, verbose)
	if err != nil {
		return err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	tracer, err := trace.New(trace.Config{Level: level, Format: format, Path: output})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer

	ctx, span := trace.Start(trace.WithTracer(cmd.Context(), tracer), trace.ScopeCommand, cmd.CommandPath())
	commandSpan = span
	cmd.SetContext(ctx)
	return nil
}

// traceLevel picks the effective level: an explicit --trace-level wins,
// --verbose means debug, a bare --trace means info, otherwise off.
func traceLevel(explicit, output string, verbose bool) (trace.Level, error) {
	if explicit != "" {
		return trace.ParseLevel(explicit)
	}
	switch {
	case verbose:
		return trace.LevelDebug, nil
	case output != "":
		return trace.LevelInfo, nil
	}
	return trace.LevelOff, nil
}

func closeTracing(cmd *cobra.Command) {
	if tracingClosed {
		return
	}
	tracingClosed = true
	commandSpan.End("")
	if err := activeTracer.Flush(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
	}
	if err := activeTracer.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
	}
}
