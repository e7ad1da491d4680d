package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"idlkit/internal/idlcheck"
	"idlkit/internal/observ"
	"idlkit/internal/trace"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] [more.json...]",
	Short: "Check IDL files for required metadata and discriminators",
	Args:  cobra.ArbitraryArgs,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringP("input", "i", "", "IDL file to validate")
	validateCmd.Flags().IntP("jobs", "j", 0, "files validated in parallel (0 = GOMAXPROCS)")
}

type validateResult struct {
	path    string
	verdict idlcheck.Verdict
	err     error
}

func runValidate(cmd *cobra.Command, args []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	inputs := validateInputs(input, args)
	if len(inputs) == 0 {
		return fmt.Errorf("no input: pass --input or file arguments")
	}

	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	results := validateAll(cmd.Context(), timer, inputs, jobs)

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	printValidateResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, isQuiet(cmd))

	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return results[0].err
	}
	return fmt.Errorf("%d of %d IDL files failed validation", failed, len(results))
}

func validateInputs(flag string, args []string) []string {
	inputs := make([]string, 0, len(args)+1)
	if flag != "" {
		inputs = append(inputs, flag)
	}
	return append(inputs, args...)
}

// validateAll checks every input concurrently; results keep input order.
func validateAll(ctx context.Context, timer *observ.Timer, inputs []string, jobs int) []validateResult {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]validateResult, len(inputs))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range inputs {
		g.Go(func() error {
			idx := timer.Begin("validate:" + path)
			doc, err := readDocument(path)
			if err == nil {
				results[i].verdict, err = idlcheck.Validate(doc)
				if err != nil {
					err = fmt.Errorf("%s: %w", path, err)
				}
			}
			results[i].path = path
			results[i].err = err
			if err != nil {
				timer.End(idx, "failed")
				trace.Failure(ctx, trace.ScopeItem, "validate", err)
				return nil
			}
			timer.End(idx, "")
			trace.Note(ctx, trace.ScopeItem, "validation ok", path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printValidateResults(out, errOut io.Writer, results []validateResult, quiet bool) {
	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	for _, r := range results {
		if r.err != nil {
			if len(results) > 1 {
				fmt.Fprintf(errOut, "%s %v\n", bad.Sprint("FAIL"), r.err)
			}
			continue
		}
		if quiet {
			continue
		}
		v := r.verdict
		fmt.Fprintf(out, "%s IDL validation successful: %s\n", ok.Sprint("OK"), r.path)
		fmt.Fprintf(out, "  Program: %s\n", v.Program)
		fmt.Fprintf(out, "  Version: %s\n", v.Version)
		fmt.Fprintf(out, "  Accounts: %d\n", v.Accounts)
		fmt.Fprintf(out, "  Instructions: %d\n", v.Instructions)
		fmt.Fprintf(out, "  Types: %d\n", v.Types)
	}
}
