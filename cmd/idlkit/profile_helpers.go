package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idlkit/internal/prof"
)

var profiling *prof.Session

// setupProfiling starts the profilers requested by --cpu-profile and
// --mem-profile.
func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	cpu, err := flags.GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	mem, err := flags.GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	s, err := prof.Start(prof.Options{CPU: cpu, Mem: mem})
	if err != nil {
		return err
	}
	profiling = s
	return nil
}

func stopProfiling(cmd *cobra.Command) {
	if err := profiling.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
}
