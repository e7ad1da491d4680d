package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"idlkit/internal/engine"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached IDL builds",
	Long:  "Remove the build cache used by `idlkit build` (under $XDG_CACHE_HOME/idlkit).",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

// openCache is swapped in tests.
var openCache = func() (*engine.Cache, error) { return engine.OpenCache("idlkit") }

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := openCache()
	if err != nil {
		return fmt.Errorf("failed to open build cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove build cache: %w", err)
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", filepath.Join(cache.Dir(), "builds"))
	}
	return nil
}
