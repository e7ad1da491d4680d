package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"idlkit/internal/idl"
	"idlkit/internal/observ"
	"idlkit/internal/trace"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a legacy IDL to the current format",
	Args:  cobra.NoArgs,
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringP("input", "i", "", "IDL file to convert")
	convertCmd.Flags().StringP("output", "o", "", "output file (default <dir>/<stem>.converted.json)")
	_ = convertCmd.MarkFlagRequired("input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	var doc *idl.Document
	err = timer.Time("convert", func() error {
		trace.Note(cmd.Context(), trace.ScopeStage, "convert", input)
		var err error
		doc, err = readDocument(input)
		return err
	})
	if err != nil {
		return err
	}

	path := convertOutputPath(input, output)
	if err := timer.Time("write", func() error { return writeDocument(path, doc) }); err != nil {
		return err
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully converted IDL and saved to %s\n", path)
	}
	return nil
}

// convertOutputPath returns explicit when set, otherwise the input path with
// its last extension replaced by ".converted.json".
func convertOutputPath(input, explicit string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), stem+".converted.json")
}

// readDocument reads path and converts it to a current-format document.
func readDocument(path string) (*idl.Document, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	doc, err := newEngine().Convert(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
