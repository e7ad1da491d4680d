package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"idlkit/internal/idlfmt"
)

var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "List the instructions of an IDL with arguments and accounts",
	Args:  cobra.NoArgs,
	RunE:  runInstructions,
}

func init() {
	instructionsCmd.Flags().StringP("input", "i", "", "IDL file")
	instructionsCmd.Flags().Bool("names-only", false, "print instruction names only")
	instructionsCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	_ = instructionsCmd.MarkFlagRequired("input")
}

func runInstructions(cmd *cobra.Command, args []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	namesOnly, err := cmd.Flags().GetBool("names-only")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or yaml)", format)
	}

	doc, err := readDocument(input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return idlfmt.WriteJSON(out, idlfmt.BuildReport(doc, namesOnly))
	case "yaml":
		return idlfmt.WriteYAML(out, idlfmt.BuildReport(doc, namesOnly))
	}
	return idlfmt.Instructions(out, doc, idlfmt.ReportOpts{NamesOnly: namesOnly, Color: colorEnabled()})
}
