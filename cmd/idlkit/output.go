package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"idlkit/internal/idl"
	"idlkit/internal/idlerr"
	"idlkit/internal/patch"
)

// applyColorFlag resolves --color once and sets fatih/color's global switch.
func applyColorFlag(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	enabled, err := resolveColor(value, isTerminal(os.Stdout), os.Getenv("NO_COLOR") != "")
	if err != nil {
		return err
	}
	color.NoColor = !enabled
	return nil
}

func colorEnabled() bool { return !color.NoColor }

func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

// printError writes err as "error[CODE]: message" when it carries a kind.
func printError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold)
	var e *idlerr.Error
	if errors.As(err, &e) {
		fmt.Fprintf(w, "%s %v\n", label.Sprintf("error[%s]:", e.Kind.ID()), err)
		return
	}
	fmt.Fprintf(w, "%s %v\n", label.Sprint("error:"), err)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := idlerr.IoFailure
		if errors.Is(err, os.ErrNotExist) {
			kind = idlerr.SourceNotFound
		}
		return nil, idlerr.Wrap(kind, "read", path, err)
	}
	return data, nil
}

// writeDocument renders doc as pretty JSON and writes it atomically.
func writeDocument(path string, doc *idl.Document) error {
	data, err := idl.MarshalIndent(doc)
	if err != nil {
		return idlerr.Wrap(idlerr.SerializationFailure, "write", path, err)
	}
	return patch.WriteFile(path, data)
}
