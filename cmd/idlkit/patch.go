package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idlkit/internal/observ"
	"idlkit/internal/patch"
)

var patchCmd = &cobra.Command{
	Use:     "patch",
	Aliases: []string{"extract"},
	Short:   "Stamp a template IDL with the program's declare_id!",
	Long: `Reads --template, replaces its "address" with the identifier declared in
<program-path>/src/lib.rs and writes the result, by default to
<program-path>/target/idl/<name>.json.`,
	Args: cobra.NoArgs,
	RunE: runPatch,
}

func init() {
	patchCmd.Flags().StringP("program-path", "p", "", "path to the program source (contains src/lib.rs)")
	patchCmd.Flags().StringP("template", "t", "", "template IDL JSON file")
	patchCmd.Flags().StringP("output", "o", "", "output file (default <program-path>/target/idl/<name>.json)")
	patchCmd.Flags().Bool("verify-id", false, "require the identifier to be a base58 public key")
	_ = patchCmd.MarkFlagRequired("program-path")
	_ = patchCmd.MarkFlagRequired("template")
}

func runPatch(cmd *cobra.Command, args []string) error {
	programPath, err := cmd.Flags().GetString("program-path")
	if err != nil {
		return err
	}
	templatePath, err := cmd.Flags().GetString("template")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	verify, err := cmd.Flags().GetBool("verify-id")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	var res patch.Result
	err = timer.Time("patch", func() error {
		var runErr error
		res, runErr = patch.Run(cmd.Context(), patch.Options{
			ProgramPath:  programPath,
			TemplatePath: templatePath,
			OutputPath:   output,
			VerifyID:     verify,
		})
		return runErr
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !isQuiet(cmd) {
		fmt.Fprintf(out, "IDL extracted and updated successfully at %s\n", res.OutputPath)
	}
	fmt.Fprintf(out, "Program ID: %s\n", res.ProgramID)
	return nil
}
