package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/pipecanvas"
	"github.com/aretw0/pipecanvas/internal/presentation/tui"
	"github.com/aretw0/pipecanvas/internal/validator"
	"github.com/spf13/cobra"
)

var errCyclic = errors.New("pipeline contains cycles")

var validateCmd = &cobra.Command{
	Use:   "validate <pipeline.json|->",
	Short: "Check a pipeline locally",
	Long: `Runs the DAG check without a backend and lints the pipeline against the node
kinds: unknown kinds, undeclared fields, and edges to missing nodes or ports.
With --strict a cyclic or invalid pipeline exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		p, err := readPipeline(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		result := pipecanvas.Validate(p)
		if err := printReport(cmd, result, tui.ParseReport(result)); err != nil {
			return err
		}
		tui.PrintWarning(cmd.ErrOrStderr(), result)

		lintErr := validator.ValidatePipeline(p, c)
		if lintErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), lintErr)
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			if lintErr != nil {
				return lintErr
			}
			if !result.IsDAG {
				return errCyclic
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Fail when the pipeline is not a DAG or does not lint")
}
