package main

import (
	"fmt"

	"github.com/aretw0/pipecanvas/internal/presentation/tui"
	"github.com/aretw0/pipecanvas/pkg/client"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <pipeline.json|->",
	Short: "Send a pipeline to the validation backend",
	Long:  `Posts the pipeline to the backend's /pipelines/parse route and reports node and edge counts and whether it is a DAG.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("backend") {
			cfg.BackendURL, _ = cmd.Flags().GetString("backend")
		}

		p, err := readPipeline(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		result, err := client.New(cfg.BackendURL).Submit(cmd.Context(), p)
		if err != nil {
			return fmt.Errorf("failed to submit pipeline: %w", err)
		}

		if err := printReport(cmd, result, tui.ParseReport(result)); err != nil {
			return err
		}
		tui.PrintWarning(cmd.ErrOrStderr(), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().String("backend", client.DefaultBaseURL, "Validation backend URL")
}
