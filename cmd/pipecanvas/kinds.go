package main

import (
	"github.com/aretw0/pipecanvas/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the node kinds",
	Long:  `Prints the built-in kinds plus those loaded from the configured kinds file and directory, in palette order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		schemas := c.All()
		return printReport(cmd, schemas, tui.KindsReport(schemas))
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
