package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pipecanvas"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pipecanvas",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pipecanvas version %s\n", strings.TrimSpace(pipecanvas.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
