package main

import (
	"io"
	"strings"

	"github.com/aretw0/pipecanvas"
	"github.com/aretw0/pipecanvas/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports [text]",
	Short: "List the input ports a template text derives",
	Long:  `Prints the {{variables}} of the text in first-occurrence order with the node size. Reads stdin when no text is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = strings.TrimSuffix(string(data), "\n")
		}

		inf := pipecanvas.DerivePorts(text)
		return printReport(cmd, inf, tui.PortsReport(inf))
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
