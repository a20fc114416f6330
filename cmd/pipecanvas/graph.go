package main

import (
	"fmt"

	"github.com/aretw0/pipecanvas/internal/dag"
	"github.com/aretw0/pipecanvas/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <pipeline.json|->",
	Short: "Export the pipeline graph visualization",
	Long:  `Outputs a Mermaid flowchart or a Graphviz digraph of the pipeline. Nodes on or behind a cycle are highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readPipeline(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		overlay := &graph.Overlay{Cyclic: dag.Unsorted(p.Nodes, p.Edges)}

		format, _ := cmd.Flags().GetString("format")
		var output string
		switch format {
		case "mermaid":
			output = graph.GenerateMermaid(p, overlay)
		case "dot":
			output, err = graph.GenerateDOT(p, overlay)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (supported: mermaid, dot)", format)
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), output)
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Output format: 'mermaid' or 'dot'")
}
