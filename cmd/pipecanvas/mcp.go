package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/pipecanvas/pkg/adapters/mcp"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes pipeline validation, port derivation and the canvas editor as MCP tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		logger := newLogger(cfg)
		slog.SetDefault(logger)

		ed, closeStore, err := newEditor(cmd.Context(), cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return fmt.Errorf("error initializing editor: %w", err)
		}
		defer closeStore()

		srv := mcp.NewServer(ed, ed.Store(), ed.Catalog())

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting pipecanvas MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			baseURL, _ := cmd.Flags().GetString("base-url")
			if err := srv.ServeSSE(ctx, addr, baseURL); err != nil {
				return err
			}
			slog.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8090", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "http://localhost:8090", "Public base URL of the SSE endpoint")
}
