package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/viewmig"
	"github.com/aretw0/viewmig/internal/adapters/mcp"
	"github.com/aretw0/viewmig/internal/logging"
	"github.com/aretw0/viewmig/internal/service"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the conversions as MCP tools (convert_attrs, convert_domain,
combine_states) so AI agents can migrate view modifiers.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to Stderr so they never corrupt JSON-RPC on Stdout
		logger := logging.New(slog.LevelDebug)
		slog.SetDefault(logger)

		srv := mcp.NewServer(service.New(nil), viewmig.Version)

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			slog.Info("Starting viewmig MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting viewmig MCP Server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
