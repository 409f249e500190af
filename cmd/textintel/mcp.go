package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcppkg "textintel/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server. It communicates over stdio and
exposes analyze_text, summarize_text, semantic_search, add_document and
index_stats as tools.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, cleanup, err := buildService(components{llm: true})
	if err != nil {
		return err
	}
	defer cleanup()

	server, err := mcppkg.NewServer(svc)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
