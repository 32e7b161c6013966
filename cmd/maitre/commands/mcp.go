// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to use maitre via stdio
package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maitre-ai/maitre/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs maitre as an MCP (Model Context Protocol) server, exposing chat
routing, document ingestion, semantic document search, live web search,
and the user context store over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by the agent host)
  maitre mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "maitre": {
  #       "command": "maitre",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Maitre Chat Core",
		versionInfo.Version,
	)

	handlers := mcp.NewHandlers(app.orch, app.docs, app.docs, app.live, app.contexts)
	mcp.RegisterTools(server, handlers)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("maitre MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down...")
		}
		return nil
	case err := <-serverErr:
		return err
	}
}
