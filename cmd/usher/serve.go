// Package main provides the entry point for the usher CLI.
package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/config"
	ushermcp "github.com/gorewood/usher/internal/mcp"
	"github.com/gorewood/usher/internal/sdk"
	"github.com/gorewood/usher/internal/state"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run usher as a Model Context Protocol (MCP) server over stdio.

This exposes activation operations as MCP tools that any MCP-capable agent
environment can use (Claude Code, Cursor, Windsurf, Gemini CLI, etc).

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "usher": {
        "command": "usher",
        "args": ["serve"]
      }
    }
  }

Available tools: scan, status, pending_prompts, resolve_prompt,
devtools_offer, devtools_resolve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			runner := sdk.New(cfg)
			server := ushermcp.NewServer(ushermcp.Deps{
				Version:        buildVersion(),
				Store:          state.NewStore(state.Dir()),
				Config:         cfg,
				Creator:        runner,
				LaunchDevTools: runner.StartDevTools,
			})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
