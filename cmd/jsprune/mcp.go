package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/jsprune/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the pruner
as tools an assistant can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "jsprune": {
        "command": "jsprune",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - prune_javascript       Prune library code and return the result
  - list_unused_functions  Report removable functions without the source`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the MCP registry server.json and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, string(data))
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// stdout carries the protocol; logs go to stderr only.
	server := mcpserver.NewServer(version, cfg, newLogger(c, c.App.ErrWriter))
	return server.Run(c.Context)
}
