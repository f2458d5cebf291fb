package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/SRINIVASINDIA/Local-guide/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the guide as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		// Stdout carries the protocol; status goes to stderr.
		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "localguide MCP server started on stdio (guide=%s, version=%s)\n",
			cfg.GuideFile, eng.KnowledgeVersion())

		srv := mcpserver.NewServer(eng)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
