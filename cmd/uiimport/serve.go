package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/uiimport/pkg/mcp"
	"github.com/gnana997/uiimport/pkg/mcplog"
)

func serveCmd(g *globalOptions) *cobra.Command {
	var callLog string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdin/stdout",
		Long: `Start a Model Context Protocol server exposing the transform_code,
scan_code and list_libraries tools. Logs go to stderr; stdout carries the
protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := g.load(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			calls, err := mcplog.NewLogger(callLog)
			if err != nil {
				return err
			}
			defer calls.Close()

			baseDir := e.cfg.BaseDir
			if baseDir == "" {
				baseDir = "."
			}
			e.logger.Info("starting MCP server", "libraries", e.pipeline.Libraries())
			return mcpserver.NewServer(e.pipeline, baseDir, calls).ServeStdio()
		},
	}

	cmd.Flags().StringVar(&callLog, "call-log", "", "append a JSONL record of every tool call to this file")
	return cmd
}
