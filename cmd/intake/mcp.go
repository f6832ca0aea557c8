package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/counciltech/intake/internal/cli"
	"github.com/counciltech/intake/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long:  `Exposes the assistant to MCP hosts: a send_message tool for driving conversations and a get_session tool for inspection. Serves stdio by default.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		engine, cleanup, err := cli.BuildEngine(cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		server := mcp.NewServer(engine)

		ssePort, _ := cmd.Flags().GetInt("sse-port")
		if ssePort > 0 {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("mcp server listening (sse)", "port", ssePort)
			if err := server.ServeSSE(ctx, ssePort); err != nil {
				fmt.Printf("MCP server error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := server.ServeStdio(); err != nil {
			fmt.Printf("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Int("sse-port", 0, "Serve over SSE on this port instead of stdio")
}
