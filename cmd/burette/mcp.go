package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/burette"
	mcpadapter "github.com/aretw0/burette/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the titration workbench as an MCP server so AI agents can
start runs, deliver titrant and read curves as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMCP(cmd); err != nil {
			fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport (stdio or sse)")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the SSE transport")
}

func runMCP(cmd *cobra.Command) error {
	env, err := environment(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(env)
	if err != nil {
		return err
	}

	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	store, closeStore, err := openStore(env)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	catalog, err := openCatalog(env)
	if err != nil {
		return err
	}

	bench := burette.NewBench(store, burette.WithBenchLogger(logger))
	srv := mcpadapter.NewServer(bench, burette.Version,
		mcpadapter.WithCatalog(catalog),
		mcpadapter.WithLogger(logger),
	)

	switch transport {
	case "stdio":
		// Logs must not corrupt JSON-RPC on stdout.
		log.SetOutput(os.Stderr)
		logger.Info("starting burette MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("starting burette MCP server (sse)", "port", port)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ServeSSE(ctx, port)
	}
	return cmd.Help()
}
