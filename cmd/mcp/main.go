package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/DocQuery/internal/bootstrap"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/mcpserver"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

// Serves the read-only MCP tools over stdio; stdout belongs to the protocol so logs go to stderr.
func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "docquery.toml", "path to the TOML config file")
	flag.Parse()

	rt, err := config.LoadRuntime(configPath)
	logger_i.InitWriter(rt.IsProd, os.Stderr)
	logger := logger_i.NewLogger("mcp")
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subs, err := bootstrap.OpenSubstrates(ctx, rt)
	if err != nil {
		logger.Error("Could not open the persistence substrate", "error", err)
		os.Exit(1)
	}
	defer subs.Close()

	// read-only: no analysis providers and no parse dispatcher
	ws := bootstrap.NewWorkspace(ctx, subs, nil, nil)
	srv, err := mcpserver.NewServer(ws)
	if err != nil {
		logger.Error("Could not build MCP server", "error", err)
		os.Exit(1)
	}
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
