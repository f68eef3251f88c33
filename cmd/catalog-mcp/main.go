package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	catalogx "github.com/tanpawarit/Chative-Shop-Assistant/agent/catalog"
	mcpcatalogx "github.com/tanpawarit/Chative-Shop-Assistant/agent/mcpcatalog"
	configx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/config"
	logx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/logger"
)

const version = "v1.0.0"

func main() {
	// stdout carries the protocol.
	logCfg := configx.MustNew[logx.Config]("LOG")
	logCfg.Stderr = true
	logx.Init(*logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogCfg := configx.MustNew[catalogx.Config]("CATALOG")
	store, err := catalogx.Open(ctx, *catalogCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog store")
	}
	defer store.Close()

	log.Info().Str("backend", catalogCfg.Backend).Str("version", version).Msg("catalog MCP server starting on stdio")
	if err := mcpcatalogx.NewServer(store, version).Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("catalog MCP server stopped")
	}
}
