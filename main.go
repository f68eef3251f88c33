package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	catalogx "github.com/tanpawarit/Chative-Shop-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	mcpcatalogx "github.com/tanpawarit/Chative-Shop-Assistant/agent/mcpcatalog"
	orchestratorx "github.com/tanpawarit/Chative-Shop-Assistant/agent/orchestrator"
	apix "github.com/tanpawarit/Chative-Shop-Assistant/api"
	configx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/config"
	_ "github.com/tanpawarit/Chative-Shop-Assistant/pkg/logger/autoload"
)

const (
	transportInProcess  = "inprocess"
	transportMCPMemory  = "mcp-memory"
	transportMCPCommand = "mcp-command"
)

type CatalogTransportConfig struct {
	// inprocess, mcp-memory or mcp-command.
	Transport string `default:"inprocess"`
	// Command line of the catalog MCP server, used by mcp-command.
	Command string `default:"catalog-mcp"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[orchestratorx.Config]("APP")
	apiCfg := configx.MustNew[apix.Config]("HTTP")
	transportCfg := configx.MustNew[CatalogTransportConfig]("CATALOG")

	catalog, closeCatalog, err := openCatalog(ctx, *transportCfg)
	if err != nil {
		log.Fatal().Err(err).Str("transport", transportCfg.Transport).Msg("failed to open catalog")
	}
	defer closeCatalog()

	orchestrator, err := orchestratorx.New(catalog, *appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize orchestrator")
	}

	server, err := apix.NewServer(*apiCfg, orchestrator)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HTTP server")
	}
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped with error")
	}
}

func openCatalog(ctx context.Context, cfg CatalogTransportConfig) (contractx.Catalog, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case transportMCPCommand:
		fields := strings.Fields(cfg.Command)
		if len(fields) == 0 {
			fields = []string{""}
		}
		client, err := mcpcatalogx.DialCommand(ctx, fields[0], fields[1:]...)
		if err != nil {
			return nil, nil, err
		}
		logTools(ctx, client)
		return client, func() { _ = client.Close() }, nil
	case transportMCPMemory:
		store, err := openStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		client, err := mcpcatalogx.DialInProcess(ctx, store)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		logTools(ctx, client)
		return client, func() {
			_ = client.Close()
			_ = store.Close()
		}, nil
	case transportInProcess, "":
		store, err := openStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unsupported catalog transport=%q", contractx.ErrValidation, cfg.Transport)
	}
}

func openStore(ctx context.Context) (catalogx.Store, error) {
	storeCfg, err := configx.New[catalogx.Config]("CATALOG")
	if err != nil {
		return nil, err
	}
	return catalogx.Open(ctx, *storeCfg)
}

func logTools(ctx context.Context, client *mcpcatalogx.Client) {
	names, err := client.ToolNames(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not list catalog tools")
		return
	}
	log.Info().Strs("tools", names).Msg("connected to catalog MCP server")
}
