// Package mcpcatalog serves a catalog as MCP tools and consumes it back as a
// contract.Catalog.
package mcpcatalog

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Shop-Assistant/agent/tool"
	metricsx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/metrics"
)

const ServerName = "ProductMCP"

type ListProductsArgs struct{}

type ListProductsOutput struct {
	Products []contractx.Product `json:"products"`
}

type GetProductArgs struct {
	ProductID int `json:"product_id" jsonschema:"id of the product to fetch"`
}

type AddProductArgs struct {
	Name     string  `json:"name" jsonschema:"product name"`
	Price    float64 `json:"price" jsonschema:"non-negative price"`
	Category string  `json:"category" jsonschema:"product category"`
	InStock  *bool   `json:"in_stock,omitempty" jsonschema:"stock flag, defaults to true"`
}

type GetStatisticsArgs struct{}

type Server struct {
	catalog contractx.Catalog
	server  *mcp.Server
}

func NewServer(catalog contractx.Catalog, version string) *Server {
	if version == "" {
		version = "v1.0.0"
	}
	s := &Server{
		catalog: catalog,
		server:  mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
	}
	s.registerTools()
	return s
}

// Run serves until the transport closes or ctx is done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}

// Connect serves a single session on t without blocking.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func describe(name string) string {
	if info := toolx.Info(name); info != nil {
		return info.Desc
	}
	return name
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolx.ToolListProducts,
		Description: describe(toolx.ToolListProducts),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ ListProductsArgs) (*mcp.CallToolResult, ListProductsOutput, error) {
		log.Info().Str("tool", toolx.ToolListProducts).Msg("MCP tool call received")
		products, err := s.catalog.ListProducts(ctx)
		metricsx.RecordCatalogOperation(toolx.ToolListProducts, err == nil)
		if err != nil {
			return nil, ListProductsOutput{}, err
		}
		if products == nil {
			products = []contractx.Product{}
		}
		return nil, ListProductsOutput{Products: products}, nil
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolx.ToolGetProduct,
		Description: describe(toolx.ToolGetProduct),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in GetProductArgs) (*mcp.CallToolResult, contractx.Product, error) {
		log.Info().Str("tool", toolx.ToolGetProduct).Int("product_id", in.ProductID).Msg("MCP tool call received")
		product, err := s.catalog.GetProduct(ctx, in.ProductID)
		metricsx.RecordCatalogOperation(toolx.ToolGetProduct, err == nil)
		if err != nil {
			return nil, contractx.Product{}, err
		}
		return nil, product, nil
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolx.ToolAddProduct,
		Description: describe(toolx.ToolAddProduct),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in AddProductArgs) (*mcp.CallToolResult, contractx.Product, error) {
		inStock := true
		if in.InStock != nil {
			inStock = *in.InStock
		}
		log.Info().
			Str("tool", toolx.ToolAddProduct).
			Str("name", in.Name).
			Float64("price", in.Price).
			Str("category", in.Category).
			Bool("in_stock", inStock).
			Msg("MCP tool call received")

		product, err := s.catalog.AddProduct(ctx, contractx.NewProduct{
			Name:     in.Name,
			Price:    in.Price,
			Category: in.Category,
			InStock:  inStock,
		})
		metricsx.RecordCatalogOperation(toolx.ToolAddProduct, err == nil)
		if err != nil {
			return nil, contractx.Product{}, err
		}
		return nil, product, nil
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolx.ToolGetStatistics,
		Description: describe(toolx.ToolGetStatistics),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ GetStatisticsArgs) (*mcp.CallToolResult, contractx.Statistics, error) {
		log.Info().Str("tool", toolx.ToolGetStatistics).Msg("MCP tool call received")
		stats, err := s.catalog.GetStatistics(ctx)
		metricsx.RecordCatalogOperation(toolx.ToolGetStatistics, err == nil)
		if err != nil {
			return nil, contractx.Statistics{}, err
		}
		return nil, stats, nil
	})
}
