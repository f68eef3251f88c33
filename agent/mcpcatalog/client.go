package mcpcatalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Shop-Assistant/agent/tool"
)

const ClientName = "shop-assistant"

// Client implements contract.Catalog over an MCP client session.
type Client struct {
	session *mcp.ClientSession
	served  *mcp.ServerSession
}

var _ contractx.Catalog = (*Client)(nil)

// Dial connects to a catalog server over t.
func Dial(ctx context.Context, t mcp.Transport) (*Client, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: ClientName, Version: "v1.0.0"}, nil)
	session, err := client.Connect(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", contractx.ErrCollaborator, err)
	}
	return &Client{session: session}, nil
}

// DialCommand spawns the catalog server as a subprocess speaking MCP on stdio.
func DialCommand(ctx context.Context, command string, args ...string) (*Client, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("%w: catalog command is required", contractx.ErrValidation)
	}
	return Dial(ctx, &mcp.CommandTransport{Command: exec.Command(command, args...)})
}

// DialInProcess serves catalog on an in-memory transport and connects to it.
func DialInProcess(ctx context.Context, catalog contractx.Catalog) (*Client, error) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	served, err := NewServer(catalog, "").Connect(ctx, serverTransport)
	if err != nil {
		return nil, fmt.Errorf("%w: serve in-process: %w", contractx.ErrCollaborator, err)
	}
	c, err := Dial(ctx, clientTransport)
	if err != nil {
		served.Close()
		return nil, err
	}
	c.served = served
	return c, nil
}

func (c *Client) Close() error {
	err := c.session.Close()
	if c.served != nil {
		c.served.Wait()
	}
	return err
}

// ToolNames lists the tools the server advertises.
func (c *Client) ToolNames(ctx context.Context) ([]string, error) {
	res, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: list tools: %w", contractx.ErrCollaborator, err)
	}
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	return names, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]contractx.Product, error) {
	var out ListProductsOutput
	if err := c.call(ctx, toolx.ToolListProducts, map[string]any{}, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []contractx.Product{}
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (contractx.Product, error) {
	var out contractx.Product
	err := c.call(ctx, toolx.ToolGetProduct, map[string]any{"product_id": id}, &out)
	return out, err
}

func (c *Client) AddProduct(ctx context.Context, p contractx.NewProduct) (contractx.Product, error) {
	var out contractx.Product
	err := c.call(ctx, toolx.ToolAddProduct, map[string]any{
		"name":     p.Name,
		"price":    p.Price,
		"category": p.Category,
		"in_stock": p.InStock,
	}, &out)
	return out, err
}

func (c *Client) GetStatistics(ctx context.Context) (contractx.Statistics, error) {
	var out contractx.Statistics
	err := c.call(ctx, toolx.ToolGetStatistics, map[string]any{}, &out)
	return out, err
}

func (c *Client) call(ctx context.Context, name string, args map[string]any, out any) error {
	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return fmt.Errorf("%w: call %s: %w", contractx.ErrCollaborator, name, err)
	}

	if res.IsError {
		msg := textContent(res)
		log.Warn().Str("tool", name).Str("error", msg).Msg("catalog tool returned an error")
		return classifyToolError(name, msg)
	}

	if err := decodeResult(res, out); err != nil {
		return fmt.Errorf("%w: decode %s result: %w", contractx.ErrCollaborator, name, err)
	}
	return nil
}

// classifyToolError maps a tool error text back to a sentinel. Only the text
// crosses the wire, so the sentinel message is matched.
func classifyToolError(name, msg string) error {
	switch {
	case strings.Contains(msg, contractx.ErrNotFound.Error()):
		return fmt.Errorf("%w: %s", contractx.ErrNotFound, strings.TrimPrefix(msg, contractx.ErrNotFound.Error()+": "))
	case strings.Contains(msg, contractx.ErrInvalidArgument.Error()):
		return fmt.Errorf("%w: %s", contractx.ErrInvalidArgument, strings.TrimPrefix(msg, contractx.ErrInvalidArgument.Error()+": "))
	default:
		return fmt.Errorf("%w: %s: %s", contractx.ErrCollaborator, name, msg)
	}
}

func decodeResult(res *mcp.CallToolResult, out any) error {
	if res.StructuredContent != nil {
		raw, err := json.Marshal(res.StructuredContent)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, out)
	}
	text := textContent(res)
	if text == "" {
		return errors.New("empty tool result")
	}
	return json.Unmarshal([]byte(text), out)
}

func textContent(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
