package tool

import (
	"github.com/cloudwego/eino/schema"
)

// Names recorded in a tool trace. The four catalog names double as the MCP
// tool names served by the catalog collaborator.
const (
	ToolListProducts  = "list_products"
	ToolGetStatistics = "get_statistics"
	ToolAddProduct    = "add_product"
	ToolGetProduct    = "get_product"
	ToolCalculator    = "calculator"
)

// Infos describes every operation the dispatcher may invoke.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name:        ToolListProducts,
			Desc:        "List all products in the catalog.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolGetProduct,
			Desc: "Get a single product by its id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {Type: schema.Integer, Desc: "Product id", Required: true},
			}),
		},
		{
			Name: ToolAddProduct,
			Desc: "Add a product to the catalog and return it with its assigned id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name":     {Type: schema.String, Desc: "Product name", Required: true},
				"price":    {Type: schema.Number, Desc: "Product price", Required: true},
				"category": {Type: schema.String, Desc: "Product category", Required: true},
				"in_stock": {Type: schema.Boolean, Desc: "Whether the product is in stock"},
			}),
		},
		{
			Name:        ToolGetStatistics,
			Desc:        "Count products and compute their average price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolCalculator,
			Desc: "Evaluate an arithmetic expression.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"expression": {Type: schema.String, Desc: "Expression to evaluate", Required: true},
			}),
		},
	}
}

// Info returns the descriptor for name, or nil.
func Info(name string) *schema.ToolInfo {
	for _, info := range Infos() {
		if info.Name == name {
			return info
		}
	}
	return nil
}
