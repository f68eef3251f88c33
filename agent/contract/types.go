package contract

import "fmt"

type ActionKind string

const (
	ActionListProducts  ActionKind = "list_products"
	ActionGetStatistics ActionKind = "get_statistics"
	ActionAddProduct    ActionKind = "add_product"
	ActionGetProduct    ActionKind = "get_product"
	ActionDiscount      ActionKind = "discount"
	ActionUnknown       ActionKind = "unknown"
)

// Decision is the structured result of intent parsing. Exactly one payload
// matching Action is set; GetStatistics and Unknown carry none.
type Decision struct {
	Action   ActionKind      `json:"action"`
	List     *ListParams     `json:"list,omitempty"`
	Add      *AddParams      `json:"add,omitempty"`
	Get      *GetParams      `json:"get,omitempty"`
	Discount *DiscountParams `json:"discount,omitempty"`
}

type ListParams struct {
	// Category filters by exact match; empty means no filter.
	Category string `json:"category,omitempty"`
}

type AddParams struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	InStock  bool    `json:"in_stock"`
}

type GetParams struct {
	ProductID *int `json:"product_id,omitempty"`
}

type DiscountParams struct {
	Percent   float64 `json:"percent"`
	ProductID *int    `json:"product_id,omitempty"`
}

func ListProducts(category string) Decision {
	return Decision{Action: ActionListProducts, List: &ListParams{Category: category}}
}

func GetStatistics() Decision {
	return Decision{Action: ActionGetStatistics}
}

func AddProduct(p AddParams) Decision {
	return Decision{Action: ActionAddProduct, Add: &p}
}

func GetProduct(productID *int) Decision {
	return Decision{Action: ActionGetProduct, Get: &GetParams{ProductID: productID}}
}

func Discount(percent float64, productID *int) Decision {
	return Decision{Action: ActionDiscount, Discount: &DiscountParams{Percent: percent, ProductID: productID}}
}

func Unknown() Decision {
	return Decision{Action: ActionUnknown}
}

// Validate reports a Decision whose payloads do not match its action tag.
func (d Decision) Validate() error {
	want := map[ActionKind][4]bool{
		ActionListProducts:  {true, false, false, false},
		ActionGetStatistics: {false, false, false, false},
		ActionAddProduct:    {false, true, false, false},
		ActionGetProduct:    {false, false, true, false},
		ActionDiscount:      {false, false, false, true},
		ActionUnknown:       {false, false, false, false},
	}
	expected, ok := want[d.Action]
	if !ok {
		return fmt.Errorf("%w: unsupported action=%q", ErrMalformedDecision, d.Action)
	}
	got := [4]bool{d.List != nil, d.Add != nil, d.Get != nil, d.Discount != nil}
	if got != expected {
		return fmt.Errorf("%w: payload does not match action=%s", ErrMalformedDecision, d.Action)
	}
	return nil
}

type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	InStock  bool    `json:"in_stock"`
}

type NewProduct struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	InStock  bool    `json:"in_stock"`
}

type Statistics struct {
	Count        int     `json:"count"`
	AveragePrice float64 `json:"average_price"`
}

type DiscountResult struct {
	Product         Product `json:"product"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountedPrice float64 `json:"discounted_price"`
}

// ToolTrace lists invoked operations in call order. Duplicates are kept.
type ToolTrace []string

func (t *ToolTrace) Record(tool string) {
	*t = append(*t, tool)
}

// Names returns a copy that is never nil.
func (t ToolTrace) Names() []string {
	out := make([]string, len(t))
	copy(out, t)
	return out
}

// Outcome is the result of dispatching one Decision. Failure is set when the
// dispatch failed; Result holds the action-specific payload otherwise:
// []Product, Statistics, Product or DiscountResult.
type Outcome struct {
	Result  any       `json:"result,omitempty"`
	Failure string    `json:"failure,omitempty"`
	Err     error     `json:"-"`
	Tools   ToolTrace `json:"tools_used"`
}

func Succeeded(result any, trace ToolTrace) Outcome {
	return Outcome{Result: result, Tools: trace}
}

func Failed(message string, err error, trace ToolTrace) Outcome {
	return Outcome{Failure: message, Err: err, Tools: trace}
}

func (o Outcome) IsFailure() bool {
	return o.Failure != "" || o.Err != nil
}

type RunResult struct {
	Response  string   `json:"response"`
	ToolsUsed []string `json:"tools_used"`
}
