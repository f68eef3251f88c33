// Package render turns a dispatched decision into the reply text.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	localex "github.com/tanpawarit/Chative-Shop-Assistant/agent/locale"
)

// Two decimals, thousands grouped with a space.
const currencyFormat = "# ###.##"

type Renderer struct {
	msgs     localex.Messages
	currency string
}

type Option func(*Renderer)

// WithCurrency overrides the locale's currency suffix.
func WithCurrency(currency string) Option {
	return func(r *Renderer) {
		if strings.TrimSpace(currency) != "" {
			r.currency = strings.TrimSpace(currency)
		}
	}
}

func New(msgs localex.Messages, opts ...Option) *Renderer {
	r := &Renderer{msgs: msgs, currency: msgs.Currency}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render never fails. A failed outcome renders as its message; a result
// whose shape does not fit the action renders as the generic message.
func (r *Renderer) Render(d contractx.Decision, o contractx.Outcome) string {
	if o.IsFailure() {
		if o.Failure != "" {
			return o.Failure
		}
		return o.Err.Error()
	}

	switch d.Action {
	case contractx.ActionListProducts:
		if products, ok := o.Result.([]contractx.Product); ok {
			return r.Products(products)
		}
	case contractx.ActionGetStatistics:
		if stats, ok := o.Result.(contractx.Statistics); ok {
			return fmt.Sprintf(r.msgs.Statistics, stats.Count, r.Currency(stats.AveragePrice))
		}
	case contractx.ActionAddProduct:
		if p, ok := o.Result.(contractx.Product); ok {
			return fmt.Sprintf(r.msgs.Added, p.Name, p.ID, Number(p.Price))
		}
	case contractx.ActionGetProduct:
		if p, ok := o.Result.(contractx.Product); ok {
			return r.Products([]contractx.Product{p})
		}
	case contractx.ActionDiscount:
		if res, ok := o.Result.(contractx.DiscountResult); ok {
			return fmt.Sprintf(r.msgs.Discount, res.Product.Name, Number(res.DiscountPercent), r.Currency(res.DiscountedPrice))
		}
	}
	return r.msgs.Processed
}

// Products renders one line per product, or the empty-catalog message.
func (r *Renderer) Products(products []contractx.Product) string {
	if len(products) == 0 {
		return r.msgs.NoProducts
	}
	lines := make([]string, 0, len(products))
	for _, p := range products {
		status := r.msgs.OutOfStock
		if p.InStock {
			status = r.msgs.InStock
		}
		lines = append(lines, fmt.Sprintf(r.msgs.ProductLine, p.ID, p.Name, p.Category, Number(p.Price), status))
	}
	return strings.Join(lines, "\n")
}

// Currency formats v as "1 500.50 RUB".
func (r *Renderer) Currency(v float64) string {
	return humanize.FormatFloat(currencyFormat, v) + " " + r.currency
}

// Number is the shortest decimal form of v, keeping ".0" on integral values.
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}
